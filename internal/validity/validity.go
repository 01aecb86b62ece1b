// Package validity decides which relationship kinds may legally connect
// which element kinds, and suggests alternatives when a combination is
// rejected. All functions are pure and reentrant.
package validity

import (
	"fmt"
	"strings"

	"archimap/internal/taxonomy"
)

// layerOf resolves a kind's layer, treating unknown kinds as the zero layer.
// Legality rules compare layers structurally and must stay total.
func layerOf(kind taxonomy.ElementKind) taxonomy.Layer {
	layer, err := taxonomy.LayerOf(kind)
	if err != nil {
		return ""
	}
	return layer
}

func orderOf(kind taxonomy.ElementKind) int {
	return taxonomy.LayerOrder(layerOf(kind))
}

// IsValid reports whether a relationship of the given kind may connect a
// source element kind to a target element kind. Unlisted relationship kinds
// are always invalid.
func IsValid(source, target taxonomy.ElementKind, rel taxonomy.RelationshipKind) bool {
	srcCat := taxonomy.CategoryOf(source)
	tgtCat := taxonomy.CategoryOf(target)

	switch rel {
	case taxonomy.Composition, taxonomy.Aggregation:
		return source == target ||
			srcCat == taxonomy.CategoryComposite ||
			tgtCat == taxonomy.CategoryComposite ||
			layerOf(source) == layerOf(target)

	case taxonomy.Specialization:
		return source == target

	case taxonomy.Assignment:
		if srcCat == taxonomy.CategoryActiveStructure &&
			(tgtCat == taxonomy.CategoryBehaviorInternal || tgtCat == taxonomy.CategoryBehaviorExternal) {
			return true
		}
		if srcCat == taxonomy.CategoryBehaviorInternal && tgtCat == taxonomy.CategoryPassiveStructure {
			return true
		}
		// Work packages classify as implementation_migration, so this branch
		// never fires. It mirrors the historical rule table verbatim; see
		// DESIGN.md before changing it.
		if source == taxonomy.WorkPackage && srcCat == taxonomy.CategoryActiveStructure {
			return true
		}
		return false

	case taxonomy.Realization:
		return (srcCat == taxonomy.CategoryBehaviorInternal && tgtCat == taxonomy.CategoryBehaviorExternal) ||
			orderOf(source) > orderOf(target) ||
			tgtCat == taxonomy.CategoryStrategy ||
			tgtCat == taxonomy.CategoryMotivation ||
			source == taxonomy.Artifact

	case taxonomy.Serving:
		if srcCat == taxonomy.CategoryBehaviorExternal {
			return true
		}
		if srcCat == taxonomy.CategoryActiveStructure && tgtCat == taxonomy.CategoryActiveStructure {
			return true
		}
		if orderOf(source) > orderOf(target) {
			return true
		}
		if source == taxonomy.Capability && target == taxonomy.ValueStream {
			return true
		}
		return layerOf(source) == layerOf(target)

	case taxonomy.Access:
		return (srcCat == taxonomy.CategoryBehaviorInternal ||
			srcCat == taxonomy.CategoryBehaviorExternal ||
			srcCat == taxonomy.CategoryEvent) &&
			tgtCat == taxonomy.CategoryPassiveStructure

	case taxonomy.Influence:
		return tgtCat == taxonomy.CategoryMotivation

	case taxonomy.Triggering:
		return isBehaviorish(srcCat) || isBehaviorish(tgtCat)

	case taxonomy.Flow:
		return isFlowish(srcCat) || isFlowish(tgtCat)

	case taxonomy.Association:
		return true
	}

	return false
}

func isBehaviorish(cat taxonomy.Category) bool {
	return cat == taxonomy.CategoryEvent ||
		cat == taxonomy.CategoryBehaviorInternal ||
		cat == taxonomy.CategoryBehaviorExternal ||
		cat == taxonomy.CategoryImplementationMigration
}

func isFlowish(cat taxonomy.Category) bool {
	return cat == taxonomy.CategoryBehaviorInternal ||
		cat == taxonomy.CategoryBehaviorExternal ||
		cat == taxonomy.CategoryEvent ||
		cat == taxonomy.CategoryPassiveStructure
}

// ValidKinds returns every relationship kind legal between the two element
// kinds, in the fixed enumeration order.
func ValidKinds(source, target taxonomy.ElementKind) []taxonomy.RelationshipKind {
	var kinds []taxonomy.RelationshipKind
	for _, rel := range taxonomy.RelationshipKinds() {
		if IsValid(source, target, rel) {
			kinds = append(kinds, rel)
		}
	}
	return kinds
}

// ValidTargets returns every element kind the given relationship may reach
// from the source kind, in canonical enumeration order.
func ValidTargets(source taxonomy.ElementKind, rel taxonomy.RelationshipKind) []taxonomy.ElementKind {
	var kinds []taxonomy.ElementKind
	for _, target := range taxonomy.ElementKinds() {
		if IsValid(source, target, rel) {
			kinds = append(kinds, target)
		}
	}
	return kinds
}

// Result is the outcome of a Validate call. When OK is false, Suggestions
// lists the legal alternatives so the caller can self-correct without a
// second round trip.
type Result struct {
	OK          bool                        `json:"ok"`
	Reason      string                      `json:"reason,omitempty"`
	Suggestions []taxonomy.RelationshipKind `json:"suggestions,omitempty"`
}

// Validate checks a (source, relationship, target) triple and explains a
// rejection. Calling it twice with identical arguments yields identical
// results; there is no hidden state.
func Validate(source, target taxonomy.ElementKind, rel taxonomy.RelationshipKind) Result {
	if IsValid(source, target, rel) {
		return Result{OK: true}
	}

	suggestions := ValidKinds(source, target)
	if len(suggestions) == 0 {
		return Result{
			OK:     false,
			Reason: fmt.Sprintf("no relationship is allowed between %s and %s", source, target),
		}
	}

	return Result{
		OK:          false,
		Reason:      fmt.Sprintf("%s is not a valid relationship from %s to %s", rel, source, target),
		Suggestions: suggestions,
	}
}

// Guidance returns free-text modeling advice for a source kind. When target
// is non-empty it lists the legal relationship kinds toward it; otherwise it
// gives category-level advice. Presentation only.
func Guidance(source, target taxonomy.ElementKind) string {
	if target != "" {
		kinds := ValidKinds(source, target)
		if len(kinds) == 0 {
			return fmt.Sprintf("No relationship is allowed from %s to %s.", source, target)
		}
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		return fmt.Sprintf("From %s to %s you may use: %s.", source, target, strings.Join(names, ", "))
	}

	switch taxonomy.CategoryOf(source) {
	case taxonomy.CategoryActiveStructure:
		return fmt.Sprintf("%s is an active structure element: assign it to behavior, or serve other active elements.", source)
	case taxonomy.CategoryInterface:
		return fmt.Sprintf("%s is an interface: compose it into its provider and serve consumers across layers.", source)
	case taxonomy.CategoryBehaviorInternal:
		return fmt.Sprintf("%s is internal behavior: realize services, access passive elements, trigger or flow to other behavior.", source)
	case taxonomy.CategoryBehaviorExternal:
		return fmt.Sprintf("%s is a service: serve elements in the same or higher layers.", source)
	case taxonomy.CategoryEvent:
		return fmt.Sprintf("%s is an event: trigger behavior or appear in flows.", source)
	case taxonomy.CategoryPassiveStructure:
		return fmt.Sprintf("%s is a passive element: it is usually the target of access relationships.", source)
	case taxonomy.CategoryStrategy:
		return fmt.Sprintf("%s is a strategy element: realize it from lower layers or relate it to other strategy elements.", source)
	case taxonomy.CategoryMotivation:
		return fmt.Sprintf("%s is a motivation element: influence it or realize it from the core layers.", source)
	case taxonomy.CategoryImplementationMigration:
		return fmt.Sprintf("%s is an implementation element: trigger other work or associate it with affected elements.", source)
	default:
		return fmt.Sprintf("%s is a composite: composition and aggregation are always available.", source)
	}
}
