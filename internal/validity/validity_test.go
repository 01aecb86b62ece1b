package validity

import (
	"strings"
	"testing"

	"archimap/internal/taxonomy"
)

func TestIsValid(t *testing.T) {
	t.Run("association is always allowed", func(t *testing.T) {
		for _, source := range taxonomy.ElementKinds() {
			for _, target := range taxonomy.ElementKinds() {
				if !IsValid(source, target, taxonomy.Association) {
					t.Fatalf("expected Association %s -> %s to be valid", source, target)
				}
			}
		}
	})

	t.Run("specialization requires identical kinds", func(t *testing.T) {
		if !IsValid(taxonomy.BusinessActor, taxonomy.BusinessActor, taxonomy.Specialization) {
			t.Error("expected Specialization between identical kinds")
		}
		if IsValid(taxonomy.BusinessActor, taxonomy.BusinessRole, taxonomy.Specialization) {
			t.Error("expected Specialization between different kinds to be invalid")
		}
	})

	t.Run("composition", func(t *testing.T) {
		cases := []struct {
			source, target taxonomy.ElementKind
			want           bool
		}{
			{taxonomy.Node, taxonomy.Node, true},                     // same kind
			{taxonomy.Grouping, taxonomy.TechnologyService, true},    // composite source
			{taxonomy.BusinessActor, taxonomy.Location, true},        // composite target
			{taxonomy.BusinessActor, taxonomy.BusinessProcess, true}, // same layer
			{taxonomy.BusinessActor, taxonomy.DataObject, false},     // cross-layer
		}
		for _, c := range cases {
			if got := IsValid(c.source, c.target, taxonomy.Composition); got != c.want {
				t.Errorf("Composition %s -> %s = %v, want %v", c.source, c.target, got, c.want)
			}
		}
	})

	t.Run("assignment", func(t *testing.T) {
		cases := []struct {
			source, target taxonomy.ElementKind
			want           bool
		}{
			{taxonomy.BusinessActor, taxonomy.BusinessProcess, true},        // active -> internal behavior
			{taxonomy.ApplicationComponent, taxonomy.BusinessService, true}, // active -> external behavior
			{taxonomy.BusinessProcess, taxonomy.BusinessObject, true},       // internal behavior -> passive
			{taxonomy.DataObject, taxonomy.BusinessActor, false},            // passive source
			{taxonomy.WorkPackage, taxonomy.BusinessProcess, false},         // work packages are not active structure
			{taxonomy.BusinessActor, taxonomy.BusinessActor, false},         // active -> active
		}
		for _, c := range cases {
			if got := IsValid(c.source, c.target, taxonomy.Assignment); got != c.want {
				t.Errorf("Assignment %s -> %s = %v, want %v", c.source, c.target, got, c.want)
			}
		}
	})

	t.Run("realization", func(t *testing.T) {
		cases := []struct {
			source, target taxonomy.ElementKind
			want           bool
		}{
			{taxonomy.BusinessProcess, taxonomy.BusinessService, true},    // internal -> external behavior
			{taxonomy.ApplicationComponent, taxonomy.BusinessActor, true}, // lower layer realizes higher
			{taxonomy.BusinessProcess, taxonomy.Capability, true},         // strategy target
			{taxonomy.ApplicationService, taxonomy.Requirement, true},     // motivation target
			{taxonomy.Artifact, taxonomy.ApplicationComponent, true},      // artifact realizes anything
			{taxonomy.BusinessActor, taxonomy.DataObject, false},          // upward into a lower layer
		}
		for _, c := range cases {
			if got := IsValid(c.source, c.target, taxonomy.Realization); got != c.want {
				t.Errorf("Realization %s -> %s = %v, want %v", c.source, c.target, got, c.want)
			}
		}
	})

	t.Run("serving", func(t *testing.T) {
		cases := []struct {
			source, target taxonomy.ElementKind
			want           bool
		}{
			{taxonomy.ApplicationService, taxonomy.Goal, true},            // external behavior serves anything
			{taxonomy.BusinessActor, taxonomy.ApplicationComponent, true}, // active -> active
			{taxonomy.DataObject, taxonomy.BusinessObject, true},          // lower layer serves higher
			{taxonomy.Capability, taxonomy.ValueStream, true},             // explicit strategy pairing
			{taxonomy.BusinessProcess, taxonomy.BusinessObject, true},     // same layer
			{taxonomy.Goal, taxonomy.Artifact, false},
		}
		for _, c := range cases {
			if got := IsValid(c.source, c.target, taxonomy.Serving); got != c.want {
				t.Errorf("Serving %s -> %s = %v, want %v", c.source, c.target, got, c.want)
			}
		}
	})

	t.Run("access", func(t *testing.T) {
		cases := []struct {
			source, target taxonomy.ElementKind
			want           bool
		}{
			{taxonomy.BusinessProcess, taxonomy.BusinessObject, true},
			{taxonomy.ApplicationService, taxonomy.DataObject, true},
			{taxonomy.BusinessEvent, taxonomy.Contract, true},
			{taxonomy.BusinessActor, taxonomy.BusinessObject, false}, // active structure cannot access
			{taxonomy.BusinessProcess, taxonomy.BusinessActor, false},
		}
		for _, c := range cases {
			if got := IsValid(c.source, c.target, taxonomy.Access); got != c.want {
				t.Errorf("Access %s -> %s = %v, want %v", c.source, c.target, got, c.want)
			}
		}
	})

	t.Run("influence targets motivation", func(t *testing.T) {
		if !IsValid(taxonomy.Goal, taxonomy.Principle, taxonomy.Influence) {
			t.Error("expected Influence toward a motivation element")
		}
		if IsValid(taxonomy.Goal, taxonomy.BusinessActor, taxonomy.Influence) {
			t.Error("expected Influence toward a non-motivation element to be invalid")
		}
	})

	t.Run("triggering needs a behavioral end", func(t *testing.T) {
		if !IsValid(taxonomy.BusinessEvent, taxonomy.BusinessProcess, taxonomy.Triggering) {
			t.Error("expected event -> process triggering")
		}
		if !IsValid(taxonomy.BusinessActor, taxonomy.WorkPackage, taxonomy.Triggering) {
			t.Error("expected triggering toward implementation work")
		}
		if IsValid(taxonomy.BusinessActor, taxonomy.DataObject, taxonomy.Triggering) {
			t.Error("expected structural-only triggering to be invalid")
		}
	})

	t.Run("flow needs a flow-capable end", func(t *testing.T) {
		if !IsValid(taxonomy.BusinessProcess, taxonomy.ApplicationProcess, taxonomy.Flow) {
			t.Error("expected behavior-to-behavior flow")
		}
		if !IsValid(taxonomy.BusinessActor, taxonomy.DataObject, taxonomy.Flow) {
			t.Error("expected flow toward passive structure")
		}
		if IsValid(taxonomy.BusinessActor, taxonomy.ApplicationComponent, taxonomy.Flow) {
			t.Error("expected active-to-active flow to be invalid")
		}
	})

	t.Run("unknown relationship kind is invalid", func(t *testing.T) {
		if IsValid(taxonomy.BusinessActor, taxonomy.BusinessActor, "Uses") {
			t.Error("expected unknown relationship kind to be invalid")
		}
	})
}

func TestValidKinds(t *testing.T) {
	t.Run("results follow enumeration order", func(t *testing.T) {
		kinds := ValidKinds(taxonomy.DataObject, taxonomy.BusinessActor)
		want := []taxonomy.RelationshipKind{
			taxonomy.Realization, taxonomy.Serving, taxonomy.Association, taxonomy.Flow,
		}
		if len(kinds) != len(want) {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
		for i := range want {
			if kinds[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, kinds)
			}
		}
	})

	t.Run("never empty", func(t *testing.T) {
		// Association is universal, so every pair has at least one option.
		for _, source := range taxonomy.ElementKinds() {
			if len(ValidKinds(source, taxonomy.Junction)) == 0 {
				t.Errorf("expected at least one valid kind from %s", source)
			}
		}
	})
}

func TestValidTargets(t *testing.T) {
	targets := ValidTargets(taxonomy.BusinessProcess, taxonomy.Access)
	want := []taxonomy.ElementKind{
		taxonomy.BusinessObject, taxonomy.Contract, taxonomy.Representation,
		taxonomy.DataObject, taxonomy.Artifact, taxonomy.Material,
	}
	if len(targets) != len(want) {
		t.Fatalf("expected %v, got %v", want, targets)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, targets)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a legal triple", func(t *testing.T) {
		res := Validate(taxonomy.BusinessActor, taxonomy.BusinessProcess, taxonomy.Assignment)
		if !res.OK {
			t.Fatalf("expected OK, got reason %q", res.Reason)
		}
		if res.Reason != "" || len(res.Suggestions) != 0 {
			t.Error("expected empty reason and suggestions on success")
		}
	})

	t.Run("rejects with alternatives", func(t *testing.T) {
		res := Validate(taxonomy.DataObject, taxonomy.BusinessActor, taxonomy.Assignment)
		if res.OK {
			t.Fatal("expected rejection")
		}
		if res.Reason == "" {
			t.Error("expected a reason")
		}
		want := []taxonomy.RelationshipKind{
			taxonomy.Realization, taxonomy.Serving, taxonomy.Association, taxonomy.Flow,
		}
		if len(res.Suggestions) != len(want) {
			t.Fatalf("expected suggestions %v, got %v", want, res.Suggestions)
		}
		for i := range want {
			if res.Suggestions[i] != want[i] {
				t.Fatalf("expected suggestions %v, got %v", want, res.Suggestions)
			}
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		first := Validate(taxonomy.DataObject, taxonomy.BusinessActor, taxonomy.Assignment)
		second := Validate(taxonomy.DataObject, taxonomy.BusinessActor, taxonomy.Assignment)
		if first.Reason != second.Reason || len(first.Suggestions) != len(second.Suggestions) {
			t.Error("expected identical results for identical input")
		}
	})
}

func TestGuidance(t *testing.T) {
	t.Run("category advice for every kind", func(t *testing.T) {
		for _, kind := range taxonomy.ElementKinds() {
			if Guidance(kind, "") == "" {
				t.Errorf("expected guidance for %s", kind)
			}
		}
	})

	t.Run("pairwise advice lists legal kinds", func(t *testing.T) {
		text := Guidance(taxonomy.BusinessProcess, taxonomy.BusinessObject)
		if !strings.Contains(text, string(taxonomy.Access)) {
			t.Errorf("expected pairwise guidance to mention Access, got %q", text)
		}
	})
}
