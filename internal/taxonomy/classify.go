package taxonomy

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by LayerOf when a kind is absent from the
// element enumeration.
var ErrUnknownKind = errors.New("unknown element kind")

// Category is the structural classification of an element kind, used to
// drive relationship-legality rules.
type Category string

const (
	CategoryActiveStructure         Category = "active_structure"
	CategoryInterface               Category = "interface"
	CategoryBehaviorInternal        Category = "behavior_internal"
	CategoryBehaviorExternal        Category = "behavior_external"
	CategoryEvent                   Category = "event"
	CategoryPassiveStructure        Category = "passive_structure"
	CategoryStrategy                Category = "strategy"
	CategoryMotivation              Category = "motivation"
	CategoryImplementationMigration Category = "implementation_migration"
	CategoryComposite               Category = "composite"
)

// Layer is an architectural tier with a fixed ordering used for directional
// legality rules.
type Layer string

const (
	LayerMotivation     Layer = "motivation"
	LayerStrategy       Layer = "strategy"
	LayerBusiness       Layer = "business"
	LayerApplication    Layer = "application"
	LayerTechnology     Layer = "technology"
	LayerPhysical       Layer = "physical"
	LayerImplementation Layer = "implementation"
	LayerComposite      Layer = "composite"
)

var categories = map[ElementKind]Category{
	Stakeholder: CategoryMotivation,
	Driver:      CategoryMotivation,
	Assessment:  CategoryMotivation,
	Goal:        CategoryMotivation,
	Outcome:     CategoryMotivation,
	Principle:   CategoryMotivation,
	Requirement: CategoryMotivation,
	Constraint:  CategoryMotivation,
	Meaning:     CategoryMotivation,
	Value:       CategoryMotivation,

	Resource:       CategoryStrategy,
	Capability:     CategoryStrategy,
	CourseOfAction: CategoryStrategy,
	ValueStream:    CategoryStrategy,

	BusinessActor:         CategoryActiveStructure,
	BusinessRole:          CategoryActiveStructure,
	BusinessCollaboration: CategoryActiveStructure,
	BusinessInterface:     CategoryInterface,
	BusinessProcess:       CategoryBehaviorInternal,
	BusinessFunction:      CategoryBehaviorInternal,
	BusinessInteraction:   CategoryBehaviorInternal,
	BusinessService:       CategoryBehaviorExternal,
	BusinessEvent:         CategoryEvent,
	BusinessObject:        CategoryPassiveStructure,
	Contract:              CategoryPassiveStructure,
	Representation:        CategoryPassiveStructure,
	Product:               CategoryComposite,

	ApplicationComponent:     CategoryActiveStructure,
	ApplicationCollaboration: CategoryActiveStructure,
	ApplicationInterface:     CategoryInterface,
	ApplicationFunction:      CategoryBehaviorInternal,
	ApplicationInteraction:   CategoryBehaviorInternal,
	ApplicationProcess:       CategoryBehaviorInternal,
	ApplicationService:       CategoryBehaviorExternal,
	ApplicationEvent:         CategoryEvent,
	DataObject:               CategoryPassiveStructure,

	Node:                    CategoryActiveStructure,
	Device:                  CategoryActiveStructure,
	SystemSoftware:          CategoryActiveStructure,
	TechnologyCollaboration: CategoryActiveStructure,
	TechnologyInterface:     CategoryInterface,
	Path:                    CategoryActiveStructure,
	CommunicationNetwork:    CategoryActiveStructure,
	TechnologyFunction:      CategoryBehaviorInternal,
	TechnologyProcess:       CategoryBehaviorInternal,
	TechnologyInteraction:   CategoryBehaviorInternal,
	TechnologyService:       CategoryBehaviorExternal,
	TechnologyEvent:         CategoryEvent,
	Artifact:                CategoryPassiveStructure,

	Equipment:           CategoryActiveStructure,
	Facility:            CategoryActiveStructure,
	DistributionNetwork: CategoryActiveStructure,
	Material:            CategoryPassiveStructure,

	WorkPackage:         CategoryImplementationMigration,
	Deliverable:         CategoryImplementationMigration,
	ImplementationEvent: CategoryEvent,
	Plateau:             CategoryImplementationMigration,
	Gap:                 CategoryImplementationMigration,

	Location: CategoryComposite,
	Grouping: CategoryComposite,
	Junction: CategoryComposite,
}

var layers = map[ElementKind]Layer{
	Stakeholder: LayerMotivation,
	Driver:      LayerMotivation,
	Assessment:  LayerMotivation,
	Goal:        LayerMotivation,
	Outcome:     LayerMotivation,
	Principle:   LayerMotivation,
	Requirement: LayerMotivation,
	Constraint:  LayerMotivation,
	Meaning:     LayerMotivation,
	Value:       LayerMotivation,

	Resource:       LayerStrategy,
	Capability:     LayerStrategy,
	CourseOfAction: LayerStrategy,
	ValueStream:    LayerStrategy,

	BusinessActor:         LayerBusiness,
	BusinessRole:          LayerBusiness,
	BusinessCollaboration: LayerBusiness,
	BusinessInterface:     LayerBusiness,
	BusinessProcess:       LayerBusiness,
	BusinessFunction:      LayerBusiness,
	BusinessInteraction:   LayerBusiness,
	BusinessService:       LayerBusiness,
	BusinessEvent:         LayerBusiness,
	BusinessObject:        LayerBusiness,
	Contract:              LayerBusiness,
	Representation:        LayerBusiness,
	Product:               LayerBusiness,

	ApplicationComponent:     LayerApplication,
	ApplicationCollaboration: LayerApplication,
	ApplicationInterface:     LayerApplication,
	ApplicationFunction:      LayerApplication,
	ApplicationInteraction:   LayerApplication,
	ApplicationProcess:       LayerApplication,
	ApplicationService:       LayerApplication,
	ApplicationEvent:         LayerApplication,
	DataObject:               LayerApplication,

	Node:                    LayerTechnology,
	Device:                  LayerTechnology,
	SystemSoftware:          LayerTechnology,
	TechnologyCollaboration: LayerTechnology,
	TechnologyInterface:     LayerTechnology,
	Path:                    LayerTechnology,
	CommunicationNetwork:    LayerTechnology,
	TechnologyFunction:      LayerTechnology,
	TechnologyProcess:       LayerTechnology,
	TechnologyInteraction:   LayerTechnology,
	TechnologyService:       LayerTechnology,
	TechnologyEvent:         LayerTechnology,
	Artifact:                LayerTechnology,

	Equipment:           LayerPhysical,
	Facility:            LayerPhysical,
	DistributionNetwork: LayerPhysical,
	Material:            LayerPhysical,

	WorkPackage:         LayerImplementation,
	Deliverable:         LayerImplementation,
	ImplementationEvent: LayerImplementation,
	Plateau:             LayerImplementation,
	Gap:                 LayerImplementation,

	Location: LayerComposite,
	Grouping: LayerComposite,
	Junction: LayerComposite,
}

// layerOrder fixes the tier ordering used as a directionality signal.
// Technology and Physical deliberately share a rank.
var layerOrder = map[Layer]int{
	LayerMotivation:     0,
	LayerStrategy:       1,
	LayerBusiness:       2,
	LayerApplication:    3,
	LayerTechnology:     4,
	LayerPhysical:       4,
	LayerImplementation: 5,
	LayerComposite:      6,
}

// CategoryOf returns the structural category of a kind. Kinds absent from the
// enumeration fall back to CategoryComposite; this asymmetry with LayerOf is
// long-standing observable behavior and is kept on purpose.
func CategoryOf(kind ElementKind) Category {
	if cat, ok := categories[kind]; ok {
		return cat
	}
	return CategoryComposite
}

// LayerOf returns the architectural layer of a kind. Unlike CategoryOf it
// reports unknown kinds as an error instead of defaulting.
func LayerOf(kind ElementKind) (Layer, error) {
	layer, ok := layers[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return layer, nil
}

// LayerOrder returns the fixed rank of a layer. Higher ranks sit lower in
// the architecture.
func LayerOrder(layer Layer) int {
	return layerOrder[layer]
}
