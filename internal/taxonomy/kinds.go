package taxonomy

// ElementKind identifies one of the closed set of element types in the
// modeling language. The string value doubles as the bare type name used by
// the exchange format.
type ElementKind string

// Motivation elements
const (
	Stakeholder ElementKind = "Stakeholder"
	Driver      ElementKind = "Driver"
	Assessment  ElementKind = "Assessment"
	Goal        ElementKind = "Goal"
	Outcome     ElementKind = "Outcome"
	Principle   ElementKind = "Principle"
	Requirement ElementKind = "Requirement"
	Constraint  ElementKind = "Constraint"
	Meaning     ElementKind = "Meaning"
	Value       ElementKind = "Value"
)

// Strategy elements
const (
	Resource       ElementKind = "Resource"
	Capability     ElementKind = "Capability"
	CourseOfAction ElementKind = "CourseOfAction"
	ValueStream    ElementKind = "ValueStream"
)

// Business layer elements
const (
	BusinessActor         ElementKind = "BusinessActor"
	BusinessRole          ElementKind = "BusinessRole"
	BusinessCollaboration ElementKind = "BusinessCollaboration"
	BusinessInterface     ElementKind = "BusinessInterface"
	BusinessProcess       ElementKind = "BusinessProcess"
	BusinessFunction      ElementKind = "BusinessFunction"
	BusinessInteraction   ElementKind = "BusinessInteraction"
	BusinessService       ElementKind = "BusinessService"
	BusinessEvent         ElementKind = "BusinessEvent"
	BusinessObject        ElementKind = "BusinessObject"
	Contract              ElementKind = "Contract"
	Representation        ElementKind = "Representation"
	Product               ElementKind = "Product"
)

// Application layer elements
const (
	ApplicationComponent     ElementKind = "ApplicationComponent"
	ApplicationCollaboration ElementKind = "ApplicationCollaboration"
	ApplicationInterface     ElementKind = "ApplicationInterface"
	ApplicationFunction      ElementKind = "ApplicationFunction"
	ApplicationInteraction   ElementKind = "ApplicationInteraction"
	ApplicationProcess       ElementKind = "ApplicationProcess"
	ApplicationService       ElementKind = "ApplicationService"
	ApplicationEvent         ElementKind = "ApplicationEvent"
	DataObject               ElementKind = "DataObject"
)

// Technology layer elements
const (
	Node                    ElementKind = "Node"
	Device                  ElementKind = "Device"
	SystemSoftware          ElementKind = "SystemSoftware"
	TechnologyCollaboration ElementKind = "TechnologyCollaboration"
	TechnologyInterface     ElementKind = "TechnologyInterface"
	Path                    ElementKind = "Path"
	CommunicationNetwork    ElementKind = "CommunicationNetwork"
	TechnologyFunction      ElementKind = "TechnologyFunction"
	TechnologyProcess       ElementKind = "TechnologyProcess"
	TechnologyInteraction   ElementKind = "TechnologyInteraction"
	TechnologyService       ElementKind = "TechnologyService"
	TechnologyEvent         ElementKind = "TechnologyEvent"
	Artifact                ElementKind = "Artifact"
)

// Physical elements
const (
	Equipment           ElementKind = "Equipment"
	Facility            ElementKind = "Facility"
	DistributionNetwork ElementKind = "DistributionNetwork"
	Material            ElementKind = "Material"
)

// Implementation and migration elements
const (
	WorkPackage         ElementKind = "WorkPackage"
	Deliverable         ElementKind = "Deliverable"
	ImplementationEvent ElementKind = "ImplementationEvent"
	Plateau             ElementKind = "Plateau"
	Gap                 ElementKind = "Gap"
)

// Composite elements
const (
	Location ElementKind = "Location"
	Grouping ElementKind = "Grouping"
	Junction ElementKind = "Junction"
)

// RelationshipKind identifies one of the closed set of relationship types.
type RelationshipKind string

const (
	Composition    RelationshipKind = "Composition"
	Aggregation    RelationshipKind = "Aggregation"
	Assignment     RelationshipKind = "Assignment"
	Realization    RelationshipKind = "Realization"
	Serving        RelationshipKind = "Serving"
	Access         RelationshipKind = "Access"
	Influence      RelationshipKind = "Influence"
	Association    RelationshipKind = "Association"
	Triggering     RelationshipKind = "Triggering"
	Flow           RelationshipKind = "Flow"
	Specialization RelationshipKind = "Specialization"
)

// elementKinds lists every element kind in canonical enumeration order:
// motivation, strategy, then the layers top-down, then composites.
var elementKinds = []ElementKind{
	Stakeholder, Driver, Assessment, Goal, Outcome, Principle, Requirement,
	Constraint, Meaning, Value,
	Resource, Capability, CourseOfAction, ValueStream,
	BusinessActor, BusinessRole, BusinessCollaboration, BusinessInterface,
	BusinessProcess, BusinessFunction, BusinessInteraction, BusinessService,
	BusinessEvent, BusinessObject, Contract, Representation, Product,
	ApplicationComponent, ApplicationCollaboration, ApplicationInterface,
	ApplicationFunction, ApplicationInteraction, ApplicationProcess,
	ApplicationService, ApplicationEvent, DataObject,
	Node, Device, SystemSoftware, TechnologyCollaboration,
	TechnologyInterface, Path, CommunicationNetwork, TechnologyFunction,
	TechnologyProcess, TechnologyInteraction, TechnologyService,
	TechnologyEvent, Artifact,
	Equipment, Facility, DistributionNetwork, Material,
	WorkPackage, Deliverable, ImplementationEvent, Plateau, Gap,
	Location, Grouping, Junction,
}

// relationshipKinds lists every relationship kind in the fixed order used for
// suggestion lists.
var relationshipKinds = []RelationshipKind{
	Composition, Aggregation, Assignment, Realization, Serving, Access,
	Influence, Association, Triggering, Flow, Specialization,
}

// ElementKinds returns the full element kind enumeration in canonical order.
// The returned slice is a copy and safe to modify.
func ElementKinds() []ElementKind {
	out := make([]ElementKind, len(elementKinds))
	copy(out, elementKinds)
	return out
}

// RelationshipKinds returns the full relationship kind enumeration in the
// fixed suggestion order.
func RelationshipKinds() []RelationshipKind {
	out := make([]RelationshipKind, len(relationshipKinds))
	copy(out, relationshipKinds)
	return out
}

// ElementKindNamed resolves a bare type name to an element kind.
func ElementKindNamed(name string) (ElementKind, bool) {
	kind := ElementKind(name)
	_, ok := layers[kind]
	return kind, ok
}

// RelationshipKindNamed resolves a bare type name to a relationship kind.
func RelationshipKindNamed(name string) (RelationshipKind, bool) {
	for _, kind := range relationshipKinds {
		if string(kind) == name {
			return kind, true
		}
	}
	return "", false
}
