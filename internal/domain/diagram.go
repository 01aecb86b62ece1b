package domain

// Bounds is a diagram object's position and size in layout units. Values are
// caller-supplied; the system never computes layout.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bendpoint is an intermediate routing point on a diagram connection.
type Bendpoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DiagramConnection is a visual edge between two diagram objects, backed by
// a model relationship.
type DiagramConnection struct {
	ID             string      `json:"id"`
	SourceObjectID string      `json:"source_object_id"`
	TargetObjectID string      `json:"target_object_id"`
	RelationshipID string      `json:"relationship_id"`
	Bendpoints     []Bendpoint `json:"bendpoints,omitempty"`
}

// NewDiagramConnection creates a connection with a generated id.
func NewDiagramConnection(relationshipID, sourceObjectID, targetObjectID string) DiagramConnection {
	return DiagramConnection{
		ID:             newID(),
		SourceObjectID: sourceObjectID,
		TargetObjectID: targetObjectID,
		RelationshipID: relationshipID,
	}
}

// DiagramObject is a positioned occurrence of an element on a diagram.
// Objects reference elements, never own them, and may nest to any depth.
type DiagramObject struct {
	ID        string `json:"id"`
	ElementID string `json:"element_id"`
	Bounds    Bounds `json:"bounds"`

	// OutgoingConnections are owned by their source object; incoming
	// connections are tracked by id only.
	OutgoingConnections   []DiagramConnection `json:"outgoing_connections,omitempty"`
	IncomingConnectionIDs []string            `json:"incoming_connection_ids,omitempty"`

	Children []*DiagramObject `json:"children,omitempty"`
}

// NewDiagramObject creates a diagram object with a generated id.
func NewDiagramObject(elementID string, bounds Bounds) *DiagramObject {
	return &DiagramObject{
		ID:        newID(),
		ElementID: elementID,
		Bounds:    bounds,
	}
}

// Diagram is a visual projection of a subset of the model.
type Diagram struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Viewpoint     string           `json:"viewpoint,omitempty"`
	Documentation string           `json:"documentation,omitempty"`
	Objects       []*DiagramObject `json:"objects,omitempty"`
}

// NewDiagram creates a diagram with a generated id.
func NewDiagram(name string) *Diagram {
	return &Diagram{
		ID:   newID(),
		Name: name,
	}
}

// AddObject appends a top-level diagram object.
func (d *Diagram) AddObject(obj *DiagramObject) {
	d.Objects = append(d.Objects, obj)
}

// Walk visits every diagram object depth-first, parents before children.
func (d *Diagram) Walk(visit func(obj *DiagramObject)) {
	var walk func(objs []*DiagramObject)
	walk = func(objs []*DiagramObject) {
		for _, obj := range objs {
			visit(obj)
			walk(obj.Children)
		}
	}
	walk(d.Objects)
}

// FindObject returns the diagram object with the given id, searching nested
// children.
func (d *Diagram) FindObject(id string) *DiagramObject {
	var found *DiagramObject
	d.Walk(func(obj *DiagramObject) {
		if found == nil && obj.ID == id {
			found = obj
		}
	})
	return found
}
