package domain

import "archimap/internal/taxonomy"

// Model is an in-memory architecture model. It owns its folders (which own
// elements) and owns relationships and diagrams directly: both are
// cross-cutting and only nest under folders in the hierarchical persistence
// shape.
//
// A Model is a plain value with no hidden global state. It is not
// thread-safe; concurrent mutation requires external locking.
type Model struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Version       string          `json:"version"`
	Documentation string          `json:"documentation,omitempty"`
	Folders       []*Folder       `json:"folders,omitempty"`
	Relationships []*Relationship `json:"relationships,omitempty"`
	Diagrams      []*Diagram      `json:"diagrams,omitempty"`
}

// NewModel creates an empty model with a generated id and no folders.
func NewModel(name string) *Model {
	return &Model{
		ID:      newID(),
		Name:    name,
		Version: "1.0",
	}
}

// NewDefaultModel creates a model with the standard nine-folder skeleton.
func NewDefaultModel(name string) *Model {
	m := NewModel(name)
	m.Folders = DefaultFolders()
	return m
}

// DefaultFolders builds the standard top-level folder set: one folder per
// layer home plus the relations and diagrams folders.
func DefaultFolders() []*Folder {
	return []*Folder{
		NewFolder("Strategy", taxonomy.FolderStrategy),
		NewFolder("Business", taxonomy.FolderBusiness),
		NewFolder("Application", taxonomy.FolderApplication),
		NewFolder("Technology & Physical", taxonomy.FolderTechnology),
		NewFolder("Motivation", taxonomy.FolderMotivation),
		NewFolder("Implementation & Migration", taxonomy.FolderImplementation),
		NewFolder("Other", taxonomy.FolderOther),
		NewFolder("Relations", taxonomy.FolderRelations),
		NewFolder("Views", taxonomy.FolderDiagrams),
	}
}

// FindFolder returns the first folder (depth-first across the top-level
// folders) with the given kind tag.
func (m *Model) FindFolder(kind taxonomy.FolderKind) *Folder {
	for _, f := range m.Folders {
		if found := f.FindByKind(kind); found != nil {
			return found
		}
	}
	return nil
}

// Element returns the element with the given id, or nil.
func (m *Model) Element(id string) *Element {
	var found *Element
	m.WalkElements(func(e *Element) {
		if found == nil && e.ID == id {
			found = e
		}
	})
	return found
}

// Relationship returns the relationship with the given id, or nil.
func (m *Model) Relationship(id string) *Relationship {
	for _, r := range m.Relationships {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Diagram returns the diagram with the given id, or nil.
func (m *Model) Diagram(id string) *Diagram {
	for _, d := range m.Diagrams {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// WalkElements visits every element in every folder, in folder order.
func (m *Model) WalkElements(visit func(e *Element)) {
	for _, f := range m.Folders {
		f.WalkElements(visit)
	}
}

// AddElement places an element into the first folder whose kind tag matches
// the element's layer. Elements with no matching folder (or an unknown kind)
// are not placed anywhere.
func (m *Model) AddElement(e *Element) *Model {
	layer, err := taxonomy.LayerOf(e.Kind)
	if err != nil {
		return m
	}
	if folder := m.FindFolder(taxonomy.FolderForLayer(layer)); folder != nil {
		folder.Elements = append(folder.Elements, e)
	}
	return m
}

// AddRelationship appends a relationship to the model. Legality is not
// checked here; callers gate construction through the validity package.
func (m *Model) AddRelationship(r *Relationship) *Model {
	m.Relationships = append(m.Relationships, r)
	return m
}

// AddDiagram appends a diagram to the model.
func (m *Model) AddDiagram(d *Diagram) *Model {
	m.Diagrams = append(m.Diagrams, d)
	return m
}

// RemoveElement removes the element with the given id and cascades: every
// relationship touching it and every diagram object referencing it are
// removed as well.
func (m *Model) RemoveElement(id string) *Model {
	for _, f := range m.Folders {
		if f.RemoveElement(id) {
			break
		}
	}

	kept := m.Relationships[:0]
	for _, r := range m.Relationships {
		if r.SourceID != id && r.TargetID != id {
			kept = append(kept, r)
		}
	}
	m.Relationships = kept

	for _, d := range m.Diagrams {
		d.Objects = removeObjectsFor(d.Objects, id)
	}
	return m
}

// removeObjectsFor drops every diagram object (at any depth) whose element
// reference matches id. A removed object takes its subtree with it.
func removeObjectsFor(objs []*DiagramObject, elementID string) []*DiagramObject {
	kept := objs[:0]
	for _, obj := range objs {
		if obj.ElementID == elementID {
			continue
		}
		obj.Children = removeObjectsFor(obj.Children, elementID)
		kept = append(kept, obj)
	}
	return kept
}

// RemoveRelationship removes the relationship with the given id and every
// diagram connection that references it, including stale incoming-connection
// ids on target objects.
func (m *Model) RemoveRelationship(id string) *Model {
	kept := m.Relationships[:0]
	for _, r := range m.Relationships {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.Relationships = kept

	for _, d := range m.Diagrams {
		var removed []string
		d.Walk(func(obj *DiagramObject) {
			conns := obj.OutgoingConnections[:0]
			for _, c := range obj.OutgoingConnections {
				if c.RelationshipID == id {
					removed = append(removed, c.ID)
					continue
				}
				conns = append(conns, c)
			}
			obj.OutgoingConnections = conns
		})
		if len(removed) == 0 {
			continue
		}
		d.Walk(func(obj *DiagramObject) {
			ids := obj.IncomingConnectionIDs[:0]
			for _, cid := range obj.IncomingConnectionIDs {
				if !contains(removed, cid) {
					ids = append(ids, cid)
				}
			}
			obj.IncomingConnectionIDs = ids
		})
	}
	return m
}

// ElementUpdate is a partial element update; nil fields are left untouched.
type ElementUpdate struct {
	Name          *string     `json:"name,omitempty"`
	Documentation *string     `json:"documentation,omitempty"`
	Properties    *[]Property `json:"properties,omitempty"`
}

// UpdateElement applies a partial update in place. It returns ErrNotFound
// when no element has the given id.
func (m *Model) UpdateElement(id string, update ElementUpdate) error {
	e := m.Element(id)
	if e == nil {
		return ErrNotFound
	}
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.Documentation != nil {
		e.Documentation = *update.Documentation
	}
	if update.Properties != nil {
		e.Properties = *update.Properties
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
