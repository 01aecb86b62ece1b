package domain

import "archimap/internal/taxonomy"

// Folder organizes elements into a tagged tree. The relations and diagrams
// folders exist for the hierarchical persistence shape; the relationships
// and diagrams themselves are owned by the model, not by folders.
type Folder struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Kind       taxonomy.FolderKind `json:"kind"`
	Elements   []*Element          `json:"elements,omitempty"`
	Subfolders []*Folder           `json:"subfolders,omitempty"`
}

// NewFolder creates a folder with a generated id.
func NewFolder(name string, kind taxonomy.FolderKind) *Folder {
	return &Folder{
		ID:   newID(),
		Name: name,
		Kind: kind,
	}
}

// FindByKind returns the first folder in the subtree with the given kind
// tag, searching depth-first with the folder itself considered first.
func (f *Folder) FindByKind(kind taxonomy.FolderKind) *Folder {
	if f.Kind == kind {
		return f
	}
	for _, sub := range f.Subfolders {
		if found := sub.FindByKind(kind); found != nil {
			return found
		}
	}
	return nil
}

// RemoveElement removes the element with the given id from the subtree.
// It reports whether an element was removed.
func (f *Folder) RemoveElement(id string) bool {
	for i, e := range f.Elements {
		if e.ID == id {
			f.Elements = append(f.Elements[:i], f.Elements[i+1:]...)
			return true
		}
	}
	for _, sub := range f.Subfolders {
		if sub.RemoveElement(id) {
			return true
		}
	}
	return false
}

// WalkElements visits every element in the subtree in folder order.
func (f *Folder) WalkElements(visit func(e *Element)) {
	for _, e := range f.Elements {
		visit(e)
	}
	for _, sub := range f.Subfolders {
		sub.WalkElements(visit)
	}
}
