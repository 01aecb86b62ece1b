package domain

import "archimap/internal/taxonomy"

// AccessQualifier narrows an access relationship to the direction of data
// flow. It is ignored for every other relationship kind.
type AccessQualifier string

const (
	AccessRead      AccessQualifier = "read"
	AccessWrite     AccessQualifier = "write"
	AccessReadWrite AccessQualifier = "readWrite"
)

// Relationship represents a typed edge between two elements. SourceID and
// TargetID are plain references; the model never enforces that they resolve
// to live elements (see the validity package for the legality gate).
type Relationship struct {
	ID            string                    `json:"id"`
	Kind          taxonomy.RelationshipKind `json:"kind"`
	SourceID      string                    `json:"source_id"`
	TargetID      string                    `json:"target_id"`
	Name          string                    `json:"name,omitempty"`
	Documentation string                    `json:"documentation,omitempty"`

	// Access is only meaningful when Kind is Access; Influence (one of
	// ++, +, 0, -, --) only when Kind is Influence.
	Access    AccessQualifier `json:"access,omitempty"`
	Influence string          `json:"influence,omitempty"`
}

// NewRelationship creates a relationship with a generated id.
func NewRelationship(kind taxonomy.RelationshipKind, sourceID, targetID string) *Relationship {
	return &Relationship{
		ID:       newID(),
		Kind:     kind,
		SourceID: sourceID,
		TargetID: targetID,
	}
}
