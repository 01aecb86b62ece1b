package repository

import (
	"context"
	"time"

	"archimap/internal/domain"
)

// Snapshot is a stored model together with its catalog metadata.
type Snapshot struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Version  string    `json:"version"`
	SavedAt  time.Time `json:"saved_at"`
	Elements int       `json:"elements"`
	Diagrams int       `json:"diagrams"`
}

// Repository defines the interface for the model snapshot store.
type Repository interface {
	// Read operations
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*domain.Model, error)

	// Write operations
	SaveSnapshot(ctx context.Context, m *domain.Model) error
	DeleteSnapshot(ctx context.Context, id string) error

	// Close releases resources
	Close() error
}
