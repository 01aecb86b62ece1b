package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"archimap/internal/domain"
	"archimap/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS models (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		elements INTEGER NOT NULL DEFAULT 0,
		diagrams INTEGER NOT NULL DEFAULT 0,
		data JSON NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_models_name ON models(name);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// ListSnapshots returns catalog metadata for every stored model
func (r *Repository) ListSnapshots(ctx context.Context) ([]repository.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, version, elements, diagrams, saved_at
		FROM models
		ORDER BY saved_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var snapshots []repository.Snapshot
	for rows.Next() {
		var s repository.Snapshot
		var savedAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &s.Elements, &s.Diagrams, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", savedAt); err == nil {
			s.SavedAt = t
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// GetSnapshot loads a stored model by id. Returns domain.ErrNotFound when
// no snapshot has the given id.
func (r *Repository) GetSnapshot(ctx context.Context, id string) (*domain.Model, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM models WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: model %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model %s: %w", id, err)
	}

	var m domain.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model %s: %w", id, err)
	}
	return &m, nil
}

// SaveSnapshot stores or replaces a model snapshot
func (r *Repository) SaveSnapshot(ctx context.Context, m *domain.Model) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal model %s: %w", m.ID, err)
	}

	elements := 0
	m.WalkElements(func(*domain.Element) { elements++ })

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO models (id, name, version, elements, diagrams, data, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			version = excluded.version,
			elements = excluded.elements,
			diagrams = excluded.diagrams,
			data = excluded.data,
			saved_at = CURRENT_TIMESTAMP
	`, m.ID, m.Name, m.Version, elements, len(m.Diagrams), data)
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", m.ID, err)
	}
	return nil
}

// DeleteSnapshot removes a stored model. Returns domain.ErrNotFound when no
// snapshot has the given id.
func (r *Repository) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete model %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: model %s", domain.ErrNotFound, id)
	}
	return nil
}
