package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"archimap/internal/domain"
	"archimap/internal/repository"
	"archimap/internal/taxonomy"
)

// memRepo is an in-memory snapshot store for tests.
type memRepo struct {
	models map[string]*domain.Model
}

func newMemRepo() *memRepo {
	return &memRepo{models: make(map[string]*domain.Model)}
}

func (r *memRepo) ListSnapshots(ctx context.Context) ([]repository.Snapshot, error) {
	var out []repository.Snapshot
	for _, m := range r.models {
		out = append(out, repository.Snapshot{ID: m.ID, Name: m.Name, Version: m.Version})
	}
	return out, nil
}

func (r *memRepo) GetSnapshot(ctx context.Context, id string) (*domain.Model, error) {
	m, ok := r.models[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (r *memRepo) SaveSnapshot(ctx context.Context, m *domain.Model) error {
	r.models[m.ID] = m
	return nil
}

func (r *memRepo) DeleteSnapshot(ctx context.Context, id string) error {
	if _, ok := r.models[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.models, id)
	return nil
}

func (r *memRepo) Close() error { return nil }

func newTestService(t *testing.T) (*ModelService, chan Event) {
	t.Helper()
	bus := NewEventBus()
	events := make(chan Event, 100)
	bus.Subscribe(events)
	return NewModelService(newMemRepo(), bus, "en"), events
}

func drain(events chan Event) []Event {
	var out []Event
	for {
		select {
		case e := <-events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestCreateElement(t *testing.T) {
	svc, events := newTestService(t)

	t.Run("places element and publishes event", func(t *testing.T) {
		elem, err := svc.CreateElement(taxonomy.BusinessActor, "Customer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.Current().Element(elem.ID) == nil {
			t.Error("expected element in working model")
		}

		published := drain(events)
		if len(published) != 1 || published[0].Type != EventElementCreated {
			t.Errorf("expected element_created event, got %v", published)
		}
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		if _, err := svc.CreateElement("Widget", "x"); !errors.Is(err, taxonomy.ErrUnknownKind) {
			t.Errorf("expected ErrUnknownKind, got %v", err)
		}
		if len(drain(events)) != 0 {
			t.Error("expected no event for a rejected create")
		}
	})
}

func TestCreateRelationship(t *testing.T) {
	svc, events := newTestService(t)
	actor, _ := svc.CreateElement(taxonomy.BusinessActor, "Actor")
	process, _ := svc.CreateElement(taxonomy.BusinessProcess, "Process")
	object, _ := svc.CreateElement(taxonomy.DataObject, "Object")
	drain(events)

	t.Run("accepts a legal relationship", func(t *testing.T) {
		rel, err := svc.CreateRelationship(taxonomy.Assignment, actor.ID, process.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.Current().Relationship(rel.ID) == nil {
			t.Error("expected relationship in working model")
		}
	})

	t.Run("rejects an illegal relationship with suggestions", func(t *testing.T) {
		_, err := svc.CreateRelationship(taxonomy.Assignment, object.ID, actor.ID)
		if !errors.Is(err, ErrValidationRejected) {
			t.Fatalf("expected ErrValidationRejected, got %v", err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		want := []taxonomy.RelationshipKind{
			taxonomy.Realization, taxonomy.Serving, taxonomy.Association, taxonomy.Flow,
		}
		if len(verr.Result.Suggestions) != len(want) {
			t.Fatalf("expected suggestions %v, got %v", want, verr.Result.Suggestions)
		}
		for i := range want {
			if verr.Result.Suggestions[i] != want[i] {
				t.Fatalf("expected suggestions %v, got %v", want, verr.Result.Suggestions)
			}
		}
	})

	t.Run("missing endpoints are not found", func(t *testing.T) {
		_, err := svc.CreateRelationship(taxonomy.Association, "id-ghost", actor.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteCascades(t *testing.T) {
	svc, _ := newTestService(t)
	actor, _ := svc.CreateElement(taxonomy.BusinessActor, "Actor")
	process, _ := svc.CreateElement(taxonomy.BusinessProcess, "Process")
	rel, _ := svc.CreateRelationship(taxonomy.Assignment, actor.ID, process.ID)

	d := svc.CreateDiagram("view")
	src, _ := svc.AddDiagramObject(d.ID, actor.ID, domain.Bounds{Width: 100, Height: 50}, "")
	tgt, _ := svc.AddDiagramObject(d.ID, process.ID, domain.Bounds{X: 200, Width: 100, Height: 50}, "")
	conn, err := svc.AddDiagramConnection(d.ID, rel.ID, src.ID, tgt.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("deleting the relationship prunes connections", func(t *testing.T) {
		if err := svc.DeleteRelationship(rel.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		srcObj := svc.Current().Diagram(d.ID).FindObject(src.ID)
		if len(srcObj.OutgoingConnections) != 0 {
			t.Errorf("expected connection %s to be pruned", conn.ID)
		}
	})

	t.Run("deleting an element prunes its objects", func(t *testing.T) {
		if err := svc.DeleteElement(actor.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.Current().Diagram(d.ID).FindObject(src.ID) != nil {
			t.Error("expected diagram object to be removed")
		}
	})

	t.Run("double delete reports not found", func(t *testing.T) {
		if err := svc.DeleteElement(actor.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDiagramEditing(t *testing.T) {
	svc, _ := newTestService(t)
	actor, _ := svc.CreateElement(taxonomy.BusinessActor, "Actor")
	d := svc.CreateDiagram("view")

	t.Run("nests objects under a parent", func(t *testing.T) {
		parent, err := svc.AddDiagramObject(d.ID, actor.ID, domain.Bounds{Width: 200, Height: 100}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		child, err := svc.AddDiagramObject(d.ID, actor.ID, domain.Bounds{X: 10, Y: 10, Width: 50, Height: 30}, parent.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.Current().Diagram(d.ID).FindObject(child.ID) == nil {
			t.Error("expected nested object to be findable")
		}
	})

	t.Run("unknown diagram reports not found", func(t *testing.T) {
		if _, err := svc.AddDiagramObject("id-ghost", actor.ID, domain.Bounds{}, ""); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestModelFiles(t *testing.T) {
	svc, events := newTestService(t)
	svc.CreateElement(taxonomy.BusinessActor, "Actor")
	drain(events)

	t.Run("hierarchical save and reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.archimate")
		if err := svc.SaveHierarchical(path); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		res, err := svc.OpenHierarchical(path)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		count := 0
		res.Model.WalkElements(func(*domain.Element) { count++ })
		if count != 1 {
			t.Errorf("expected 1 element after reopen, got %d", count)
		}

		published := drain(events)
		if len(published) != 2 {
			t.Fatalf("expected saved+opened events, got %v", published)
		}
		if published[0].Type != EventModelSaved || published[1].Type != EventModelOpened {
			t.Errorf("unexpected event sequence: %v", published)
		}
	})

	t.Run("exchange document round-trip in memory", func(t *testing.T) {
		doc, err := svc.ExportExchange()
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		res, err := svc.OpenExchange(doc)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		count := 0
		res.Model.WalkElements(func(*domain.Element) { count++ })
		if count != 1 {
			t.Errorf("expected 1 element after exchange round-trip, got %d", count)
		}
	})

	t.Run("opening a missing file reports not found", func(t *testing.T) {
		if _, err := svc.OpenHierarchical(filepath.Join(t.TempDir(), "absent")); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestLibrary(t *testing.T) {
	svc, _ := newTestService(t)
	svc.CreateElement(taxonomy.BusinessActor, "Actor")
	ctx := context.Background()

	t.Run("save, list, load, delete", func(t *testing.T) {
		if err := svc.SaveToLibrary(ctx); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		snapshots, err := svc.ListLibrary(ctx)
		if err != nil || len(snapshots) != 1 {
			t.Fatalf("expected 1 snapshot, got %v (%v)", snapshots, err)
		}

		id := snapshots[0].ID
		svc.NewModel("fresh")
		if _, err := svc.LoadFromLibrary(ctx, id); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if svc.Current().ID != id {
			t.Error("expected loaded snapshot to become the working model")
		}

		if err := svc.DeleteFromLibrary(ctx, id); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := svc.DeleteFromLibrary(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAuditLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	audit, err := OpenAudit(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if err := audit.Record(Event{Type: EventElementCreated, Payload: map[string]string{"element_id": "id-1"}}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := audit.Record(Event{Type: EventElementDeleted}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := audit.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("expected 2 JSON lines, got %d", lines)
	}
}

func TestEventBus(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		bus := NewEventBus()
		a := make(chan Event, 1)
		b := make(chan Event, 1)
		bus.Subscribe(a)
		bus.Subscribe(b)

		bus.Publish(Event{Type: EventModelSaved})
		if len(a) != 1 || len(b) != 1 {
			t.Error("expected both subscribers to receive the event")
		}
	})

	t.Run("skips full subscribers instead of blocking", func(t *testing.T) {
		bus := NewEventBus()
		full := make(chan Event) // unbuffered, nobody reading
		bus.Subscribe(full)
		bus.Publish(Event{Type: EventModelSaved}) // must not deadlock
	})
}
