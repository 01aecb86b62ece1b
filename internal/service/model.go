package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"archimap/internal/codec"
	"archimap/internal/domain"
	"archimap/internal/repository"
	"archimap/internal/taxonomy"
	"archimap/internal/validity"
)

// ErrValidationRejected is returned when a relationship construction attempt
// fails the legality rules.
var ErrValidationRejected = errors.New("relationship rejected")

// ValidationError carries the full validation outcome, including the legal
// alternatives, so callers can self-correct without a second round trip.
type ValidationError struct {
	Result validity.Result
}

func (e *ValidationError) Error() string {
	return e.Result.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationRejected
}

// ModelService owns the working model and provides the operations the
// dispatcher exposes. The model itself is a plain value; the service adds
// the mutual exclusion the domain deliberately leaves out.
type ModelService struct {
	mu       sync.Mutex
	model    *domain.Model
	repo     repository.Repository
	eventBus *EventBus

	hier     *codec.Hierarchical
	exchange *codec.Exchange
}

// NewModelService creates a model service with an empty default model.
func NewModelService(repo repository.Repository, eventBus *EventBus, lang string) *ModelService {
	return &ModelService{
		model:    domain.NewDefaultModel("New Model"),
		repo:     repo,
		eventBus: eventBus,
		hier:     codec.NewHierarchical(),
		exchange: codec.NewExchange(lang),
	}
}

// Current returns the working model. Callers must treat it as read-only;
// mutation goes through the service methods.
func (s *ModelService) Current() *domain.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// NewModel replaces the working model with a fresh default skeleton.
func (s *ModelService) NewModel(name string) *domain.Model {
	s.mu.Lock()
	s.model = domain.NewDefaultModel(name)
	m := s.model
	s.mu.Unlock()

	s.eventBus.Publish(Event{
		Type:    EventModelOpened,
		Payload: map[string]string{"model_id": m.ID, "name": m.Name},
	})
	return m
}

// OpenHierarchical loads a hierarchical model file as the working model and
// reports any entries the parser skipped.
func (s *ModelService) OpenHierarchical(path string) (*codec.Result, error) {
	res, err := codec.ParseFile(s.hier, path)
	if err != nil {
		return nil, err
	}
	s.replace(res.Model, path)
	return res, nil
}

// SaveHierarchical writes the working model to a hierarchical file.
func (s *ModelService) SaveHierarchical(path string) error {
	s.mu.Lock()
	m := s.model
	s.mu.Unlock()

	if err := codec.ExportFile(s.hier, m, path); err != nil {
		return err
	}
	s.eventBus.Publish(Event{
		Type:    EventModelSaved,
		Payload: map[string]string{"model_id": m.ID, "path": path, "format": s.hier.Format()},
	})
	return nil
}

// OpenExchange loads an exchange document held in memory as the working
// model.
func (s *ModelService) OpenExchange(xmlText string) (*codec.Result, error) {
	res, err := s.exchange.ParseString(xmlText)
	if err != nil {
		return nil, err
	}
	s.replace(res.Model, "")
	return res, nil
}

// OpenExchangeFile loads an exchange model file as the working model.
func (s *ModelService) OpenExchangeFile(path string) (*codec.Result, error) {
	res, err := codec.ParseFile(s.exchange, path)
	if err != nil {
		return nil, err
	}
	s.replace(res.Model, path)
	return res, nil
}

// ExportExchange renders the working model as an exchange document string.
func (s *ModelService) ExportExchange() (string, error) {
	s.mu.Lock()
	m := s.model
	s.mu.Unlock()
	return s.exchange.ExportString(m)
}

// SaveExchangeFile writes the working model to an exchange file.
func (s *ModelService) SaveExchangeFile(path string) error {
	s.mu.Lock()
	m := s.model
	s.mu.Unlock()

	if err := codec.ExportFile(s.exchange, m, path); err != nil {
		return err
	}
	s.eventBus.Publish(Event{
		Type:    EventModelSaved,
		Payload: map[string]string{"model_id": m.ID, "path": path, "format": s.exchange.Format()},
	})
	return nil
}

func (s *ModelService) replace(m *domain.Model, path string) {
	s.mu.Lock()
	s.model = m
	s.mu.Unlock()

	payload := map[string]string{"model_id": m.ID, "name": m.Name}
	if path != "" {
		payload["path"] = path
	}
	s.eventBus.Publish(Event{Type: EventModelOpened, Payload: payload})
}

// CreateElement adds a new element of the given kind to the working model,
// placed into its layer's folder.
func (s *ModelService) CreateElement(kind taxonomy.ElementKind, name string) (*domain.Element, error) {
	if _, err := taxonomy.LayerOf(kind); err != nil {
		return nil, err
	}

	elem := domain.NewElement(kind, name)
	s.mu.Lock()
	s.model.AddElement(elem)
	s.mu.Unlock()

	s.eventBus.Publish(Event{
		Type:    EventElementCreated,
		Payload: map[string]string{"element_id": elem.ID, "kind": string(kind)},
	})
	return elem, nil
}

// UpdateElement applies a partial update to an element.
func (s *ModelService) UpdateElement(id string, update domain.ElementUpdate) error {
	s.mu.Lock()
	err := s.model.UpdateElement(id, update)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: element %s", domain.ErrNotFound, id)
	}

	s.eventBus.Publish(Event{
		Type:    EventElementUpdated,
		Payload: map[string]string{"element_id": id},
	})
	return nil
}

// DeleteElement removes an element and everything referencing it.
func (s *ModelService) DeleteElement(id string) error {
	s.mu.Lock()
	exists := s.model.Element(id) != nil
	if exists {
		s.model.RemoveElement(id)
	}
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: element %s", domain.ErrNotFound, id)
	}

	s.eventBus.Publish(Event{
		Type:    EventElementDeleted,
		Payload: map[string]string{"element_id": id},
	})
	return nil
}

// CreateRelationship adds a relationship after checking its legality. An
// illegal combination returns a ValidationError listing the legal
// alternatives.
func (s *ModelService) CreateRelationship(kind taxonomy.RelationshipKind, sourceID, targetID string) (*domain.Relationship, error) {
	s.mu.Lock()
	source := s.model.Element(sourceID)
	target := s.model.Element(targetID)
	s.mu.Unlock()

	if source == nil {
		return nil, fmt.Errorf("%w: source element %s", domain.ErrNotFound, sourceID)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: target element %s", domain.ErrNotFound, targetID)
	}

	result := validity.Validate(source.Kind, target.Kind, kind)
	if !result.OK {
		return nil, &ValidationError{Result: result}
	}

	rel := domain.NewRelationship(kind, sourceID, targetID)
	s.mu.Lock()
	s.model.AddRelationship(rel)
	s.mu.Unlock()

	s.eventBus.Publish(Event{
		Type:    EventRelationshipCreated,
		Payload: map[string]string{"relationship_id": rel.ID, "kind": string(kind)},
	})
	return rel, nil
}

// DeleteRelationship removes a relationship and its diagram connections.
func (s *ModelService) DeleteRelationship(id string) error {
	s.mu.Lock()
	exists := s.model.Relationship(id) != nil
	if exists {
		s.model.RemoveRelationship(id)
	}
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: relationship %s", domain.ErrNotFound, id)
	}

	s.eventBus.Publish(Event{
		Type:    EventRelationshipDeleted,
		Payload: map[string]string{"relationship_id": id},
	})
	return nil
}

// CreateDiagram adds an empty diagram to the working model.
func (s *ModelService) CreateDiagram(name string) *domain.Diagram {
	d := domain.NewDiagram(name)
	s.mu.Lock()
	s.model.AddDiagram(d)
	s.mu.Unlock()

	s.eventBus.Publish(Event{
		Type:    EventDiagramCreated,
		Payload: map[string]string{"diagram_id": d.ID, "name": name},
	})
	return d
}

// AddDiagramObject places an element on a diagram at caller-supplied bounds.
// A non-empty parentID nests the object under an existing diagram object.
func (s *ModelService) AddDiagramObject(diagramID, elementID string, bounds domain.Bounds, parentID string) (*domain.DiagramObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.model.Diagram(diagramID)
	if d == nil {
		return nil, fmt.Errorf("%w: diagram %s", domain.ErrNotFound, diagramID)
	}

	obj := domain.NewDiagramObject(elementID, bounds)
	if parentID == "" {
		d.AddObject(obj)
	} else {
		parent := d.FindObject(parentID)
		if parent == nil {
			return nil, fmt.Errorf("%w: diagram object %s", domain.ErrNotFound, parentID)
		}
		parent.Children = append(parent.Children, obj)
	}

	s.eventBus.Publish(Event{
		Type:    EventDiagramUpdated,
		Payload: map[string]string{"diagram_id": diagramID, "object_id": obj.ID},
	})
	return obj, nil
}

// AddDiagramConnection draws a relationship between two diagram objects.
// The connection is owned by the source object; the target records the
// incoming connection id.
func (s *ModelService) AddDiagramConnection(diagramID, relationshipID, sourceObjectID, targetObjectID string, bendpoints []domain.Bendpoint) (*domain.DiagramConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.model.Diagram(diagramID)
	if d == nil {
		return nil, fmt.Errorf("%w: diagram %s", domain.ErrNotFound, diagramID)
	}
	src := d.FindObject(sourceObjectID)
	if src == nil {
		return nil, fmt.Errorf("%w: diagram object %s", domain.ErrNotFound, sourceObjectID)
	}
	tgt := d.FindObject(targetObjectID)
	if tgt == nil {
		return nil, fmt.Errorf("%w: diagram object %s", domain.ErrNotFound, targetObjectID)
	}

	conn := domain.NewDiagramConnection(relationshipID, sourceObjectID, targetObjectID)
	conn.Bendpoints = bendpoints
	src.OutgoingConnections = append(src.OutgoingConnections, conn)
	tgt.IncomingConnectionIDs = append(tgt.IncomingConnectionIDs, conn.ID)

	s.eventBus.Publish(Event{
		Type:    EventDiagramUpdated,
		Payload: map[string]string{"diagram_id": diagramID, "connection_id": conn.ID},
	})
	return &conn, nil
}

// SaveToLibrary stores the working model as a snapshot in the library.
func (s *ModelService) SaveToLibrary(ctx context.Context) error {
	s.mu.Lock()
	m := s.model
	s.mu.Unlock()

	if err := s.repo.SaveSnapshot(ctx, m); err != nil {
		return err
	}
	s.eventBus.Publish(Event{
		Type:    EventSnapshotSaved,
		Payload: map[string]string{"model_id": m.ID},
	})
	return nil
}

// LoadFromLibrary replaces the working model with a stored snapshot.
func (s *ModelService) LoadFromLibrary(ctx context.Context, id string) (*domain.Model, error) {
	m, err := s.repo.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	s.replace(m, "")
	return m, nil
}

// ListLibrary returns the stored snapshot catalog.
func (s *ModelService) ListLibrary(ctx context.Context) ([]repository.Snapshot, error) {
	return s.repo.ListSnapshots(ctx)
}

// DeleteFromLibrary removes a stored snapshot.
func (s *ModelService) DeleteFromLibrary(ctx context.Context, id string) error {
	if err := s.repo.DeleteSnapshot(ctx, id); err != nil {
		return err
	}
	s.eventBus.Publish(Event{
		Type:    EventSnapshotDeleted,
		Payload: map[string]string{"model_id": id},
	})
	return nil
}
