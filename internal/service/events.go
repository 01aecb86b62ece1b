package service

// EventType defines the type of event
type EventType string

const (
	EventModelOpened         EventType = "model_opened"
	EventModelSaved          EventType = "model_saved"
	EventElementCreated      EventType = "element_created"
	EventElementUpdated      EventType = "element_updated"
	EventElementDeleted      EventType = "element_deleted"
	EventRelationshipCreated EventType = "relationship_created"
	EventRelationshipDeleted EventType = "relationship_deleted"
	EventDiagramCreated      EventType = "diagram_created"
	EventDiagramUpdated      EventType = "diagram_updated"
	EventSnapshotSaved       EventType = "snapshot_saved"
	EventSnapshotDeleted     EventType = "snapshot_deleted"
)

// Event represents an operation that occurred on the working model
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
