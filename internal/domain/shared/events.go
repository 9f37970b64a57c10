package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the domain.
const (
	// Check-in events
	EventCheckinRecorded EventType = "checkin.recorded"

	// Alert events
	EventAlertDispatched     EventType = "alert.dispatched"
	EventAlertDispatchFailed EventType = "alert.dispatch_failed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// CheckinRecordedEvent is emitted after a check-in with a tracked emotion
// has been committed. It is the handoff between the ingestor and the
// pattern detector: delivery is best-effort and never blocks the write.
type CheckinRecordedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Emotion   string `json:"emotion"`
}

// Payload implements Event interface.
func (e CheckinRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"emotion":    e.Emotion,
	}
}

// NewCheckinRecordedEvent creates a CheckinRecordedEvent for a student.
func NewCheckinRecordedEvent(studentID, emotion string) CheckinRecordedEvent {
	return CheckinRecordedEvent{
		BaseEvent: NewBaseEvent(EventCheckinRecorded, studentID),
		StudentID: studentID,
		Emotion:   emotion,
	}
}

// EventHandler processes a single domain event.
type EventHandler func(event Event) error

// EventBus decouples event producers from consumers.
type EventBus interface {
	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// Publish sends an event to all subscribed handlers.
	Publish(event Event) error

	// Close gracefully shuts down the bus.
	Close() error
}
