package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Booking lifecycle event types carried on the booking-events topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// BookingEvent is the wire format for booking lifecycle notifications.
type BookingEvent struct {
	ID         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// NewBookingEvent wraps a payload in an event envelope.
func NewBookingEvent(eventType string, payload map[string]interface{}) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}

// ToJSON serializes the event for Kafka.
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BookingEventFromJSON deserializes a consumed Kafka message.
func BookingEventFromJSON(data []byte) (*BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// PartitionKey routes all events for one booking to one partition so
// consumers see them in lifecycle order.
func (e *BookingEvent) PartitionKey() string {
	if ref, ok := e.Payload["booking_ref"].(string); ok && ref != "" {
		return ref
	}
	return e.ID.String()
}
