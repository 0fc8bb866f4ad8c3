package models

import (
	"time"
)

// DetectionEvent is published to the message bus after a positive
// classification so downstream systems can react without polling.
type DetectionEvent struct {
	EventID     string    `json:"event_id"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageObject string    `json:"image_object,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// MessagePublisher publishes detection events to the message bus.
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
