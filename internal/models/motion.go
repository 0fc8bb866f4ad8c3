package models

import (
	"time"
)

// MotionRequest is the webhook body an NVR posts when a camera triggers
// motion detection.
type MotionRequest struct {
	JpegURL        string `json:"jpegUrl" binding:"required" example:"http://nvr.local:81/image/driveway"`
	Location       string `json:"location" binding:"required" example:"driveway"`
	Username       string `json:"username,omitempty" example:"viewer"`
	Password       string `json:"password,omitempty"`
	IgnoreCooldown bool   `json:"ignoreCooldown,omitempty"`
}

// Credentials carries optional basic auth for the snapshot URL. It is
// kept out of logs and responses.
type Credentials struct {
	Username string
	Password string
}

// MotionEvent is the immutable unit of work derived from a validated
// webhook. One event is processed per request, start to finish.
type MotionEvent struct {
	EventID        string
	Location       string
	ImageURL       string
	Credentials    *Credentials
	IgnoreCooldown bool
	ReceivedAt     time.Time
}

// Event converts the request into a MotionEvent stamped with the given
// id and arrival time.
func (r MotionRequest) Event(id string, now time.Time) MotionEvent {
	evt := MotionEvent{
		EventID:        id,
		Location:       r.Location,
		ImageURL:       r.JpegURL,
		IgnoreCooldown: r.IgnoreCooldown,
		ReceivedAt:     now,
	}
	if r.Username != "" || r.Password != "" {
		evt.Credentials = &Credentials{
			Username: r.Username,
			Password: r.Password,
		}
	}
	return evt
}

// MotionResponse is returned to the NVR for every accepted webhook.
type MotionResponse struct {
	Status      string    `json:"status" example:"completed"`
	Location    string    `json:"location" example:"driveway"`
	Detected    bool      `json:"detected" example:"true"`
	Description string    `json:"description,omitempty" example:"a person walking up the driveway"`
	Timestamp   time.Time `json:"timestamp"`
}
