package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"camsentry/internal/models"
)

// Channel is a single notification target. Enabled is consulted
// immediately before every send so operator toggles take effect without
// a restart.
type Channel interface {
	Name() string
	Enabled(ctx context.Context) bool
	Send(ctx context.Context, msg Message) error
}

// Message is the rendered notification for one detection.
type Message struct {
	Location    string
	Description string
	Text        string
}

// Service fans positive classifications out to the configured channels.
type Service struct {
	channels []Channel
}

func NewService(channels ...Channel) *Service {
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	log.Info().Strs("channels", names).Msg("Notification dispatcher initialized")

	return &Service{channels: channels}
}

// Dispatch sends the detection to every enabled channel. Nothing is
// sent when the result carries no detection. A channel failure is
// logged and affects neither sibling channels nor the webhook response.
func (s *Service) Dispatch(ctx context.Context, location string, result models.ClassificationResult) {
	if !result.Detected {
		return
	}

	msg := Message{
		Location:    location,
		Description: result.Description,
		Text:        fmt.Sprintf("%s: %s", location, result.Description),
	}

	for _, ch := range s.channels {
		if !ch.Enabled(ctx) {
			log.Debug().Str("channel", ch.Name()).Str("location", location).Msg("Notification channel disabled, skipping")
			continue
		}
		if err := ch.Send(ctx, msg); err != nil {
			log.Error().Err(err).Str("channel", ch.Name()).Str("location", location).Msg("Notification send failed")
			continue
		}
		log.Info().Str("channel", ch.Name()).Str("location", location).Msg("📣 Notification sent")
	}
}
