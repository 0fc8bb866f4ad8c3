package homeassistant

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"camsentry/internal/config"
)

// input_text entities reject values longer than this
const maxInputTextLen = 255

// Service is a small Home Assistant REST client covering the calls the
// pipeline needs: satellite announcements, entity state reads, counter
// bumps and input_text updates.
type Service struct {
	client          *resty.Client
	announceTimeout time.Duration
	stateTimeout    time.Duration
}

func NewService(cfg *config.Config) *Service {
	client := resty.New().
		SetBaseURL(cfg.HAURL).
		SetAuthToken(cfg.HAToken).
		SetHeader("Content-Type", "application/json")

	return &Service{
		client:          client,
		announceTimeout: cfg.AnnounceTimeout,
		stateTimeout:    cfg.StateTimeout,
	}
}

// Announce plays message on the given assist satellite entities.
func (s *Service) Announce(ctx context.Context, entities []string, message string) error {
	tctx, cancel := context.WithTimeout(ctx, s.announceTimeout)
	defer cancel()

	resp, err := s.client.R().
		SetContext(tctx).
		SetBody(map[string]interface{}{
			"entity_id": entities,
			"message":   message,
		}).
		Post("/api/services/assist_satellite/announce")
	if err != nil {
		return fmt.Errorf("announce: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("announce: home assistant returned %s", resp.Status())
	}
	return nil
}

// EntityOn reports whether entityID is in the "on" state. Lookup
// failures count as off, so a broken toggle never opens a channel.
func (s *Service) EntityOn(ctx context.Context, entityID string) bool {
	tctx, cancel := context.WithTimeout(ctx, s.stateTimeout)
	defer cancel()

	var state struct {
		State string `json:"state"`
	}
	resp, err := s.client.R().
		SetContext(tctx).
		SetResult(&state).
		Get("/api/states/" + entityID)
	if err != nil {
		log.Warn().Err(err).Str("entity", entityID).Msg("Entity state check failed")
		return false
	}
	if resp.IsError() {
		log.Warn().Str("entity", entityID).Str("status", resp.Status()).Msg("Entity state check failed")
		return false
	}

	return state.State == "on"
}

// IncrementCounter bumps a counter helper entity.
func (s *Service) IncrementCounter(ctx context.Context, entityID string) error {
	return s.callService(ctx, "/api/services/counter/increment", entityID, nil)
}

// SetInputText writes value into an input_text helper entity,
// truncating to the entity's length limit.
func (s *Service) SetInputText(ctx context.Context, entityID, value string) error {
	if len(value) > maxInputTextLen {
		value = value[:maxInputTextLen]
	}
	return s.callService(ctx, "/api/services/input_text/set_value", entityID, map[string]interface{}{
		"value": value,
	})
}

func (s *Service) callService(ctx context.Context, path, entityID string, extra map[string]interface{}) error {
	tctx, cancel := context.WithTimeout(ctx, s.stateTimeout)
	defer cancel()

	body := map[string]interface{}{"entity_id": entityID}
	for k, v := range extra {
		body[k] = v
	}

	resp, err := s.client.R().
		SetContext(tctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s: home assistant returned %s", path, resp.Status())
	}
	return nil
}
