package notify

import (
	"context"

	"camsentry/internal/config"
	"camsentry/internal/services/homeassistant"
)

// VoiceChannel announces detections on Home Assistant assist
// satellites.
type VoiceChannel struct {
	ha           *homeassistant.Service
	entities     []string
	enabled      bool
	toggleEntity string
}

func NewVoiceChannel(cfg *config.Config, ha *homeassistant.Service) *VoiceChannel {
	return &VoiceChannel{
		ha:           ha,
		entities:     cfg.AnnounceEntities,
		enabled:      cfg.VoiceEnabled,
		toggleEntity: cfg.VoiceToggleEntity,
	}
}

func (c *VoiceChannel) Name() string { return "voice" }

// Enabled honors the static flag first, then the optional Home
// Assistant toggle entity, queried fresh on every call.
func (c *VoiceChannel) Enabled(ctx context.Context) bool {
	if !c.enabled || len(c.entities) == 0 {
		return false
	}
	if c.toggleEntity == "" {
		return true
	}
	return c.ha.EntityOn(ctx, c.toggleEntity)
}

func (c *VoiceChannel) Send(ctx context.Context, msg Message) error {
	return c.ha.Announce(ctx, c.entities, msg.Text)
}
