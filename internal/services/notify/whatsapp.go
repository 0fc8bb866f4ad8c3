package notify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"camsentry/internal/config"
	"camsentry/internal/services/homeassistant"
)

// WhatsAppChannel sends detections through the CallMeBot gateway.
type WhatsAppChannel struct {
	client       *resty.Client
	apiURL       string
	phone        string
	apiKey       string
	enabled      bool
	toggleEntity string
	ha           *homeassistant.Service
}

func NewWhatsAppChannel(cfg *config.Config, ha *homeassistant.Service) *WhatsAppChannel {
	return &WhatsAppChannel{
		client:       resty.New().SetTimeout(cfg.NotifyTimeout),
		apiURL:       cfg.CallMeBotURL,
		phone:        cfg.CallMeBotPhone,
		apiKey:       cfg.CallMeBotAPIKey,
		enabled:      cfg.WhatsAppEnabled,
		toggleEntity: cfg.WhatsAppToggleEntity,
		ha:           ha,
	}
}

func (c *WhatsAppChannel) Name() string { return "whatsapp" }

func (c *WhatsAppChannel) Enabled(ctx context.Context) bool {
	if !c.enabled || c.phone == "" || c.apiKey == "" {
		return false
	}
	if c.toggleEntity == "" {
		return true
	}
	return c.ha.EntityOn(ctx, c.toggleEntity)
}

func (c *WhatsAppChannel) Send(ctx context.Context, msg Message) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("phone", c.phone).
		SetQueryParam("text", msg.Text).
		SetQueryParam("apikey", c.apiKey).
		Get(c.apiURL)
	if err != nil {
		return fmt.Errorf("callmebot request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("callmebot returned %s", resp.Status())
	}
	return nil
}
