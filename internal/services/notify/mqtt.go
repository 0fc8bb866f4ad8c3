package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"camsentry/internal/config"
)

// MQTTChannel publishes detections to an MQTT topic for home-automation
// consumers.
type MQTTChannel struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewMQTTChannel connects to the configured broker. A connect failure
// is returned so the caller can run without the channel.
func NewMQTTChannel(cfg *config.Config) (*MQTTChannel, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(cfg.MQTTClientID)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.MQTTTimeout)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.MQTTBroker, token.Error())
	}

	log.Info().Str("broker", cfg.MQTTBroker).Str("topic", cfg.MQTTTopic).Msg("MQTT channel connected")

	return &MQTTChannel{
		client:  client,
		topic:   cfg.MQTTTopic,
		timeout: cfg.MQTTTimeout,
	}, nil
}

func (c *MQTTChannel) Name() string { return "mqtt" }

func (c *MQTTChannel) Enabled(ctx context.Context) bool {
	return c.client.IsConnected()
}

func (c *MQTTChannel) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(map[string]string{
		"location":    msg.Location,
		"description": msg.Description,
		"message":     msg.Text,
	})
	if err != nil {
		return err
	}

	token := c.client.Publish(c.topic, 1, false, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("publish to %s timed out", c.topic)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (c *MQTTChannel) Close() {
	c.client.Disconnect(250)
}
