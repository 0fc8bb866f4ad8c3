package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"camsentry/internal/config"
	"camsentry/internal/services/archive"
	"camsentry/internal/services/classifier"
	"camsentry/internal/services/fetcher"
	"camsentry/internal/services/homeassistant"
	"camsentry/internal/services/messaging"
	"camsentry/internal/services/notify"
	"camsentry/internal/services/pipeline"
	"camsentry/internal/services/ratelimit"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config     *config.Config
	Limiter    *ratelimit.Service
	Fetcher    *fetcher.Service
	Classifier *classifier.Service
	Home       *homeassistant.Service
	Dispatcher *notify.Service
	Events     *messaging.Service
	Archive    *archive.Service
	Pipeline   *pipeline.Service

	mqttChannel *notify.MQTTChannel
}

// NewServiceContainer creates a new service container. The classifier
// and, when enabled, NATS are required to start; the MQTT channel and
// the GCS archive degrade to disabled when their backends are
// unreachable.
func NewServiceContainer(ctx context.Context, cfg *config.Config) (*ServiceContainer, error) {
	sc := &ServiceContainer{Config: cfg}

	sc.Limiter = ratelimit.NewService(cfg.CooldownWindow)
	sc.Fetcher = fetcher.NewService(cfg.FetchTimeout, cfg.SnapshotPath)
	sc.Home = homeassistant.NewService(cfg)

	classifierSvc, err := classifier.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sc.Classifier = classifierSvc

	channels := []notify.Channel{
		notify.NewVoiceChannel(cfg, sc.Home),
		notify.NewWhatsAppChannel(cfg, sc.Home),
	}
	if cfg.MQTTBroker != "" {
		mqttChannel, err := notify.NewMQTTChannel(cfg)
		if err != nil {
			log.Error().Err(err).Str("broker", cfg.MQTTBroker).Msg("MQTT channel unavailable, continuing without it")
		} else {
			sc.mqttChannel = mqttChannel
			channels = append(channels, mqttChannel)
		}
	}
	sc.Dispatcher = notify.NewService(channels...)

	if cfg.NatsEnabled {
		events, err := messaging.NewService(cfg)
		if err != nil {
			return nil, err
		}
		sc.Events = events
	}

	if cfg.GCSBucket != "" {
		archiveSvc, err := archive.NewService(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Str("bucket", cfg.GCSBucket).Msg("GCS archive unavailable, continuing without it")
		} else {
			sc.Archive = archiveSvc
		}
	}

	deps := pipeline.Deps{
		Limiter:    sc.Limiter,
		Fetcher:    sc.Fetcher,
		Classifier: sc.Classifier,
		Dispatcher: sc.Dispatcher,
		Tracker:    sc.Home,
	}
	// Assign the optional collaborators only when present; a typed nil
	// stored in the interface would pass the pipeline's nil checks.
	if sc.Archive != nil {
		deps.Archiver = sc.Archive
	}
	if sc.Events != nil {
		deps.Publisher = sc.Events
	}
	sc.Pipeline = pipeline.NewService(cfg, deps)

	return sc, nil
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.mqttChannel != nil {
		sc.mqttChannel.Close()
	}

	if sc.Events != nil {
		if err := sc.Events.Shutdown(ctx); err != nil {
			return err
		}
	}

	if sc.Archive != nil {
		if err := sc.Archive.Close(); err != nil {
			log.Warn().Err(err).Msg("GCS archive close failed")
		}
	}

	return nil
}
