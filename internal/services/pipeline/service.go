package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"camsentry/internal/config"
	"camsentry/internal/logging"
	"camsentry/internal/models"
)

// Status reports how far an admitted event travelled.
type Status string

const (
	// StatusCompleted means the snapshot was fetched and classified.
	StatusCompleted Status = "completed"
	// StatusSkippedCooldown means the location was inside its cooldown
	// window and nothing downstream ran.
	StatusSkippedCooldown Status = "skipped_cooldown"
)

// Outcome is the result of processing one motion event.
type Outcome struct {
	Status Status
	Result models.ClassificationResult
}

// Limiter admits at most one event per location per cooldown window.
type Limiter interface {
	Allow(location string, now time.Time) bool
}

// Fetcher retrieves the snapshot behind a motion event.
type Fetcher interface {
	Fetch(ctx context.Context, url string, creds *models.Credentials) ([]byte, error)
}

// Classifier decides whether a snapshot shows a subject of interest.
type Classifier interface {
	Classify(ctx context.Context, image []byte, location string) (models.ClassificationResult, error)
}

// Dispatcher fans a positive classification out to notification channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, location string, result models.ClassificationResult)
}

// Archiver persists detection images beyond the local snapshot file.
type Archiver interface {
	Store(ctx context.Context, image []byte, location, description string, ts time.Time) (string, error)
}

// Tracker records detection bookkeeping in Home Assistant.
type Tracker interface {
	IncrementCounter(ctx context.Context, entityID string) error
	SetInputText(ctx context.Context, entityID, value string) error
}

// Deps are the pipeline's collaborators. Archiver, Tracker and
// Publisher are optional; a nil entry disables that side effect.
type Deps struct {
	Limiter    Limiter
	Fetcher    Fetcher
	Classifier Classifier
	Dispatcher Dispatcher
	Archiver   Archiver
	Tracker    Tracker
	Publisher  models.MessagePublisher
}

// Service runs a motion event through cooldown, fetch, classification
// and the detection side effects, in that order.
type Service struct {
	deps           Deps
	natsSubject    string
	counterEntity  string
	lastSeenEntity string

	received   int64
	skipped    int64
	processed  int64
	detections int64
	failures   int64
}

func NewService(cfg *config.Config, deps Deps) *Service {
	return &Service{
		deps:           deps,
		natsSubject:    cfg.NatsSubject,
		counterEntity:  cfg.CounterEntity,
		lastSeenEntity: cfg.LastSeenEntity,
	}
}

// Stats is a point-in-time snapshot of the pipeline counters.
type Stats struct {
	Received   int64 `json:"received"`
	Skipped    int64 `json:"skipped_cooldown"`
	Processed  int64 `json:"processed"`
	Detections int64 `json:"detections"`
	Failures   int64 `json:"failures"`
}

func (s *Service) Stats() Stats {
	return Stats{
		Received:   atomic.LoadInt64(&s.received),
		Skipped:    atomic.LoadInt64(&s.skipped),
		Processed:  atomic.LoadInt64(&s.processed),
		Detections: atomic.LoadInt64(&s.detections),
		Failures:   atomic.LoadInt64(&s.failures),
	}
}

// Process handles one motion event synchronously. The returned error is
// a fetch or classification failure; cooldown skips are a normal
// Outcome, not an error.
func (s *Service) Process(ctx context.Context, evt models.MotionEvent) (Outcome, error) {
	atomic.AddInt64(&s.received, 1)
	logger := logging.WithEvent(logging.NewServiceLogger("pipeline"), evt.EventID, evt.Location)

	if evt.IgnoreCooldown {
		logger.Info().Msg("Cooldown bypass requested, processing unconditionally")
	} else if !s.deps.Limiter.Allow(evt.Location, evt.ReceivedAt) {
		atomic.AddInt64(&s.skipped, 1)
		return Outcome{Status: StatusSkippedCooldown}, nil
	}

	image, err := s.deps.Fetcher.Fetch(ctx, evt.ImageURL, evt.Credentials)
	if err != nil {
		atomic.AddInt64(&s.failures, 1)
		logger.Error().Err(err).Msg("Snapshot fetch failed")
		return Outcome{}, err
	}

	result, err := s.deps.Classifier.Classify(ctx, image, evt.Location)
	if err != nil {
		atomic.AddInt64(&s.failures, 1)
		logger.Error().Err(err).Msg("Classification failed")
		return Outcome{}, err
	}

	atomic.AddInt64(&s.processed, 1)

	if result.Detected {
		atomic.AddInt64(&s.detections, 1)
		logger.Info().Str("description", result.Description).Msg("🎯 Subject detected")
		s.deps.Dispatcher.Dispatch(ctx, evt.Location, result)
		s.recordDetection(ctx, logger, evt, image, result)
	} else {
		logger.Debug().Msg("No subject of interest")
	}

	return Outcome{Status: StatusCompleted, Result: result}, nil
}

// recordDetection runs the best-effort side effects of a positive
// classification: image archive, Home Assistant bookkeeping and the
// event bus. Failures are logged and never reach the webhook caller.
func (s *Service) recordDetection(ctx context.Context, logger zerolog.Logger, evt models.MotionEvent, image []byte, result models.ClassificationResult) {
	event := models.DetectionEvent{
		EventID:     evt.EventID,
		Location:    evt.Location,
		Description: result.Description,
		Timestamp:   evt.ReceivedAt,
	}

	if s.deps.Archiver != nil {
		object, err := s.deps.Archiver.Store(ctx, image, evt.Location, result.Description, evt.ReceivedAt)
		if err != nil {
			logger.Error().Err(err).Msg("Detection image archive failed")
		} else {
			event.ImageObject = object
		}
	}

	if s.deps.Tracker != nil {
		if s.counterEntity != "" {
			if err := s.deps.Tracker.IncrementCounter(ctx, s.counterEntity); err != nil {
				logger.Error().Err(err).Str("entity", s.counterEntity).Msg("Detection counter update failed")
			}
		}
		if s.lastSeenEntity != "" {
			lastSeen := fmt.Sprintf("%s: %s", evt.Location, result.Description)
			if err := s.deps.Tracker.SetInputText(ctx, s.lastSeenEntity, lastSeen); err != nil {
				logger.Error().Err(err).Str("entity", s.lastSeenEntity).Msg("Last-seen text update failed")
			}
		}
	}

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(s.natsSubject, event); err != nil {
			logger.Error().Err(err).Str("subject", s.natsSubject).Msg("Detection event publish failed")
		}
	}
}
