package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"camsentry/internal/config"
)

// descriptions get trimmed to this before they become part of an object name
const maxNameLen = 50

// Service uploads detection images to a Google Cloud Storage bucket so
// they survive the snapshot file being overwritten by the next event.
type Service struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration
}

func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}

	log.Info().Str("bucket", cfg.GCSBucket).Msg("GCS archive initialized")

	return &Service{
		client:  client,
		bucket:  cfg.GCSBucket,
		timeout: cfg.ArchiveTimeout,
	}, nil
}

// Store uploads image and returns the object name it was written under.
func (s *Service) Store(ctx context.Context, image []byte, location, description string, ts time.Time) (string, error) {
	name := objectName(location, description, ts)

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(tctx)
	w.ContentType = "image/jpeg"
	if _, err := w.Write(image); err != nil {
		w.Close()
		return "", fmt.Errorf("gcs write: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close: %w", err)
	}

	log.Info().
		Str("object", name).
		Str("url", fmt.Sprintf("https://storage.cloud.google.com/%s/%s", s.bucket, name)).
		Msg("Archived detection image")

	return name, nil
}

func (s *Service) Close() error {
	return s.client.Close()
}

// objectName builds timestamp_location_description.jpg, with the free-form
// description reduced to something filename-safe.
func objectName(location, description string, ts time.Time) string {
	return fmt.Sprintf("%s_%s_%s.jpg", ts.Format("20060102_150405"), location, sanitize(description))
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")

	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > maxNameLen {
		out = out[:maxNameLen]
	}
	return strings.ToLower(out)
}
