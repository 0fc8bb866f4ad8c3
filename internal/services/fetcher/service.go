package fetcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"camsentry/internal/models"
)

// Error describes a failed snapshot retrieval. The webhook caller is
// answered with a gateway error when one of these comes back.
type Error struct {
	URL    string
	Status int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Service retrieves camera snapshots over HTTP. No retries: the NVR
// fires again on the next motion trigger.
type Service struct {
	client       *resty.Client
	snapshotPath string
}

func NewService(timeout time.Duration, snapshotPath string) *Service {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "image/jpeg")

	return &Service{
		client:       client,
		snapshotPath: snapshotPath,
	}
}

// Fetch retrieves the JPEG at url, authenticating with creds when
// present. The returned bytes are the verbatim response body. The most
// recent snapshot is also written to the configured diagnostic path.
func (s *Service) Fetch(ctx context.Context, url string, creds *models.Credentials) ([]byte, error) {
	req := s.client.R().SetContext(ctx)
	if creds != nil {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, &Error{URL: url, Reason: "request failed", Err: err}
	}
	if resp.IsError() {
		return nil, &Error{URL: url, Status: resp.StatusCode(), Reason: fmt.Sprintf("camera returned %s", resp.Status())}
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, &Error{URL: url, Status: resp.StatusCode(), Reason: "empty response body"}
	}
	if !isJPEGData(data) {
		return nil, &Error{URL: url, Status: resp.StatusCode(), Reason: "response body is not a JPEG image"}
	}

	s.saveSnapshot(data)

	log.Debug().Str("url", url).Int("bytes", len(data)).Msg("Snapshot fetched")
	return data, nil
}

// isJPEGData checks if the byte slice contains JPEG data by checking magic bytes
func isJPEGData(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	// JPEG magic bytes: FF D8
	return data[0] == 0xFF && data[1] == 0xD8
}

// saveSnapshot overwrites the diagnostic snapshot file. Failures are
// logged and never fail the fetch.
func (s *Service) saveSnapshot(data []byte) {
	if s.snapshotPath == "" {
		return
	}
	if err := os.WriteFile(s.snapshotPath, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", s.snapshotPath).Msg("Failed to write snapshot file")
	}
}
