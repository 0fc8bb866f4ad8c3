package notify

import (
	"context"
	"errors"
	"testing"

	"camsentry/internal/models"
)

type stubChannel struct {
	name    string
	enabled bool
	err     error
	sent    []Message
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Enabled(context.Context) bool { return s.enabled }

func (s *stubChannel) Send(_ context.Context, m Message) error {
	s.sent = append(s.sent, m)
	return s.err
}

func TestDispatchNoDetection(t *testing.T) {
	ch := &stubChannel{name: "voice", enabled: true}
	svc := NewService(ch)

	svc.Dispatch(context.Background(), "driveway", models.ClassificationResult{Detected: false})

	if len(ch.sent) != 0 {
		t.Errorf("channel received %d messages for a negative result, want 0", len(ch.sent))
	}
}

func TestDispatchMessageText(t *testing.T) {
	ch := &stubChannel{name: "voice", enabled: true}
	svc := NewService(ch)

	svc.Dispatch(context.Background(), "driveway", models.ClassificationResult{
		Detected:    true,
		Description: "a person walking a dog",
	})

	if len(ch.sent) != 1 {
		t.Fatalf("channel received %d messages, want 1", len(ch.sent))
	}
	if got, want := ch.sent[0].Text, "driveway: a person walking a dog"; got != want {
		t.Errorf("message text = %q, want %q", got, want)
	}
}

func TestDispatchSkipsDisabledChannel(t *testing.T) {
	off := &stubChannel{name: "whatsapp", enabled: false}
	on := &stubChannel{name: "voice", enabled: true}
	svc := NewService(off, on)

	svc.Dispatch(context.Background(), "driveway", models.ClassificationResult{Detected: true, Description: "a person"})

	if len(off.sent) != 0 {
		t.Error("disabled channel received a message")
	}
	if len(on.sent) != 1 {
		t.Error("enabled channel did not receive a message")
	}
}

func TestDispatchFailureDoesNotStopSiblings(t *testing.T) {
	failing := &stubChannel{name: "voice", enabled: true, err: errors.New("satellite offline")}
	healthy := &stubChannel{name: "whatsapp", enabled: true}
	svc := NewService(failing, healthy)

	svc.Dispatch(context.Background(), "backyard", models.ClassificationResult{Detected: true, Description: "a raccoon"})

	if len(failing.sent) != 1 {
		t.Error("failing channel was not attempted")
	}
	if len(healthy.sent) != 1 {
		t.Error("healthy channel was skipped after a sibling failure")
	}
}

func TestDispatchNoChannels(t *testing.T) {
	svc := NewService()

	// Must be a no-op, not a panic.
	svc.Dispatch(context.Background(), "driveway", models.ClassificationResult{Detected: true, Description: "a person"})
}
