package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Service tracks the last admitted motion event per camera location and
// enforces a minimum window between processed events. State lives for
// the process lifetime; the map is bounded by the number of configured
// cameras so entries are never expired.
type Service struct {
	mu       sync.Mutex
	window   time.Duration
	lastSeen map[string]time.Time
}

func NewService(window time.Duration) *Service {
	return &Service{
		window:   window,
		lastSeen: make(map[string]time.Time),
	}
}

// Allow reports whether an event for location may be processed at now.
// Admission records now for the location in the same critical section,
// so two concurrent events for one location cannot both pass.
func (s *Service) Allow(location string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, seen := s.lastSeen[location]
	if seen && now.Sub(last) < s.window {
		log.Debug().
			Str("location", location).
			Dur("since_last", now.Sub(last)).
			Dur("window", s.window).
			Msg("Motion event blocked by cooldown")
		return false
	}

	s.lastSeen[location] = now
	return true
}

// LastAdmitted returns the admission timestamp recorded for location.
func (s *Service) LastAdmitted(location string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.lastSeen[location]
	return t, ok
}

// Tracked returns the number of locations with a recorded admission.
func (s *Service) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lastSeen)
}
