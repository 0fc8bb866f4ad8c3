package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestAllowFirstEvent(t *testing.T) {
	s := NewService(30 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !s.Allow("driveway", now) {
		t.Fatal("first event for a location was not admitted")
	}

	last, ok := s.LastAdmitted("driveway")
	if !ok {
		t.Fatal("admission was not recorded")
	}
	if !last.Equal(now) {
		t.Errorf("LastAdmitted = %v, want %v", last, now)
	}
}

func TestAllowWithinWindow(t *testing.T) {
	s := NewService(30 * time.Second)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !s.Allow("driveway", base) {
		t.Fatal("first event was not admitted")
	}
	if s.Allow("driveway", base.Add(5*time.Second)) {
		t.Error("event 5s after admission was admitted, want denied")
	}

	// Denied events must not move the recorded timestamp.
	last, _ := s.LastAdmitted("driveway")
	if !last.Equal(base) {
		t.Errorf("LastAdmitted moved to %v after denial, want %v", last, base)
	}
}

func TestAllowAfterWindow(t *testing.T) {
	s := NewService(30 * time.Second)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.Allow("driveway", base)

	next := base.Add(30 * time.Second)
	if !s.Allow("driveway", next) {
		t.Fatal("event exactly one window after admission was denied")
	}

	last, _ := s.LastAdmitted("driveway")
	if !last.Equal(next) {
		t.Errorf("LastAdmitted = %v, want %v", last, next)
	}
}

func TestAllowIndependentLocations(t *testing.T) {
	s := NewService(30 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !s.Allow("driveway", now) {
		t.Fatal("driveway event was not admitted")
	}
	if !s.Allow("backyard", now) {
		t.Error("backyard event was denied by driveway's window")
	}
	if got := s.Tracked(); got != 2 {
		t.Errorf("Tracked() = %d, want 2", got)
	}
}

func TestAllowStaleClock(t *testing.T) {
	s := NewService(30 * time.Second)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.Allow("driveway", base)

	// An earlier timestamp must neither be admitted nor rewind the record.
	if s.Allow("driveway", base.Add(-time.Minute)) {
		t.Error("event with an earlier timestamp was admitted")
	}
	last, _ := s.LastAdmitted("driveway")
	if !last.Equal(base) {
		t.Errorf("LastAdmitted = %v, want %v", last, base)
	}
}

func TestAllowConcurrentSameLocation(t *testing.T) {
	s := NewService(30 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Allow("driveway", now) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 1 {
		t.Errorf("admitted = %d concurrent events for one location, want exactly 1", admitted)
	}
}
