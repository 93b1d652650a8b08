// Package location provides one-shot acquisition of the device's geographic
// position. The fix is acquired once at session start, shared read-only for
// the rest of the session, and never forces a pipeline transition: a fix that
// arrives after the rider has moved on simply updates the shared store.
package location

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ronaldwopara/lrt-buddies-app/internal/logging"
)

// Fix is an acquired geographic position.
type Fix struct {
	Lat            float64
	Lon            float64
	AccuracyMeters float64
}

var (
	// ErrPermissionDenied means the rider declined the location prompt.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrUnavailable means no position could be determined.
	ErrUnavailable = errors.New("location unavailable")
)

// Provider acquires the device position once. There is no cancellation beyond
// the context and no automatic retry.
type Provider interface {
	Acquire(ctx context.Context) (Fix, error)
}

// Store holds the session's shared fix. Single writer (the one-shot
// acquisition), many readers.
type Store struct {
	mu  sync.RWMutex
	fix *Fix
}

// Set records the acquired fix.
func (s *Store) Set(f Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fix = &f
}

// Get returns the acquired fix, or nil if none has arrived.
func (s *Store) Get() *Fix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fix == nil {
		return nil
	}
	f := *s.fix
	return &f
}

// AcquireInto runs the provider once and stores a successful fix. Failure is
// logged and otherwise ignored; the report builder substitutes the fallback
// coordinate when no fix is present.
func AcquireInto(ctx context.Context, p Provider, store *Store, logger *slog.Logger) {
	fix, err := p.Acquire(ctx)
	if err != nil {
		logging.LogError(logger, "location acquisition failed", err,
			slog.String("component", "location"))
		return
	}
	store.Set(fix)
	logging.LogOperation(logger, "location_acquired",
		slog.Float64("lat", fix.Lat),
		slog.Float64("lon", fix.Lon),
		slog.Float64("accuracy_m", fix.AccuracyMeters),
		slog.String("component", "location"))
}

// StaticProvider returns a fixed position; used by the CLI (coordinates from
// flags) and tests.
type StaticProvider struct {
	Fix Fix
}

func (p StaticProvider) Acquire(ctx context.Context) (Fix, error) {
	return p.Fix, nil
}

// FailingProvider always fails with the configured error.
type FailingProvider struct {
	Err error
}

func (p FailingProvider) Acquire(ctx context.Context) (Fix, error) {
	if p.Err != nil {
		return Fix{}, p.Err
	}
	return Fix{}, ErrUnavailable
}
