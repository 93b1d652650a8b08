package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

// ErrSessionClosed is returned when a snapshot or release targets a session
// that was already released.
var ErrSessionClosed = errors.New("capture session already closed")

// shutterInterval is the minimum spacing between snapshots on one session,
// matching the hardware debounce a real shutter needs.
const shutterInterval = 250 * time.Millisecond

// Session is a handle to an acquired camera. Handles are single-use: once
// released, every operation on the handle fails with ErrSessionClosed.
type Session struct {
	id     string
	facing Facing
	opened time.Time
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string { return s.id }

// Facing returns the facing the device actually granted, which may differ
// from the requested one after a front-camera fallback.
func (s *Session) Facing() Facing { return s.facing }

// Manager serializes access to a Provider and enforces the single active
// session rule. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	provider Provider
	clock    clock.Clock
	logger   *slog.Logger
	limiter  *rate.Limiter
	active   *Session
}

// NewManager wraps the provider. The logger must not be nil.
func NewManager(p Provider, clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		provider: p,
		clock:    clk,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Every(shutterInterval), 1),
	}
}

// Open acquires the camera and returns the session handle. Requesting the
// rear camera on a device without one falls back to the front camera; every
// other failure is returned as-is. Opening while another session is active
// fails with a device-busy error.
func (m *Manager) Open(ctx context.Context, facing Facing) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, NewError(KindDeviceBusy, errors.New("another capture session is active"))
	}

	granted := facing
	err := m.provider.Acquire(ctx, facing)
	if err != nil && facing == FacingEnvironment && KindOf(err) == KindDeviceNotFound {
		m.logger.Info("rear camera not found, falling back to front camera")
		granted = FacingUser
		err = m.provider.Acquire(ctx, FacingUser)
	}
	if err != nil {
		m.logger.Error("camera acquire failed",
			slog.String("facing", string(facing)),
			slog.String("kind", string(KindOf(err))))
		return nil, err
	}

	m.active = &Session{
		id:     uuid.NewString(),
		facing: granted,
		opened: m.clock.Now(),
	}
	m.logger.Info("capture session opened",
		slog.String("session_id", m.active.id),
		slog.String("facing", string(granted)))
	return m.active, nil
}

// Snapshot takes one frame on the given session. Shots are throttled to the
// shutter interval; Snapshot blocks until the shutter is ready or ctx ends.
func (m *Manager) Snapshot(ctx context.Context, s *Session) (report.Photo, error) {
	m.mu.Lock()
	if m.active == nil || s == nil || m.active.id != s.id {
		m.mu.Unlock()
		return report.Photo{}, ErrSessionClosed
	}
	m.mu.Unlock()

	if err := m.limiter.Wait(ctx); err != nil {
		return report.Photo{}, NewError(KindCaptureFailed, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || m.active.id != s.id {
		return report.Photo{}, ErrSessionClosed
	}

	photo, err := m.provider.Snapshot(ctx)
	if err != nil {
		m.logger.Error("snapshot failed", slog.String("session_id", s.id),
			slog.String("kind", string(KindOf(err))))
		return report.Photo{}, err
	}

	photo.Source = report.PhotoSourceCamera
	if photo.CapturedAt.IsZero() {
		photo.CapturedAt = m.clock.Now()
	}
	return photo, nil
}

// Release frees the camera. Releasing an already-released session returns
// ErrSessionClosed; the device is only released once per session.
func (m *Manager) Release(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || s == nil || m.active.id != s.id {
		return ErrSessionClosed
	}
	m.active = nil

	if err := m.provider.Release(); err != nil {
		m.logger.Error("camera release failed", slog.String("session_id", s.id))
		return err
	}
	m.logger.Info("capture session released", slog.String("session_id", s.id))
	return nil
}

// Active reports whether a session is currently open.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}
