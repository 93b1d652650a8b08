package capture

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

func testManager(p Provider) *Manager {
	mc := clock.NewMockClock(time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC))
	return NewManager(p, mc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOpenGrantsRequestedFacing(t *testing.T) {
	fake := &FakeProvider{}
	m := testManager(fake)

	s, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, FacingEnvironment, s.Facing())
	assert.Equal(t, FacingEnvironment, fake.Granted())
	assert.True(t, m.Active())
}

func TestOpenFallsBackToFrontCamera(t *testing.T) {
	fake := &FakeProvider{
		AcquireErrs: map[Facing]error{
			FacingEnvironment: NewError(KindDeviceNotFound, errors.New("no rear camera")),
		},
	}
	m := testManager(fake)

	s, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)
	assert.Equal(t, FacingUser, s.Facing())
	assert.Equal(t, 2, fake.AcquireCalls())
}

func TestOpenNoFallbackForOtherErrorKinds(t *testing.T) {
	fake := &FakeProvider{
		AcquireErrs: map[Facing]error{
			FacingEnvironment: NewError(KindPermissionDenied, errors.New("denied")),
		},
	}
	m := testManager(fake)

	_, err := m.Open(context.Background(), FacingEnvironment)
	require.Error(t, err)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
	assert.Equal(t, 1, fake.AcquireCalls(), "permission denial must not retry the front camera")
	assert.False(t, m.Active())
}

func TestOpenRejectsSecondSession(t *testing.T) {
	m := testManager(&FakeProvider{})

	_, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)

	_, err = m.Open(context.Background(), FacingEnvironment)
	require.Error(t, err)
	assert.Equal(t, KindDeviceBusy, KindOf(err))
}

func TestSnapshotStampsCameraSource(t *testing.T) {
	m := testManager(&FakeProvider{})

	s, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)

	photo, err := m.Snapshot(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, report.PhotoSourceCamera, photo.Source)
	assert.False(t, photo.CapturedAt.IsZero())
	assert.NotEmpty(t, photo.Data)
}

func TestSnapshotAfterReleaseFails(t *testing.T) {
	m := testManager(&FakeProvider{})

	s, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)
	require.NoError(t, m.Release(s))

	_, err = m.Snapshot(context.Background(), s)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestReleaseExactlyOnce(t *testing.T) {
	fake := &FakeProvider{}
	m := testManager(fake)

	s, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)

	require.NoError(t, m.Release(s))
	assert.ErrorIs(t, m.Release(s), ErrSessionClosed)
	assert.Equal(t, 1, fake.ReleaseCalls(), "device must be released once per session")
	assert.False(t, m.Active())
}

func TestStaleHandleCannotSnapshotNewSession(t *testing.T) {
	m := testManager(&FakeProvider{})

	stale, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)
	require.NoError(t, m.Release(stale))

	fresh, err := m.Open(context.Background(), FacingEnvironment)
	require.NoError(t, err)

	_, err = m.Snapshot(context.Background(), stale)
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = m.Snapshot(context.Background(), fresh)
	assert.NoError(t, err)
}

func TestErrorRemediationPerKind(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindPermissionDenied, "Camera permission was denied"},
		{KindDeviceNotFound, "No camera was found"},
		{KindDeviceBusy, "in use by another app"},
		{KindCaptureFailed, "Could not take the photo"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := NewError(tt.kind, errors.New("boom"))
			assert.Contains(t, e.Remediation(), tt.want)
		})
	}
}

func TestKindOfUnclassifiedError(t *testing.T) {
	assert.Equal(t, KindCaptureFailed, KindOf(errors.New("plain")))
	assert.Equal(t, KindDeviceBusy, KindOf(NewError(KindDeviceBusy, nil)))
}

func TestDirectoryProviderServesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("frame-b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("frame-a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	mc := clock.NewMockClock(time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC))
	p, err := NewDirectoryProvider(dir, mc)
	require.NoError(t, err)

	require.NoError(t, p.Acquire(context.Background(), FacingEnvironment))
	defer p.Release()

	first, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("frame-a"), first.Data)
	assert.Equal(t, "image/png", first.MimeType)
	assert.Equal(t, report.PhotoSourceCamera, first.Source)

	second, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("frame-b"), second.Data)

	// Cycles back to the first file once exhausted.
	third, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("frame-a"), third.Data)
}

func TestDirectoryProviderEmptyDirIsDeviceNotFound(t *testing.T) {
	mc := clock.NewMockClock(time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC))

	_, err := NewDirectoryProvider(t.TempDir(), mc)
	require.Error(t, err)
	assert.Equal(t, KindDeviceNotFound, KindOf(err))
}
