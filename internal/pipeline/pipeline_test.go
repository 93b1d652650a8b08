package pipeline

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

	"github.com/ronaldwopara/lrt-buddies-app/internal/capture"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/location"
	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

type scriptedPrompter struct {
	answer bool
	calls  int
}

func (p *scriptedPrompter) ConfirmDiscard(context.Context) bool {
	p.calls++
	return p.answer
}

type recordingSink struct {
	err     error
	records []report.Record
}

func (s *recordingSink) Submit(_ context.Context, rec report.Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

type fixture struct {
	controller *Controller
	provider   *capture.FakeProvider
	prompter   *scriptedPrompter
	sink       *recordingSink
	loc        *location.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mc := clock.NewMockClock(time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider := &capture.FakeProvider{}
	prompter := &scriptedPrompter{answer: true}
	sink := &recordingSink{}
	loc := &location.Store{}

	controller := NewController(Options{
		Camera:   capture.NewManager(provider, mc, logger),
		Clock:    mc,
		Stations: catalog.NewStatic(),
		Builder:  report.NewBuilderWithSeed(mc, 7),
		Location: loc,
		Device:   report.DeviceInfo{OS: "Linux", AppVersion: report.AppVersion, DeviceModel: "test"},
		Prompter: prompter,
		Sink:     sink,
		Logger:   logger,
	})
	return &fixture{controller: controller, provider: provider, prompter: prompter, sink: sink, loc: loc}
}

func writeTempImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// driveToDrafting captures one photo via the camera flow.
func (f *fixture) driveToDrafting(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.controller.OpenCamera(ctx))
	require.NoError(t, f.controller.Shutter(ctx))
	require.Equal(t, StageDrafting, f.controller.Stage())
}

func (f *fixture) fillDraft(t *testing.T) {
	t.Helper()
	require.NoError(t, f.controller.SetCategory(report.CategorySafety))
	require.NoError(t, f.controller.SetTrainLine(catalog.LineMetro))
	require.NoError(t, f.controller.SetStation("NAIT"))
	require.NoError(t, f.controller.SetDescription("broken escalator"))
}

func TestHappyPathToSubmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, StageIdle, f.controller.Stage())

	f.driveToDrafting(t)
	f.fillDraft(t)

	require.NoError(t, f.controller.Review(ctx))
	assert.Equal(t, StageReviewing, f.controller.Stage())
	require.NotNil(t, f.controller.Preview())

	require.NoError(t, f.controller.Confirm(ctx))
	assert.Equal(t, StageSubmitted, f.controller.Stage())
	require.Len(t, f.sink.records, 1)
	assert.Equal(t, "NAIT", f.sink.records[0].ReportDetails.Station)

	require.NoError(t, f.controller.Home())
	assert.Equal(t, StageIdle, f.controller.Stage())
	assert.Nil(t, f.controller.Draft())
	assert.Nil(t, f.controller.Record())
}

func TestOpenCameraFailureStaysIdle(t *testing.T) {
	f := newFixture(t)
	f.provider.AcquireErrs = map[capture.Facing]error{
		capture.FacingEnvironment: capture.NewError(capture.KindPermissionDenied, errors.New("denied")),
		capture.FacingUser:        capture.NewError(capture.KindPermissionDenied, errors.New("denied")),
	}

	err := f.controller.OpenCamera(context.Background())
	require.Error(t, err)
	assert.Equal(t, StageIdle, f.controller.Stage())
	require.NotNil(t, f.controller.CameraError())
	assert.Equal(t, capture.KindPermissionDenied, f.controller.CameraError().Kind)
}

func TestOpenCameraRetryClearsError(t *testing.T) {
	f := newFixture(t)
	f.provider.AcquireErrs = map[capture.Facing]error{
		capture.FacingEnvironment: capture.NewError(capture.KindDeviceBusy, errors.New("busy")),
	}

	require.Error(t, f.controller.OpenCamera(context.Background()))
	require.NotNil(t, f.controller.CameraError())

	f.provider.AcquireErrs = nil
	require.NoError(t, f.controller.OpenCamera(context.Background()))
	assert.Equal(t, StageCapturing, f.controller.Stage())
	assert.Nil(t, f.controller.CameraError())
}

func TestCancelCaptureReturnsToPriorStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// From Idle.
	require.NoError(t, f.controller.OpenCamera(ctx))
	require.NoError(t, f.controller.CancelCapture())
	assert.Equal(t, StageIdle, f.controller.Stage())
	assert.Equal(t, 1, f.provider.ReleaseCalls(), "cancel must release the device exactly once")

	// From Drafting: re-entering capture and cancelling goes back to Drafting.
	f.driveToDrafting(t)
	require.NoError(t, f.controller.OpenCamera(ctx))
	require.NoError(t, f.controller.CancelCapture())
	assert.Equal(t, StageDrafting, f.controller.Stage())
	assert.Equal(t, 1, f.controller.Draft().PhotoCount(), "cancel must not produce a photo")
}

func TestShutterReleasesSessionAndAppendsPhoto(t *testing.T) {
	f := newFixture(t)
	f.driveToDrafting(t)

	assert.Equal(t, 1, f.provider.ReleaseCalls(), "shutter must release the device")
	require.NotNil(t, f.controller.Draft())
	assert.Equal(t, 1, f.controller.Draft().PhotoCount())
	photos := f.controller.Draft().Photos()
	assert.Equal(t, report.PhotoSourceCamera, photos[0].Source)
}

func TestOpenCameraFromFullDraftRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.driveToDrafting(t)
	for i := 0; i < report.MaxPhotos-1; i++ {
		require.NoError(t, f.controller.OpenCamera(ctx))
		require.NoError(t, f.controller.Shutter(ctx))
	}
	require.Equal(t, report.MaxPhotos, f.controller.Draft().PhotoCount())

	err := f.controller.OpenCamera(ctx)
	assert.ErrorIs(t, err, report.ErrCapacityExceeded)
	assert.Equal(t, StageDrafting, f.controller.Stage())
}

func TestGalleryPhotoFromIdleEntersDrafting(t *testing.T) {
	f := newFixture(t)
	path := writeTempImage(t, "gallery.jpg", []byte("jpeg-bytes"))

	require.NoError(t, f.controller.AddGalleryPhoto(path))
	assert.Equal(t, StageDrafting, f.controller.Stage())

	photos := f.controller.Draft().Photos()
	require.Len(t, photos, 1)
	assert.Equal(t, report.PhotoSourceGallery, photos[0].Source)
}

func TestGalleryUploadAvailableWhenCameraBroken(t *testing.T) {
	f := newFixture(t)
	f.provider.AcquireErrs = map[capture.Facing]error{
		capture.FacingEnvironment: capture.NewError(capture.KindDeviceNotFound, errors.New("none")),
		capture.FacingUser:        capture.NewError(capture.KindDeviceNotFound, errors.New("none")),
	}
	require.Error(t, f.controller.OpenCamera(context.Background()))

	path := writeTempImage(t, "fallback.png", []byte("png-bytes"))
	require.NoError(t, f.controller.AddGalleryPhoto(path))
	assert.Equal(t, StageDrafting, f.controller.Stage())
}

func TestBackFromEmptyDraftSkipsPrompt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Enter Drafting via gallery, then empty the draft again.
	path := writeTempImage(t, "p.jpg", []byte("x"))
	require.NoError(t, f.controller.AddGalleryPhoto(path))
	require.NoError(t, f.controller.RemovePhoto(0))
	require.True(t, f.controller.Draft().IsEmpty())

	discarded, err := f.controller.Back(ctx)
	require.NoError(t, err)
	assert.True(t, discarded)
	assert.Equal(t, 0, f.prompter.calls, "empty draft must not prompt")
	assert.Equal(t, StageIdle, f.controller.Stage())
}

func TestBackFromNonEmptyDraftPrompts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.driveToDrafting(t)

	f.prompter.answer = false
	discarded, err := f.controller.Back(ctx)
	require.NoError(t, err)
	assert.False(t, discarded)
	assert.Equal(t, 1, f.prompter.calls)
	assert.Equal(t, StageDrafting, f.controller.Stage(), "declining must not change stage")
	assert.Equal(t, 1, f.controller.Draft().PhotoCount(), "declining must not touch the draft")

	f.prompter.answer = true
	discarded, err = f.controller.Back(ctx)
	require.NoError(t, err)
	assert.True(t, discarded)
	assert.Equal(t, StageIdle, f.controller.Stage())
	assert.Nil(t, f.controller.Draft())
}

func TestReviewRejectsInvalidDraft(t *testing.T) {
	f := newFixture(t)
	f.driveToDrafting(t)

	err := f.controller.Review(context.Background())
	require.Error(t, err)

	var verr *report.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []report.RequirementTag{
		report.RequirementCategory,
		report.RequirementTrainLine,
		report.RequirementStation,
		report.RequirementDescription,
	}, verr.Missing, "every unmet requirement must be listed")
	assert.Equal(t, StageDrafting, f.controller.Stage())
}

func TestEditReportKeepsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.driveToDrafting(t)
	f.fillDraft(t)
	require.NoError(t, f.controller.Review(ctx))

	require.NoError(t, f.controller.EditReport())
	assert.Equal(t, StageDrafting, f.controller.Stage())
	assert.Nil(t, f.controller.Preview())
	assert.Equal(t, "NAIT", f.controller.Draft().Station())
	assert.Equal(t, 1, f.controller.Draft().PhotoCount())
}

func TestConfirmUsesAcquiredLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loc.Set(location.Fix{Lat: 53.5, Lon: -113.5, AccuracyMeters: 5})

	f.driveToDrafting(t)
	f.fillDraft(t)
	require.NoError(t, f.controller.Review(ctx))
	require.NoError(t, f.controller.Confirm(ctx))

	require.Len(t, f.sink.records, 1)
	geo := f.sink.records[0].Geo
	assert.Equal(t, 53.5, geo.Lat)
	assert.Equal(t, -113.5, geo.Lon)
	assert.Equal(t, 5.0, geo.AccuracyM)
}

func TestConfirmFallsBackWhenLocationMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.driveToDrafting(t)
	f.fillDraft(t)
	require.NoError(t, f.controller.Review(ctx))
	require.NoError(t, f.controller.Confirm(ctx))

	geo := f.sink.records[0].Geo
	assert.Equal(t, report.FallbackLat, geo.Lat)
	assert.Equal(t, report.FallbackLon, geo.Lon)
	assert.Equal(t, report.FallbackAccuracyMeters, geo.AccuracyM)
}

func TestConfirmSinkFailureStaysReviewing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sink.err = errors.New("disk full")

	f.driveToDrafting(t)
	f.fillDraft(t)
	require.NoError(t, f.controller.Review(ctx))

	require.Error(t, f.controller.Confirm(ctx))
	assert.Equal(t, StageReviewing, f.controller.Stage())
	assert.Nil(t, f.controller.Record())

	f.sink.err = nil
	require.NoError(t, f.controller.Confirm(ctx))
	assert.Equal(t, StageSubmitted, f.controller.Stage())
}

func TestHomePreservesLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loc.Set(location.Fix{Lat: 53.5, Lon: -113.5, AccuracyMeters: 5})

	f.driveToDrafting(t)
	f.fillDraft(t)
	require.NoError(t, f.controller.Review(ctx))
	require.NoError(t, f.controller.Confirm(ctx))
	require.NoError(t, f.controller.Home())

	require.NotNil(t, f.loc.Get())
	assert.Equal(t, 53.5, f.loc.Get().Lat)
}

func TestActionsRejectedOutsideTheirStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.controller.Shutter(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, f.controller.CancelCapture(), ErrInvalidTransition)
	assert.ErrorIs(t, f.controller.SetDescription("x"), ErrInvalidTransition)
	assert.ErrorIs(t, f.controller.Review(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, f.controller.EditReport(), ErrInvalidTransition)
	assert.ErrorIs(t, f.controller.Confirm(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, f.controller.Home(), ErrInvalidTransition)

	_, err := f.controller.Back(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
