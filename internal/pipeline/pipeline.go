// Package pipeline implements the passenger reporting flow as an explicit
// state machine. A Controller carries a rider from camera capture through
// form drafting and review to a submitted report record, centralizing the
// per-transition resets and the capture session's release on every exit
// path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ronaldwopara/lrt-buddies-app/internal/capture"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/location"
	"github.com/ronaldwopara/lrt-buddies-app/internal/metrics"
	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

// Stage names a state of the reporting pipeline.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageCapturing Stage = "capturing"
	StageDrafting  Stage = "drafting"
	StageReviewing Stage = "reviewing"
	StageSubmitted Stage = "submitted"
)

// ErrInvalidTransition is returned when an action is invoked from a stage
// that does not permit it.
var ErrInvalidTransition = errors.New("action not permitted in current stage")

// Prompter asks the rider to confirm discarding a non-empty draft. The
// presentation layer implements it; returning false leaves the pipeline
// unchanged.
type Prompter interface {
	ConfirmDiscard(ctx context.Context) bool
}

// Sink receives the finalized record on confirm. The export layer
// implements it.
type Sink interface {
	Submit(ctx context.Context, rec report.Record) error
}

// Options wires a Controller's collaborators. Everything except Metrics is
// required; a nil Metrics disables instrumentation.
type Options struct {
	Camera   *capture.Manager
	Clock    clock.Clock
	Stations catalog.Stations
	Builder  *report.Builder
	Location *location.Store
	Device   report.DeviceInfo
	Prompter Prompter
	Sink     Sink
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Controller is the reporting pipeline state machine. All methods are safe
// for concurrent use, though the intended model is one rider driving it one
// action at a time.
type Controller struct {
	mu sync.Mutex

	stage Stage
	// returnStage is where a cancelled or completed capture goes back to.
	returnStage Stage

	camera  *capture.Manager
	session *capture.Session
	camErr  *capture.Error

	stations catalog.Stations
	draft    *report.Draft
	preview  *report.Record
	record   *report.Record

	builder  *report.Builder
	clk      clock.Clock
	loc      *location.Store
	device   report.DeviceInfo
	prompter Prompter
	sink     Sink
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewController creates an idle pipeline.
func NewController(opts Options) *Controller {
	return &Controller{
		stage:    StageIdle,
		camera:   opts.Camera,
		stations: opts.Stations,
		builder:  opts.Builder,
		clk:      opts.Clock,
		loc:      opts.Location,
		device:   opts.Device,
		prompter: opts.Prompter,
		sink:     opts.Sink,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Stage returns the current pipeline stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Draft returns the in-progress draft, or nil before one exists.
func (c *Controller) Draft() *report.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Preview returns the candidate record built on entering review, or nil.
// Its id and timestamp are not final until Confirm.
func (c *Controller) Preview() *report.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Record returns the finalized record after Confirm, or nil.
func (c *Controller) Record() *report.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// CameraError returns the last camera failure, or nil. It is cleared by the
// next successful camera acquisition.
func (c *Controller) CameraError() *capture.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camErr
}

// OpenCamera acquires the camera and enters Capturing. Permitted from Idle
// and from Drafting (re-entering capture to add another photo); from a full
// draft it fails with the capacity error instead of opening a session that
// could not store its photo. On a camera failure the stage does not change;
// the failure is recorded for CameraError and the caller retries by invoking
// OpenCamera again.
func (c *Controller) OpenCamera(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageIdle && c.stage != StageDrafting {
		return fmt.Errorf("%w: open camera from %s", ErrInvalidTransition, c.stage)
	}
	if c.draft != nil && c.draft.PhotoCount() >= report.MaxPhotos {
		return report.ErrCapacityExceeded
	}

	session, err := c.camera.Open(ctx, capture.FacingEnvironment)
	if err != nil {
		c.camErr = asCaptureError(err)
		if c.metrics != nil {
			c.metrics.RecordCaptureError(string(c.camErr.Kind))
		}
		c.logger.Warn("camera unavailable", slog.String("kind", string(c.camErr.Kind)))
		return err
	}

	c.session = session
	c.camErr = nil
	c.returnStage = c.stage
	c.transition(StageCapturing)
	return nil
}

// Shutter takes the photo, releases the camera, and enters Drafting with the
// photo appended to the draft. The session is released whether or not the
// snapshot succeeds; a failed snapshot returns to the stage that preceded
// Capturing.
func (c *Controller) Shutter(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageCapturing {
		return fmt.Errorf("%w: shutter from %s", ErrInvalidTransition, c.stage)
	}

	photo, snapErr := c.camera.Snapshot(ctx, c.session)
	c.releaseSessionLocked()

	if snapErr != nil {
		c.camErr = asCaptureError(snapErr)
		if c.metrics != nil {
			c.metrics.RecordCaptureError(string(c.camErr.Kind))
		}
		c.transition(c.returnStage)
		return snapErr
	}

	if c.draft == nil {
		c.draft = report.NewDraft(c.stations)
	}
	if err := c.draft.AddPhoto(photo); err != nil {
		c.transition(c.returnStage)
		return err
	}
	c.transition(StageDrafting)
	return nil
}

// CancelCapture abandons the capture, releases the camera, and returns to
// the stage that preceded Capturing. No photo is produced.
func (c *Controller) CancelCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageCapturing {
		return fmt.Errorf("%w: cancel capture from %s", ErrInvalidTransition, c.stage)
	}
	c.releaseSessionLocked()
	c.transition(c.returnStage)
	return nil
}

// AddGalleryPhoto reads an image the rider picked from the gallery and adds
// it to the draft. From Idle it starts a new draft and enters Drafting, so
// gallery upload stays available when the camera is broken.
func (c *Controller) AddGalleryPhoto(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageIdle && c.stage != StageDrafting {
		return fmt.Errorf("%w: add gallery photo from %s", ErrInvalidTransition, c.stage)
	}
	if c.draft != nil && c.draft.PhotoCount() >= report.MaxPhotos {
		return report.ErrCapacityExceeded
	}

	photo, err := report.PhotoFromFile(path, c.clk.Now())
	if err != nil {
		return err
	}

	if c.draft == nil {
		c.draft = report.NewDraft(c.stations)
	}
	if err := c.draft.AddPhoto(photo); err != nil {
		return err
	}
	if c.stage == StageIdle {
		c.transition(StageDrafting)
	}
	return nil
}

// RemovePhoto removes the draft photo at index i. Drafting only.
func (c *Controller) RemovePhoto(i int) error {
	return c.editDraft(func(d *report.Draft) error { return d.RemovePhoto(i) })
}

// SetCategory selects the report category. Drafting only.
func (c *Controller) SetCategory(cat report.Category) error {
	return c.editDraft(func(d *report.Draft) error {
		d.SetCategory(cat)
		return nil
	})
}

// SetTrainLine selects the train line, clearing the station. Drafting only.
func (c *Controller) SetTrainLine(line catalog.Line) error {
	return c.editDraft(func(d *report.Draft) error {
		d.SetTrainLine(line)
		return nil
	})
}

// SetStation selects the station. Drafting only.
func (c *Controller) SetStation(name string) error {
	return c.editDraft(func(d *report.Draft) error { return d.SetStation(name) })
}

// SetDescription replaces the description text. Drafting only.
func (c *Controller) SetDescription(text string) error {
	return c.editDraft(func(d *report.Draft) error {
		d.SetDescription(text)
		return nil
	})
}

func (c *Controller) editDraft(edit func(*report.Draft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageDrafting {
		return fmt.Errorf("%w: edit draft from %s", ErrInvalidTransition, c.stage)
	}
	return edit(c.draft)
}

// Back leaves Drafting for Idle, discarding the draft. A non-empty draft
// needs the rider's confirmation first; declining keeps draft and stage
// untouched. The return value reports whether the draft was discarded.
func (c *Controller) Back(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageDrafting {
		return false, fmt.Errorf("%w: back from %s", ErrInvalidTransition, c.stage)
	}
	if c.draft != nil && !c.draft.IsEmpty() && !c.prompter.ConfirmDiscard(ctx) {
		c.logger.Info("discard declined, keeping draft")
		return false, nil
	}

	c.draft = nil
	c.transition(StageIdle)
	return true, nil
}

// Review validates the draft and enters Reviewing with a candidate record.
// An invalid draft fails with a ValidationError naming every unmet
// requirement, and the stage does not change.
func (c *Controller) Review(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageDrafting {
		return fmt.Errorf("%w: review from %s", ErrInvalidTransition, c.stage)
	}
	if err := c.draft.Validate(); err != nil {
		return err
	}

	rec := c.builder.Build(c.draft, c.loc.Get(), c.device)
	c.preview = &rec
	c.transition(StageReviewing)
	return nil
}

// EditReport returns from Reviewing to Drafting with the draft unchanged.
// The candidate record is dropped; Review builds a fresh one.
func (c *Controller) EditReport() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageReviewing {
		return fmt.Errorf("%w: edit report from %s", ErrInvalidTransition, c.stage)
	}
	c.preview = nil
	c.transition(StageDrafting)
	return nil
}

// Confirm finalizes the record and enters Submitted. The id and timestamp
// are fixed here, not at review entry, so lingering on the review screen
// cannot produce a stale timestamp. The record is rebuilt and handed to the
// sink; a sink failure keeps the pipeline in Reviewing for a retry.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageReviewing {
		return fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, c.stage)
	}

	rec := c.builder.Build(c.draft, c.loc.Get(), c.device)
	if err := c.sink.Submit(ctx, rec); err != nil {
		c.logger.Error("report submission failed", slog.String("report_id", rec.ReportID))
		return err
	}

	c.record = &rec
	c.preview = nil
	if c.metrics != nil {
		c.metrics.RecordSubmission(len(rec.Photos))
	}
	c.logger.Info("report submitted",
		slog.String("report_id", rec.ReportID),
		slog.Int("photos", len(rec.Photos)))
	c.transition(StageSubmitted)
	return nil
}

// Home clears the draft and the submitted record and returns to Idle. The
// shared location fix is untouched; it lives for the whole app session.
func (c *Controller) Home() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageSubmitted {
		return fmt.Errorf("%w: home from %s", ErrInvalidTransition, c.stage)
	}
	c.draft = nil
	c.preview = nil
	c.record = nil
	c.transition(StageIdle)
	return nil
}

// releaseSessionLocked frees the camera once; the session manager guards
// against double release. Caller holds c.mu.
func (c *Controller) releaseSessionLocked() {
	if c.session == nil {
		return
	}
	if err := c.camera.Release(c.session); err != nil && !errors.Is(err, capture.ErrSessionClosed) {
		c.logger.Error("capture session release failed", slog.String("error", err.Error()))
	}
	c.session = nil
}

func (c *Controller) transition(to Stage) {
	from := c.stage
	c.stage = to
	if c.metrics != nil {
		c.metrics.RecordTransition(string(from), string(to))
	}
	c.logger.Debug("pipeline transition",
		slog.String("from", string(from)), slog.String("to", string(to)))
}

func asCaptureError(err error) *capture.Error {
	var cerr *capture.Error
	if errors.As(err, &cerr) {
		return cerr
	}
	return capture.NewError(capture.KindCaptureFailed, err)
}
