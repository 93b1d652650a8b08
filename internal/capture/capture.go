// Package capture models the camera as an exclusive resource. A Provider is
// the device abstraction; the Manager owns the single active session, the
// front-camera fallback, and the shutter throttle.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

// Facing identifies which camera a session requests.
type Facing string

const (
	// FacingEnvironment is the rear camera, preferred for incident photos.
	FacingEnvironment Facing = "environment"
	// FacingUser is the front camera, the fallback when no rear camera exists.
	FacingUser Facing = "user"
)

// ErrorKind classifies camera failures into the cases the reporting flow
// handles differently. Anything else maps to KindCaptureFailed.
type ErrorKind string

const (
	KindPermissionDenied ErrorKind = "permission_denied"
	KindDeviceNotFound   ErrorKind = "device_not_found"
	KindDeviceBusy       ErrorKind = "device_busy"
	KindCaptureFailed    ErrorKind = "capture_failed"
)

// Error wraps a device failure with its classification. The reporting flow
// branches on Kind and surfaces Remediation to the rider.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Remediation returns the rider-facing guidance for this failure.
func (e *Error) Remediation() string {
	switch e.Kind {
	case KindPermissionDenied:
		return "Camera permission was denied. Enable camera access in your device settings and try again."
	case KindDeviceNotFound:
		return "No camera was found on this device. You can add photos from your gallery instead."
	case KindDeviceBusy:
		return "The camera is in use by another app. Close it and try again."
	default:
		return "Could not take the photo. Please try again."
	}
}

// NewError builds a classified camera error.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the classification from err, or KindCaptureFailed when the
// error is not a camera Error.
func KindOf(err error) ErrorKind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return KindCaptureFailed
}

// Provider is the camera device abstraction. Acquire claims the device for
// the requested facing, Snapshot takes a single frame, and Release frees the
// device. Implementations need not be safe for concurrent use; the Manager
// serializes access.
type Provider interface {
	Acquire(ctx context.Context, facing Facing) error
	Snapshot(ctx context.Context) (report.Photo, error)
	Release() error
}
