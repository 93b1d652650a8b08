package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	// Register the gallery-supported formats for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/location"
)

// AppVersion is stamped into every record's device info.
const AppVersion = "1.0.5"

// ConfirmationMessage is the rider-facing message embedded in the record.
const ConfirmationMessage = "Report successfully submitted. Thank you for keeping our LRT safe!"

// Fallback coordinate (downtown Edmonton, Churchill square area) used when no
// location fix was acquired. A missing fix is not an error.
const (
	FallbackLat            = 53.5444
	FallbackLon            = -113.4909
	FallbackAccuracyMeters = 10.0
)

// Defaults substituted when a photo's dimensions cannot be decoded.
const (
	defaultPhotoWidth  = 1024
	defaultPhotoHeight = 768
)

// Builder constructs immutable Records from valid drafts. The construction is
// deterministic given its inputs apart from the generated report id and user
// id, which draw on the clock and the builder's entropy source. Uniqueness of
// the id is best-effort: a time component plus a short random suffix.
type Builder struct {
	clock clock.Clock
	rng   *rand.Rand
}

// NewBuilder creates a builder using the given clock and a time-seeded
// entropy source.
func NewBuilder(clk clock.Clock) *Builder {
	return &Builder{
		clock: clk,
		rng:   rand.New(rand.NewSource(clk.NowUnixMilli())),
	}
}

// NewBuilderWithSeed creates a builder with a fixed entropy seed so tests can
// pin the generated ids.
func NewBuilderWithSeed(clk clock.Clock, seed int64) *Builder {
	return &Builder{
		clock: clk,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Build materializes a Record from the draft. The caller is responsible for
// validating the draft first; the record's validation flags restate the
// draft's sub-checks either way. A nil fix selects the fallback coordinate.
func (b *Builder) Build(d *Draft, fix *location.Fix, dev DeviceInfo) Record {
	now := b.clock.Now()
	photos := d.Photos()

	recordPhotos := make([]RecordPhoto, 0, len(photos))
	for i, p := range photos {
		recordPhotos = append(recordPhotos, RecordPhoto{
			ID:       fmt.Sprintf("photo_%d", i+1),
			Source:   string(p.Source),
			URL:      dataURL(p),
			Metadata: photoMetadata(p),
		})
	}

	geo := Geo{Lat: FallbackLat, Lon: FallbackLon, AccuracyM: FallbackAccuracyMeters}
	if fix != nil {
		geo = Geo{Lat: fix.Lat, Lon: fix.Lon, AccuracyM: fix.AccuracyMeters}
	}

	category := d.Category()

	return Record{
		ReportID:  b.newReportID(now),
		Timestamp: now.UTC().Format(time.RFC3339),
		UserID:    fmt.Sprintf("anon_%d", b.rng.Intn(10000)),
		ReportDetails: Details{
			Category:     string(category),
			TrainLine:    string(d.TrainLine()),
			Station:      d.Station(),
			Description:  d.Description(),
			SeverityHint: nil,
		},
		Photos:     recordPhotos,
		Geo:        geo,
		DeviceInfo: dev,
		ValidationFlags: ValidationFlags{
			HasMinimumPhoto:   len(photos) >= 1,
			HasValidCategory:  category.Valid(),
			HasValidTrainLine: d.TrainLine().Valid(),
			HasValidStation:   d.Station() != "",
			HasDescription:    strings.TrimSpace(d.Description()) != "",
		},
		UIFlow: UIFlow{
			PhotoCaptureFlow: PhotoCaptureFlow{
				MinRequired:  1,
				MaxAllowed:   MaxPhotos,
				CurrentCount: len(photos),
			},
			CategoryExclusivity: CategoryExclusivity{
				Safety:        category == CategorySafety,
				Accessibility: category == CategoryAccessibility,
			},
			ReviewStepCompleted: true,
			SubmissionStatus:    "pending",
			ConfirmationMessage: ConfirmationMessage,
		},
		BackendFlags: BackendFlags{},
	}
}

// newReportID generates a prototype-grade identifier: time component plus a
// short random suffix. Collisions are acceptable, per the record contract.
func (b *Builder) newReportID(now time.Time) string {
	return fmt.Sprintf("tmp-%s-%s-%04x",
		now.Format("20060102"), now.Format("150405"), b.rng.Intn(0x10000))
}

// dataURL inlines the encoded photo bytes, matching the record contract
// where the url field carries the image itself until a real upload exists.
func dataURL(p Photo) string {
	mime := p.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// photoMetadata decodes the image header for real dimensions, falling back
// to nominal capture dimensions when the bytes are not decodable. The size
// estimate is derived from the encoded length.
func photoMetadata(p Photo) PhotoMetadata {
	width, height := defaultPhotoWidth, defaultPhotoHeight
	format := formatForMime(p.MimeType)

	if cfg, decodedFormat, err := image.DecodeConfig(bytes.NewReader(p.Data)); err == nil {
		width, height = cfg.Width, cfg.Height
		if decodedFormat == "jpeg" {
			decodedFormat = "jpg"
		}
		format = decodedFormat
	}

	return PhotoMetadata{
		Width:  width,
		Height: height,
		Format: format,
		SizeKB: int(math.Round(float64(len(p.Data)) / 1024.0)),
	}
}

func formatForMime(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// DetectDeviceInfo builds the device info for this host: OS family from the
// Go runtime, the app version constant, and the hostname as the model.
func DetectDeviceInfo() DeviceInfo {
	model := "Unknown"
	if host, err := os.Hostname(); err == nil && host != "" {
		model = host
	}
	return DeviceInfo{
		OS:          osFamily(runtime.GOOS),
		AppVersion:  AppVersion,
		DeviceModel: model,
	}
}

func osFamily(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "MacOS"
	case "linux":
		return "Linux"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	default:
		return "Unknown"
	}
}
