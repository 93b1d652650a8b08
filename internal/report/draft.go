package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
)

// Category classifies a report. Categories are mutually exclusive.
type Category string

const (
	CategoryAccessibility Category = "Accessibility"
	CategorySafety        Category = "Safety"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryAccessibility || c == CategorySafety
}

// ParseCategory converts a user-supplied string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// MaxPhotos is the photo capacity of a draft; at least one photo is required
// for the draft to be valid.
const MaxPhotos = 3

// RequirementTag names one of the draft's validity requirements.
type RequirementTag string

const (
	RequirementPhoto       RequirementTag = "at_least_one_photo"
	RequirementCategory    RequirementTag = "category_selected"
	RequirementTrainLine   RequirementTag = "train_line_selected"
	RequirementStation     RequirementTag = "station_selected"
	RequirementDescription RequirementTag = "description_provided"
)

var (
	// ErrCapacityExceeded is returned by AddPhoto when the draft already
	// holds MaxPhotos photos. The draft is not mutated.
	ErrCapacityExceeded = errors.New("photo capacity exceeded")

	// ErrIndexOutOfRange is returned by RemovePhoto for an invalid index.
	ErrIndexOutOfRange = errors.New("photo index out of range")

	// ErrInvalidStation is returned by SetStation when the station does not
	// belong to the selected train line, or no line is selected.
	ErrInvalidStation = errors.New("station does not belong to the selected train line")
)

// ValidationError carries the full set of unmet requirements, not just the
// first one found.
type ValidationError struct {
	Missing []RequirementTag
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, tag := range e.Missing {
		parts[i] = string(tag)
	}
	return "report draft is incomplete: " + strings.Join(parts, ", ")
}

// Draft is the mutable in-progress report. All mutations are synchronous and
// affect nothing beyond the draft itself.
type Draft struct {
	stations    catalog.Stations
	photos      []Photo
	category    Category
	trainLine   catalog.Line
	station     string
	description string
}

// NewDraft creates an empty draft validating stations against the catalog.
func NewDraft(stations catalog.Stations) *Draft {
	return &Draft{stations: stations}
}

// AddPhoto appends a photo. The first photo added becomes the main photo.
func (d *Draft) AddPhoto(p Photo) error {
	if len(d.photos) >= MaxPhotos {
		return ErrCapacityExceeded
	}
	d.photos = append(d.photos, p)
	return nil
}

// RemovePhoto removes the photo at index i; remaining photos keep their
// relative order, so removing the main photo promotes the next one.
func (d *Draft) RemovePhoto(i int) error {
	if i < 0 || i >= len(d.photos) {
		return fmt.Errorf("%w: index %d with %d photos", ErrIndexOutOfRange, i, len(d.photos))
	}
	d.photos = append(d.photos[:i], d.photos[i+1:]...)
	return nil
}

// SetCategory selects the report category. Setting the same category twice
// is a no-op.
func (d *Draft) SetCategory(c Category) {
	d.category = c
}

// SetTrainLine selects the train line and always clears the dependent
// station field, even if the new line contains the previous station.
func (d *Draft) SetTrainLine(line catalog.Line) {
	d.trainLine = line
	d.station = ""
}

// SetStation selects the station; it must belong to the selected train line.
func (d *Draft) SetStation(name string) error {
	if d.trainLine == "" || !d.stations.HasStation(d.trainLine, name) {
		return fmt.Errorf("%w: %q on line %q", ErrInvalidStation, name, d.trainLine)
	}
	d.station = name
	return nil
}

// SetDescription replaces the free-text description.
func (d *Draft) SetDescription(text string) {
	d.description = text
}

// Photos returns the photos in order; index 0 is the main photo.
func (d *Draft) Photos() []Photo {
	out := make([]Photo, len(d.photos))
	copy(out, d.photos)
	return out
}

func (d *Draft) PhotoCount() int { return len(d.photos) }

// Category returns the selected category, or the zero value when unset.
func (d *Draft) Category() Category { return d.category }

// TrainLine returns the selected train line, or the zero value when unset.
func (d *Draft) TrainLine() catalog.Line { return d.trainLine }

// Station returns the selected station name, empty when unset.
func (d *Draft) Station() string { return d.station }

// Description returns the free-text description.
func (d *Draft) Description() string { return d.description }

// IsEmpty reports whether nothing has been entered yet. An empty draft can
// be discarded without a loss-of-progress confirmation.
func (d *Draft) IsEmpty() bool {
	return len(d.photos) == 0 &&
		d.category == "" &&
		d.trainLine == "" &&
		d.station == "" &&
		d.description == ""
}

// MissingRequirements returns every unmet validity requirement.
func (d *Draft) MissingRequirements() []RequirementTag {
	var missing []RequirementTag
	if len(d.photos) < 1 {
		missing = append(missing, RequirementPhoto)
	}
	if !d.category.Valid() {
		missing = append(missing, RequirementCategory)
	}
	if !d.trainLine.Valid() {
		missing = append(missing, RequirementTrainLine)
	}
	if d.station == "" || d.trainLine == "" || !d.stations.HasStation(d.trainLine, d.station) {
		missing = append(missing, RequirementStation)
	}
	if strings.TrimSpace(d.description) == "" {
		missing = append(missing, RequirementDescription)
	}
	return missing
}

// IsValid reports whether the draft satisfies every requirement.
func (d *Draft) IsValid() bool {
	return len(d.MissingRequirements()) == 0
}

// Validate returns nil for a valid draft, or a ValidationError listing every
// unmet requirement.
func (d *Draft) Validate() error {
	if missing := d.MissingRequirements(); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
