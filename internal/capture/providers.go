package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

// DirectoryProvider plays back image files from a directory as camera
// frames, in filename order, cycling when exhausted. It stands in for a real
// camera on hosts that have none.
type DirectoryProvider struct {
	clock clock.Clock

	mu       sync.Mutex
	dir      string
	files    []string
	next     int
	acquired bool
}

// NewDirectoryProvider scans dir for image files. It fails with a
// device-not-found error when dir has no usable images.
func NewDirectoryProvider(dir string, clk clock.Clock) (*DirectoryProvider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewError(KindDeviceNotFound, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png", ".gif", ".webp":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, NewError(KindDeviceNotFound,
			fmt.Errorf("no image files in %s", dir))
	}
	sort.Strings(files)

	return &DirectoryProvider{clock: clk, dir: dir, files: files}, nil
}

// Acquire claims the playback device. Any facing is accepted.
func (p *DirectoryProvider) Acquire(_ context.Context, _ Facing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquired {
		return NewError(KindDeviceBusy, errors.New("directory camera already acquired"))
	}
	p.acquired = true
	return nil
}

// Snapshot serves the next file as a camera frame.
func (p *DirectoryProvider) Snapshot(_ context.Context) (report.Photo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.acquired {
		return report.Photo{}, NewError(KindCaptureFailed, errors.New("directory camera not acquired"))
	}

	path := p.files[p.next%len(p.files)]
	p.next++

	photo, err := report.PhotoFromFile(path, p.clock.Now())
	if err != nil {
		return report.Photo{}, NewError(KindCaptureFailed, err)
	}
	photo.Source = report.PhotoSourceCamera
	return photo, nil
}

// Release frees the playback device.
func (p *DirectoryProvider) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired = false
	return nil
}

// FakeProvider is a scriptable camera for tests and demos. Zero value is a
// working rear camera serving one-byte frames.
type FakeProvider struct {
	// AcquireErrs maps a facing to the error Acquire returns for it.
	AcquireErrs map[Facing]error
	// SnapshotErr, when set, fails every Snapshot.
	SnapshotErr error
	// Frames are served in order; when exhausted the last frame repeats.
	// An empty slice serves a default frame.
	Frames []report.Photo

	mu           sync.Mutex
	acquired     bool
	granted      Facing
	snapshots    int
	acquireCalls int
	releaseCalls int
}

func (p *FakeProvider) Acquire(_ context.Context, facing Facing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquireCalls++
	if err := p.AcquireErrs[facing]; err != nil {
		return err
	}
	p.acquired = true
	p.granted = facing
	return nil
}

func (p *FakeProvider) Snapshot(_ context.Context) (report.Photo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SnapshotErr != nil {
		return report.Photo{}, p.SnapshotErr
	}
	if !p.acquired {
		return report.Photo{}, NewError(KindCaptureFailed, errors.New("fake camera not acquired"))
	}

	frame := report.Photo{Data: []byte{0xff}, MimeType: "image/jpeg"}
	if len(p.Frames) > 0 {
		i := p.snapshots
		if i >= len(p.Frames) {
			i = len(p.Frames) - 1
		}
		frame = p.Frames[i]
	}
	p.snapshots++
	return frame, nil
}

func (p *FakeProvider) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseCalls++
	p.acquired = false
	return nil
}

// Granted returns the facing the last successful Acquire granted.
func (p *FakeProvider) Granted() Facing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

// AcquireCalls returns how many times Acquire ran, successful or not.
func (p *FakeProvider) AcquireCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquireCalls
}

// Snapshots returns how many frames were served.
func (p *FakeProvider) Snapshots() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshots
}

// ReleaseCalls returns how many times Release ran.
func (p *FakeProvider) ReleaseCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releaseCalls
}
