// Package export writes finalized report records to disk. The JSON file is
// the system's only durable output; there is no server to submit to.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

// Exporter serializes records into a directory, one file per submission.
type Exporter struct {
	dir      string
	compress bool
	logger   *slog.Logger
}

// New creates an exporter writing into dir, creating it if needed. With
// compress set, files are gzip-compressed and named with a .gz suffix.
func New(dir string, compress bool, logger *slog.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating export directory: %w", err)
	}
	return &Exporter{dir: dir, compress: compress, logger: logger}, nil
}

// Path returns the file the given record would be written to.
func (e *Exporter) Path(rec report.Record) string {
	name := fmt.Sprintf("report_%s.json", rec.ReportID)
	if e.compress {
		name += ".gz"
	}
	return filepath.Join(e.dir, name)
}

// Submit writes the record. It satisfies the reporting pipeline's sink
// contract: an error here keeps the pipeline in review for a retry.
func (e *Exporter) Submit(ctx context.Context, rec report.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing report %s: %w", rec.ReportID, err)
	}
	data = append(data, '\n')

	if e.compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("error compressing report %s: %w", rec.ReportID, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("error compressing report %s: %w", rec.ReportID, err)
		}
		data = buf.Bytes()
	}

	path := e.Path(rec)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing report file: %w", err)
	}

	e.logger.Info("report exported",
		slog.String("report_id", rec.ReportID),
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return nil
}
