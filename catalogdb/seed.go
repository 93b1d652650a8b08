package catalogdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/ronaldwopara/lrt-buddies-app/internal/logging"
)

// Fixed Edmonton LRT catalog seed. Capital and Metro share the downtown and
// university trunk stations.
var seedStations = map[string][]string{
	"Capital": {
		"Clareview", "Belvedere", "Coliseum", "Stadium", "Churchill", "Central",
		"Bay/Enterprise Square", "Corona", "Government Centre", "University",
		"Health Sciences/Jubilee", "McKernan/Belgravia", "South Campus/Fort Edmonton Park",
		"Southgate", "Century Park",
	},
	"Metro": {
		"NAIT", "Kingsway", "MacEwan", "Churchill", "Central", "Bay/Enterprise Square",
		"Corona", "Government Centre", "University", "Health Sciences/Jubilee",
	},
	"Valley": {
		"Mill Woods", "Davies", "Muttart", "Downtown", "West Edmonton Mall",
	},
}

// seedLineOrder fixes the display order of the lines.
var seedLineOrder = []string{"Capital", "Metro", "Valley"}

// Simplified line geometries as [lat, lon] waypoints, northeast to south.
var seedShapes = map[string][][]float64{
	"Capital": {
		{53.5580, -113.4150},
		{53.5444, -113.4909},
		{53.5232, -113.5263},
		{53.4577, -113.5125},
	},
	"Metro": {
		{53.5675, -113.5050},
		{53.5571, -113.5006},
		{53.5444, -113.4909},
		{53.5232, -113.5263},
	},
	"Valley": {
		{53.5444, -113.4909},
		{53.5349, -113.4712},
		{53.4630, -113.4640},
	},
}

// Incident seed mirroring the mock markers the map view ships with.
var seedIncidents = []Incident{
	{
		ID:         1,
		Title:      "Elevator is Broken",
		LineID:     "Metro",
		Station:    "Churchill",
		Category:   "Accessibility",
		Status:     "resolved",
		Lat:        53.5444,
		Lon:        -113.4909,
		ReportedAt: "2025-11-02T10:30:00Z",
	},
	{
		ID:         2,
		Title:      "Slippery Ramps",
		LineID:     "Capital",
		Station:    "Clareview",
		Category:   "Safety",
		Status:     "pending",
		Lat:        53.5580,
		Lon:        -113.4150,
		ReportedAt: "2025-11-02T14:20:00Z",
	},
	{
		ID:         3,
		Title:      "Broken Glass",
		LineID:     "Valley",
		Station:    "Mill Woods",
		Category:   "Safety",
		Status:     "critical",
		Lat:        53.4630,
		Lon:        -113.4640,
		ReportedAt: "2025-11-02T16:45:00Z",
	},
	{
		ID:         4,
		Title:      "Wheelchair Access Blocked",
		LineID:     "Metro",
		Station:    "NAIT",
		Category:   "Accessibility",
		Status:     "pending",
		Lat:        53.5675,
		Lon:        -113.5050,
		ReportedAt: "2025-11-02T12:15:00Z",
	},
}

// Seed loads the embedded catalog into the database. A hash of the seed data
// is stored alongside it; re-seeding with unchanged data is a no-op, and
// changed data clears and reloads the catalog.
func (c *Client) Seed(ctx context.Context) error {
	logger := slog.Default().With(slog.String("component", "catalog_seeder"))

	startTime := time.Now()
	defer func() {
		c.seedRuntime = time.Since(startTime)
		logging.LogOperation(logger, "catalog_seed_completed",
			slog.Duration("duration", c.seedRuntime))
	}()

	hashStr := seedHash()

	existing, err := c.Queries.GetSeedMetadata(ctx)
	if err == nil {
		if existing.SeedHash == hashStr {
			logging.LogOperation(logger, "catalog_seed_unchanged_skipping",
				slog.String("hash", hashStr[:8]))
			return nil
		}
		logging.LogOperation(logger, "catalog_seed_changed_reseeding",
			slog.String("old_hash", existing.SeedHash[:8]),
			slog.String("new_hash", hashStr[:8]))
		if err := c.Queries.ClearCatalog(ctx); err != nil {
			return fmt.Errorf("error clearing existing catalog: %w", err)
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("error checking seed metadata: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	qtx := c.Queries.WithTx(tx)

	for pos, lineID := range seedLineOrder {
		if err := qtx.CreateLine(ctx, Line{ID: lineID, Position: int64(pos)}); err != nil {
			return fmt.Errorf("error seeding line %s: %w", lineID, err)
		}
		for i, name := range seedStations[lineID] {
			station := Station{LineID: lineID, Name: name, Position: int64(i)}
			if err := qtx.CreateStation(ctx, station); err != nil {
				return fmt.Errorf("error seeding station %s/%s: %w", lineID, name, err)
			}
		}
		encoded := string(polyline.EncodeCoords(seedShapes[lineID]))
		if err := qtx.UpsertShape(ctx, Shape{LineID: lineID, EncodedPolyline: encoded}); err != nil {
			return fmt.Errorf("error seeding shape for %s: %w", lineID, err)
		}
	}

	for _, incident := range seedIncidents {
		if err := qtx.CreateIncident(ctx, incident); err != nil {
			return fmt.Errorf("error seeding incident %d: %w", incident.ID, err)
		}
	}

	meta := SeedMetadata{
		SeedHash: hashStr,
		SeededAt: startTime.UTC().Format(time.RFC3339),
	}
	if err := qtx.UpsertSeedMetadata(ctx, meta); err != nil {
		return fmt.Errorf("error recording seed metadata: %w", err)
	}

	return tx.Commit()
}

// DecodeShape decodes an encoded polyline back into [lat, lon] waypoints.
func DecodeShape(encoded string) ([][]float64, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("error decoding shape polyline: %w", err)
	}
	return coords, nil
}

// seedHash fingerprints the embedded seed so unchanged data can skip the
// reload.
func seedHash() string {
	var b strings.Builder
	for _, lineID := range seedLineOrder {
		b.WriteString(lineID)
		b.WriteString("|")
		b.WriteString(strings.Join(seedStations[lineID], ","))
		b.WriteString("|")
		b.Write(polyline.EncodeCoords(seedShapes[lineID]))
		b.WriteString("\n")
	}
	for _, incident := range seedIncidents {
		fmt.Fprintf(&b, "%d|%s|%s|%s|%s|%s|%f|%f|%s\n",
			incident.ID, incident.Title, incident.LineID, incident.Station,
			incident.Category, incident.Status, incident.Lat, incident.Lon,
			incident.ReportedAt)
	}
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}
