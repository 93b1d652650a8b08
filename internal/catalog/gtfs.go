package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/OneBusAway/go-gtfs"

	"github.com/ronaldwopara/lrt-buddies-app/internal/logging"
)

// Snapshot is the result of a GTFS import: the station list per line plus the
// line geometry, ready to be loaded into the sqlite catalog or used directly.
type Snapshot struct {
	StationsByLine map[Line][]string
	// ShapesByLine holds [lat, lon] coordinate pairs per line, taken from
	// the longest shape of a trip on that line's route.
	ShapesByLine map[Line][][]float64
}

// Catalog returns an in-memory catalog view of the snapshot.
func (s *Snapshot) Catalog() *Static {
	return NewStaticFrom(s.StationsByLine)
}

// FromGTFSFile parses a static GTFS zip and extracts a catalog snapshot for
// the three LRT lines. Routes are matched to lines by name; routes that match
// no line are ignored.
func FromGTFSFile(path string, logger *slog.Logger) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS file: %w", err)
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	return fromStatic(staticData, logger)
}

func fromStatic(staticData *gtfs.Static, logger *slog.Logger) (*Snapshot, error) {
	routeLines := make(map[string]Line)
	for _, route := range staticData.Routes {
		if line, ok := lineForRouteName(route.ShortName, route.LongName); ok {
			routeLines[route.Id] = line
		}
	}
	if len(routeLines) == 0 {
		return nil, fmt.Errorf("GTFS feed contains no routes matching an LRT line")
	}

	snapshot := &Snapshot{
		StationsByLine: make(map[Line][]string),
		ShapesByLine:   make(map[Line][][]float64),
	}

	// Per line, take the longest trip as the canonical stop ordering and the
	// longest shape as the line geometry.
	type lineBest struct {
		stops  []string
		points [][]float64
	}
	best := make(map[Line]*lineBest)

	for _, trip := range staticData.Trips {
		if trip.Route == nil {
			continue
		}
		line, ok := routeLines[trip.Route.Id]
		if !ok {
			continue
		}
		b := best[line]
		if b == nil {
			b = &lineBest{}
			best[line] = b
		}

		if len(trip.StopTimes) > len(b.stops) {
			stops := make([]string, 0, len(trip.StopTimes))
			for _, st := range trip.StopTimes {
				if st.Stop == nil {
					continue
				}
				stops = append(stops, stationName(st.Stop.Name))
			}
			b.stops = dedupeOrdered(stops)
		}

		if trip.Shape != nil && len(trip.Shape.Points) > len(b.points) {
			points := make([][]float64, 0, len(trip.Shape.Points))
			for _, pt := range trip.Shape.Points {
				points = append(points, []float64{pt.Latitude, pt.Longitude})
			}
			b.points = points
		}
	}

	for line, b := range best {
		snapshot.StationsByLine[line] = b.stops
		if len(b.points) > 0 {
			snapshot.ShapesByLine[line] = b.points
		}
		logging.LogOperation(logger, "gtfs_line_imported",
			slog.String("line", string(line)),
			slog.Int("stations", len(b.stops)),
			slog.Int("shape_points", len(b.points)))
	}

	return snapshot, nil
}

// lineForRouteName maps a GTFS route name onto one of the LRT lines.
func lineForRouteName(shortName, longName string) (Line, bool) {
	name := strings.ToLower(shortName + " " + longName)
	switch {
	case strings.Contains(name, "capital"):
		return LineCapital, true
	case strings.Contains(name, "metro"):
		return LineMetro, true
	case strings.Contains(name, "valley"):
		return LineValley, true
	}
	return "", false
}

// stationName normalizes a GTFS stop name to a station name: platform
// qualifiers like "Churchill Station" or "Churchill Stop" are stripped.
func stationName(stopName string) string {
	name := strings.TrimSpace(stopName)
	for _, suffix := range []string{" Station", " Stop", " LRT"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}

func dedupeOrdered(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// SortedLines returns the snapshot's lines in stable display order.
func (s *Snapshot) SortedLines() []Line {
	lines := make([]Line, 0, len(s.StationsByLine))
	for line := range s.StationsByLine {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}
