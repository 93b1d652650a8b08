// Package incidents holds the incident markers the map view renders and
// answers nearby-incident queries against a spatial index.
package incidents

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/rtree"

	"github.com/ronaldwopara/lrt-buddies-app/catalogdb"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/utils"
)

// DefaultNearbyRadiusMeters is the radius the map view uses when filtering
// incidents around the rider.
const DefaultNearbyRadiusMeters = 2000.0

// Incident is one reported problem pinned to a station.
type Incident struct {
	ID         int64
	Title      string
	Line       catalog.Line
	Station    string
	Category   string
	Status     string
	Lat        float64
	Lon        float64
	ReportedAt time.Time
}

// Index answers point and line queries over a fixed incident set. Safe for
// concurrent readers.
type Index struct {
	mu   sync.RWMutex
	tree rtree.RTreeG[Incident]
	all  []Incident
}

// NewIndex builds the spatial index over the given incidents.
func NewIndex(items []Incident) *Index {
	idx := &Index{all: make([]Incident, len(items))}
	copy(idx.all, items)
	for _, incident := range idx.all {
		point := [2]float64{incident.Lon, incident.Lat}
		idx.tree.Insert(point, point, incident)
	}
	return idx
}

// FromCatalogDB loads every incident row and indexes it.
func FromCatalogDB(ctx context.Context, queries *catalogdb.Queries) (*Index, error) {
	rows, err := queries.ListIncidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading incidents: %w", err)
	}

	items := make([]Incident, 0, len(rows))
	for _, row := range rows {
		line, err := catalog.ParseLine(row.LineID)
		if err != nil {
			return nil, fmt.Errorf("incident %d: %w", row.ID, err)
		}
		reportedAt, err := time.Parse(time.RFC3339, row.ReportedAt)
		if err != nil {
			return nil, fmt.Errorf("incident %d has bad timestamp %q: %w", row.ID, row.ReportedAt, err)
		}
		items = append(items, Incident{
			ID:         row.ID,
			Title:      row.Title,
			Line:       line,
			Station:    row.Station,
			Category:   row.Category,
			Status:     row.Status,
			Lat:        row.Lat,
			Lon:        row.Lon,
			ReportedAt: reportedAt,
		})
	}
	return NewIndex(items), nil
}

// All returns every incident, newest first.
func (x *Index) All() []Incident {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]Incident, len(x.all))
	copy(out, x.all)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	return out
}

// ByLine returns the incidents on one line, newest first.
func (x *Index) ByLine(line catalog.Line) []Incident {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []Incident
	for _, incident := range x.all {
		if incident.Line == line {
			out = append(out, incident)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	return out
}

// Nearby returns the incidents within radiusMeters of (lat, lon), closest
// first. The spatial index pre-filters with a bounding box; candidates then
// pass the exact distance check, so corner-of-the-box incidents beyond the
// radius are excluded.
func (x *Index) Nearby(lat, lon, radiusMeters float64) []Incident {
	x.mu.RLock()
	defer x.mu.RUnlock()

	bounds := utils.CalculateBounds(lat, lon, radiusMeters)

	type hit struct {
		incident Incident
		distance float64
	}
	var hits []hit
	x.tree.Search(
		[2]float64{bounds.MinLon, bounds.MinLat},
		[2]float64{bounds.MaxLon, bounds.MaxLat},
		func(_, _ [2]float64, incident Incident) bool {
			d := utils.Distance(lat, lon, incident.Lat, incident.Lon)
			if d <= radiusMeters {
				hits = append(hits, hit{incident: incident, distance: d})
			}
			return true
		},
	)

	sort.Slice(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	out := make([]Incident, len(hits))
	for i, h := range hits {
		out[i] = h.incident
	}
	return out
}
