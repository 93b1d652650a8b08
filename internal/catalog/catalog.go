// Package catalog provides the static station catalog for the Edmonton LRT
// network: the fixed set of train lines and the ordered station list belonging
// to each line. The catalog is the authority the report draft validates its
// dependent station field against.
package catalog

import "fmt"

// Line identifies one of the fixed LRT train lines.
type Line string

const (
	LineCapital Line = "Capital"
	LineMetro   Line = "Metro"
	LineValley  Line = "Valley"
)

// Lines returns all known lines in display order.
func Lines() []Line {
	return []Line{LineCapital, LineMetro, LineValley}
}

// Valid reports whether l is one of the known lines.
func (l Line) Valid() bool {
	switch l {
	case LineCapital, LineMetro, LineValley:
		return true
	}
	return false
}

// ParseLine converts a user-supplied string into a Line.
func ParseLine(s string) (Line, error) {
	l := Line(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown train line %q", s)
	}
	return l, nil
}

// Stations is the read surface the reporting pipeline needs from a catalog.
// Implementations: Static (embedded seed data), the sqlite-backed catalog in
// catalogdb, and catalogs built from a GTFS feed.
type Stations interface {
	// StationsFor returns the ordered station names for a line. The result
	// is empty for unknown lines.
	StationsFor(line Line) []string
	// HasStation reports whether name is a station on the given line.
	HasStation(line Line, name string) bool
}

// stationsByLine is the embedded seed catalog. Capital and Metro share the
// downtown/university trunk stations.
var stationsByLine = map[Line][]string{
	LineCapital: {
		"Clareview", "Belvedere", "Coliseum", "Stadium", "Churchill", "Central",
		"Bay/Enterprise Square", "Corona", "Government Centre", "University",
		"Health Sciences/Jubilee", "McKernan/Belgravia", "South Campus/Fort Edmonton Park",
		"Southgate", "Century Park",
	},
	LineMetro: {
		"NAIT", "Kingsway", "MacEwan", "Churchill", "Central", "Bay/Enterprise Square",
		"Corona", "Government Centre", "University", "Health Sciences/Jubilee",
	},
	LineValley: {
		"Mill Woods", "Davies", "Muttart", "Downtown", "West Edmonton Mall",
	},
}

// Static is an in-memory catalog.
type Static struct {
	byLine map[Line][]string
}

// NewStatic returns a catalog backed by the embedded seed data.
func NewStatic() *Static {
	return &Static{byLine: stationsByLine}
}

// NewStaticFrom builds a catalog from an explicit line-to-stations mapping,
// e.g. one produced by a GTFS import.
func NewStaticFrom(byLine map[Line][]string) *Static {
	return &Static{byLine: byLine}
}

// StationsFor returns the ordered station names for a line.
func (c *Static) StationsFor(line Line) []string {
	stations := c.byLine[line]
	out := make([]string, len(stations))
	copy(out, stations)
	return out
}

// HasStation reports whether name is a station on the given line.
func (c *Static) HasStation(line Line, name string) bool {
	for _, s := range c.byLine[line] {
		if s == name {
			return true
		}
	}
	return false
}
