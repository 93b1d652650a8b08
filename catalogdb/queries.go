package catalogdb

// Hand-written query implementations for the catalog schema.
//
// IMPORTANT: If the 'lines', 'stations', 'shapes' or 'incidents' table
// schemas change, the SQL and Go types in this file must be updated manually
// to match.

import (
	"context"
	"database/sql"
)

// DBTX is the query execution surface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New wraps db with the catalog query set.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// WithTx returns the query set bound to an open transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Line struct {
	ID       string
	Position int64
}

type Station struct {
	LineID   string
	Name     string
	Position int64
}

type Shape struct {
	LineID          string
	EncodedPolyline string
}

type Incident struct {
	ID         int64
	Title      string
	LineID     string
	Station    string
	Category   string
	Status     string
	Lat        float64
	Lon        float64
	ReportedAt string
}

type SeedMetadata struct {
	SeedHash string
	SeededAt string
}

const listLines = `
SELECT id, position
FROM lines
ORDER BY position
`

func (q *Queries) ListLines(ctx context.Context) ([]Line, error) {
	rows, err := q.db.QueryContext(ctx, listLines)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []Line
	for rows.Next() {
		var i Line
		if err := rows.Scan(&i.ID, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listStationsByLine = `
SELECT line_id, name, position
FROM stations
WHERE line_id = ?
ORDER BY position
`

func (q *Queries) ListStationsByLine(ctx context.Context, lineID string) ([]Station, error) {
	rows, err := q.db.QueryContext(ctx, listStationsByLine, lineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []Station
	for rows.Next() {
		var i Station
		if err := rows.Scan(&i.LineID, &i.Name, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getShape = `
SELECT line_id, encoded_polyline
FROM shapes
WHERE line_id = ?
`

func (q *Queries) GetShape(ctx context.Context, lineID string) (Shape, error) {
	var i Shape
	err := q.db.QueryRowContext(ctx, getShape, lineID).Scan(&i.LineID, &i.EncodedPolyline)
	return i, err
}

const listIncidents = `
SELECT id, title, line_id, station, category, status, lat, lon, reported_at
FROM incidents
ORDER BY reported_at DESC, id
`

func (q *Queries) ListIncidents(ctx context.Context) ([]Incident, error) {
	return q.queryIncidents(ctx, listIncidents)
}

const listIncidentsByLine = `
SELECT id, title, line_id, station, category, status, lat, lon, reported_at
FROM incidents
WHERE line_id = ?
ORDER BY reported_at DESC, id
`

func (q *Queries) ListIncidentsByLine(ctx context.Context, lineID string) ([]Incident, error) {
	return q.queryIncidents(ctx, listIncidentsByLine, lineID)
}

func (q *Queries) queryIncidents(ctx context.Context, query string, args ...interface{}) ([]Incident, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []Incident
	for rows.Next() {
		var i Incident
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.LineID,
			&i.Station,
			&i.Category,
			&i.Status,
			&i.Lat,
			&i.Lon,
			&i.ReportedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createLine = `
INSERT INTO lines (id, position)
VALUES (?, ?)
`

func (q *Queries) CreateLine(ctx context.Context, arg Line) error {
	_, err := q.db.ExecContext(ctx, createLine, arg.ID, arg.Position)
	return err
}

const createStation = `
INSERT INTO stations (line_id, name, position)
VALUES (?, ?, ?)
`

func (q *Queries) CreateStation(ctx context.Context, arg Station) error {
	_, err := q.db.ExecContext(ctx, createStation, arg.LineID, arg.Name, arg.Position)
	return err
}

const upsertShape = `
INSERT INTO shapes (line_id, encoded_polyline)
VALUES (?, ?)
ON CONFLICT (line_id) DO UPDATE SET encoded_polyline = excluded.encoded_polyline
`

func (q *Queries) UpsertShape(ctx context.Context, arg Shape) error {
	_, err := q.db.ExecContext(ctx, upsertShape, arg.LineID, arg.EncodedPolyline)
	return err
}

const createIncident = `
INSERT INTO incidents (id, title, line_id, station, category, status, lat, lon, reported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateIncident(ctx context.Context, arg Incident) error {
	_, err := q.db.ExecContext(ctx, createIncident,
		arg.ID,
		arg.Title,
		arg.LineID,
		arg.Station,
		arg.Category,
		arg.Status,
		arg.Lat,
		arg.Lon,
		arg.ReportedAt,
	)
	return err
}

const getSeedMetadata = `
SELECT seed_hash, seeded_at
FROM seed_metadata
WHERE id = 1
`

func (q *Queries) GetSeedMetadata(ctx context.Context) (SeedMetadata, error) {
	var i SeedMetadata
	err := q.db.QueryRowContext(ctx, getSeedMetadata).Scan(&i.SeedHash, &i.SeededAt)
	return i, err
}

const upsertSeedMetadata = `
INSERT INTO seed_metadata (id, seed_hash, seeded_at)
VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET seed_hash = excluded.seed_hash, seeded_at = excluded.seeded_at
`

func (q *Queries) UpsertSeedMetadata(ctx context.Context, arg SeedMetadata) error {
	_, err := q.db.ExecContext(ctx, upsertSeedMetadata, arg.SeedHash, arg.SeededAt)
	return err
}

const clearCatalog = `
DELETE FROM incidents;
DELETE FROM shapes;
DELETE FROM stations;
DELETE FROM lines;
`

// ClearCatalog deletes every seeded row, child tables first.
func (q *Queries) ClearCatalog(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearCatalog)
	return err
}
