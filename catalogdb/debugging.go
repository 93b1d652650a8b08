package catalogdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davecgh/go-spew/spew"

	"github.com/ronaldwopara/lrt-buddies-app/internal/logging"
)

// TableCounts returns per-table row counts for the catalog tables.
func (c *Client) TableCounts() (map[string]int, error) {
	rows, err := c.DB.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows,
		slog.Default().With(slog.String("component", "debugging")),
		"database_rows")

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tableCountQueries := map[string]string{
		"lines":         "SELECT COUNT(*) FROM lines",
		"stations":      "SELECT COUNT(*) FROM stations",
		"shapes":        "SELECT COUNT(*) FROM shapes",
		"incidents":     "SELECT COUNT(*) FROM incidents",
		"seed_metadata": "SELECT COUNT(*) FROM seed_metadata",
	}

	counts := make(map[string]int)
	for _, table := range tables {
		query, ok := tableCountQueries[table]
		if !ok {
			continue
		}

		var count int
		err := c.DB.QueryRow(query).Scan(&count)
		if err != nil {
			return nil, err
		}
		counts[table] = count
	}

	return counts, nil
}

// DumpCatalog returns a verbose rendering of every seeded row, for
// development inspection only.
func (c *Client) DumpCatalog(ctx context.Context) (string, error) {
	lines, err := c.Queries.ListLines(ctx)
	if err != nil {
		return "", err
	}

	dump := map[string]interface{}{"lines": lines}
	for _, line := range lines {
		stations, err := c.Queries.ListStationsByLine(ctx, line.ID)
		if err != nil {
			return "", err
		}
		dump["stations/"+line.ID] = stations
	}

	incidents, err := c.Queries.ListIncidents(ctx)
	if err != nil {
		return "", err
	}
	dump["incidents"] = incidents

	return spew.Sdump(dump), nil
}
