// Package app holds the top-level dependency container shared by the HTTP
// handlers, middleware, and CLI commands.
package app

import (
	"log/slog"

	"github.com/ronaldwopara/lrt-buddies-app/catalogdb"
	"github.com/ronaldwopara/lrt-buddies-app/internal/appconf"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/incidents"
	"github.com/ronaldwopara/lrt-buddies-app/internal/metrics"
	"github.com/ronaldwopara/lrt-buddies-app/internal/session"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// middleware, and CLI commands.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Catalog   catalog.Stations
	CatalogDB *catalogdb.Client
	Incidents *incidents.Index
	Session   *session.Session
}
