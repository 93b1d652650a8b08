package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ronaldwopara/lrt-buddies-app/catalogdb"
	"github.com/ronaldwopara/lrt-buddies-app/internal/app"
	"github.com/ronaldwopara/lrt-buddies-app/internal/appconf"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/incidents"
	"github.com/ronaldwopara/lrt-buddies-app/internal/logging"
	"github.com/ronaldwopara/lrt-buddies-app/internal/metrics"
	"github.com/ronaldwopara/lrt-buddies-app/internal/restapi"
	"github.com/ronaldwopara/lrt-buddies-app/internal/session"
	"github.com/ronaldwopara/lrt-buddies-app/internal/webui"
)

// dbStatsInterval is how often connection pool stats are sampled into the
// metrics registry.
const dbStatsInterval = 15 * time.Second

// BuildApplication assembles the dependency container: logger, clock,
// metrics, the seeded catalog database, the incident index, and the rider
// session.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	logger := logging.NewLogger(cfg.Verbose)
	clk := clock.RealClock{}

	client, err := catalogdb.NewClient(catalogdb.NewConfig(cfg.CatalogDBPath, cfg.Env, cfg.Verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := client.Seed(context.Background()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to seed catalog database: %w", err)
	}

	var stations catalog.Stations = catalog.NewStatic()
	if cfg.GTFSPath != "" {
		snapshot, err := catalog.FromGTFSFile(cfg.GTFSPath, logger)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to load GTFS catalog: %w", err)
		}
		stations = snapshot.Catalog()
	}

	index, err := incidents.FromCatalogDB(context.Background(), client.Queries)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}

	m := metrics.NewWithLogger(logger)
	m.StartDBStatsCollector(client.DB, dbStatsInterval)

	return &app.Application{
		Config:    cfg,
		Logger:    logger,
		Clock:     clk,
		Metrics:   m,
		Catalog:   stations,
		CatalogDB: client,
		Incidents: index,
		Session:   session.New(clk),
	}, nil
}

// CreateServer builds the HTTP server serving the companion API plus the
// operator web surface.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)
	webUI := &webui.WebUI{Application: coreApp}

	webMux := http.NewServeMux()
	webUI.SetRoutes(webMux)

	// The API handler carries its own middleware chain; the web surface
	// stays outside of it.
	mux := http.NewServeMux()
	mux.Handle("/reports/", webMux)
	mux.Handle("/debug", webMux)
	mux.Handle("/", api.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return srv, api
}

// appFlags are the CLI flags shared by the subcommands.
type appFlags struct {
	env             string
	verbose         bool
	port            int
	rateLimit       int
	dbPath          string
	gtfsPath        string
	outputDir       string
	compressExports bool
}

func (f *appFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.env, "env", "development", "runtime environment: development, test, or production")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVar(&f.dbPath, "db", "lrtbuddies.db", "path to the catalog SQLite database")
	cmd.Flags().StringVar(&f.gtfsPath, "gtfs", "", "optional GTFS zip to build the station catalog from")
}

func (f *appFlags) toConfig() appconf.Config {
	return appconf.Config{
		Env:             appconf.EnvFlagToEnvironment(f.env),
		Verbose:         f.verbose,
		Port:            f.port,
		RateLimit:       f.rateLimit,
		CatalogDBPath:   f.dbPath,
		GTFSPath:        f.gtfsPath,
		OutputDir:       f.outputDir,
		CompressExports: f.compressExports,
	}
}
