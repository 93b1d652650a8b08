// Package restapi exposes the read-only companion API the map view talks
// to: train lines, station lists, line shapes, and incident markers. Report
// submission never goes through HTTP; reports are exported locally.
package restapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ronaldwopara/lrt-buddies-app/internal/app"
)

// catalogCacheSeconds is the Cache-Control max-age for the static catalog
// endpoints; the seed only changes on deploy.
const catalogCacheSeconds = 3600

// RestAPI wires the application container into HTTP handlers.
type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates the API surface for the given application.
func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(
			application.Config.RateLimit, time.Second, application.Clock),
	}
}

// Shutdown stops the API's background goroutines.
func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
}

// Handler builds the routed handler with the full middleware chain:
// request id, logging, metrics, then per-client rate limiting.
func (api *RestAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	api.SetRoutes(mux)

	var handler http.Handler = mux
	handler = api.rateLimiter.Handler()(handler)
	handler = MetricsHandler(api.Metrics)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)

	return handler
}

// SetRoutes registers every endpoint on mux.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	cached := func(h http.HandlerFunc) http.Handler {
		return CacheControlMiddleware(catalogCacheSeconds, h)
	}

	mux.Handle("GET /api/where/lines.json", cached(api.linesHandler))
	mux.Handle("GET /api/where/stations-for-line/{lineID}.json", cached(api.stationsForLineHandler))
	mux.Handle("GET /api/where/shape/{lineID}.json", cached(api.shapeHandler))
	mux.HandleFunc("GET /api/where/incidents.json", api.incidentsHandler)
	mux.HandleFunc("GET /api/where/incidents-for-location.json", api.incidentsForLocationHandler)
	mux.HandleFunc("GET /health", api.healthHandler)

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(
			api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}
