package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ronaldwopara/lrt-buddies-app/catalogdb"
	"github.com/ronaldwopara/lrt-buddies-app/internal/app"
	"github.com/ronaldwopara/lrt-buddies-app/internal/appconf"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/incidents"
	"github.com/ronaldwopara/lrt-buddies-app/internal/models"
)

var apiTestTime = time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC)

// newTestAPI builds a RestAPI over a seeded in-memory catalog.
func newTestAPI(t *testing.T) *RestAPI {
	t.Helper()

	client, err := catalogdb.NewClient(catalogdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Seed(context.Background()))

	index, err := incidents.FromCatalogDB(context.Background(), client.Queries)
	require.NoError(t, err)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			RateLimit: 100,
		},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:     clock.NewMockClock(apiTestTime),
		Catalog:   catalog.NewStatic(),
		CatalogDB: client,
		Incidents: index,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// serveRequest runs one request through the full middleware chain.
func serveRequest(t *testing.T, api *RestAPI, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.0.2.1:51234"
	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, req)
	return w
}

// decodeEnvelope unmarshals the standard response envelope, returning data
// as a generic map.
func decodeEnvelope(t *testing.T, body io.Reader) (models.ResponseModel, map[string]interface{}) {
	t.Helper()

	var envelope models.ResponseModel
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))

	data, _ := envelope.Data.(map[string]interface{})
	return envelope, data
}
