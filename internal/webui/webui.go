// Package webui serves the small operator-facing web surface: downloads of
// exported report files and a debug view over the loaded catalog data.
package webui

import (
	"net/http"

	"github.com/ronaldwopara/lrt-buddies-app/internal/app"
)

// WebUI wires the application container into the web handlers.
type WebUI struct {
	*app.Application
}

// SetRoutes registers the web endpoints on mux.
func (webUI *WebUI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /reports/{file}", webUI.reportsHandler)
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
}
