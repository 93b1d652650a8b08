package webui

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/ronaldwopara/lrt-buddies-app/internal/appconf"
)

//go:embed debug_index.html
var templateFS embed.FS

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		// Log the actual error server-side
		slog.Error("failed to parse debug template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	err = tmpl.Execute(w, dataStruct)
	if err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// debugIndexHandler dumps the loaded catalog data for inspection. Hidden in
// production.
func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}
	dataType := r.URL.Query().Get("dataType")

	ctx := r.Context()

	var data interface{}
	var title string
	var err error

	switch dataType {
	case "lines":
		data, err = webUI.CatalogDB.Queries.ListLines(ctx)
		title = "Catalog - Lines"
	case "stations":
		stations := map[string]interface{}{}
		var lines []string
		lines, err = lineIDs(ctx, webUI)
		if err == nil {
			for _, lineID := range lines {
				stations[lineID], err = webUI.CatalogDB.Queries.ListStationsByLine(ctx, lineID)
				if err != nil {
					break
				}
			}
		}
		data = stations
		title = "Catalog - Stations"
	case "shapes":
		shapes := map[string]interface{}{}
		var lines []string
		lines, err = lineIDs(ctx, webUI)
		if err == nil {
			for _, lineID := range lines {
				shapes[lineID], err = webUI.CatalogDB.Queries.GetShape(ctx, lineID)
				if err != nil {
					break
				}
			}
		}
		data = shapes
		title = "Catalog - Shapes"
	case "incidents":
		data = webUI.Incidents.All()
		title = "Incidents"
	default:
		data = map[string]string{
			"error": "Please use one of the following: lines, stations, shapes, incidents.",
		}
		title = "Choose a data type"
	}

	if err != nil {
		slog.Error("failed to load debug data", "dataType", dataType, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeDebugData(w, title, data)
}

func lineIDs(ctx context.Context, webUI *WebUI) ([]string, error) {
	rows, err := webUI.CatalogDB.Queries.ListLines(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}
