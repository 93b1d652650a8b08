package restapi

import (
	"net/http"

	"github.com/ronaldwopara/lrt-buddies-app/internal/models"
)

// linesHandler lists the train lines in display order.
func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := api.CatalogDB.Queries.ListLines(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entries := make([]models.LineEntry, 0, len(rows))
	for _, row := range rows {
		stations, err := api.CatalogDB.Queries.ListStationsByLine(r.Context(), row.ID)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		entries = append(entries, models.LineEntry{
			ID:           row.ID,
			StationCount: len(stations),
		})
	}

	api.sendResponse(w, r, map[string]interface{}{"list": entries})
}
