package restapi

import (
	"net/http"

	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/models"
)

// stationsForLineHandler lists a line's stations in line order.
func (api *RestAPI) stationsForLineHandler(w http.ResponseWriter, r *http.Request) {
	lineID := r.PathValue("lineID")
	if _, err := catalog.ParseLine(lineID); err != nil {
		api.sendNotFound(w, r)
		return
	}

	rows, err := api.CatalogDB.Queries.ListStationsByLine(r.Context(), lineID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entries := make([]models.StationEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.StationEntry{
			Name:     row.Name,
			Position: int(row.Position),
		})
	}

	api.sendResponse(w, r, map[string]interface{}{
		"lineId": lineID,
		"list":   entries,
	})
}
