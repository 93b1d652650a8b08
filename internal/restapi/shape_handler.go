package restapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/ronaldwopara/lrt-buddies-app/catalogdb"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/models"
)

// shapeHandler returns a line's geometry as an encoded polyline plus
// decoded waypoints.
func (api *RestAPI) shapeHandler(w http.ResponseWriter, r *http.Request) {
	lineID := r.PathValue("lineID")
	if _, err := catalog.ParseLine(lineID); err != nil {
		api.sendNotFound(w, r)
		return
	}

	shape, err := api.CatalogDB.Queries.GetShape(r.Context(), lineID)
	if errors.Is(err, sql.ErrNoRows) {
		api.sendNotFound(w, r)
		return
	} else if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	points, err := catalogdb.DecodeShape(shape.EncodedPolyline)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, map[string]interface{}{
		"entry": models.ShapeEntry{
			LineID:          shape.LineID,
			EncodedPolyline: shape.EncodedPolyline,
			Points:          points,
		},
	})
}
