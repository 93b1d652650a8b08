package restapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/incidents"
	"github.com/ronaldwopara/lrt-buddies-app/internal/models"
	"github.com/ronaldwopara/lrt-buddies-app/internal/utils"
)

// incidentsHandler lists every incident marker, optionally restricted to one
// line via ?line=.
func (api *RestAPI) incidentsHandler(w http.ResponseWriter, r *http.Request) {
	var items []incidents.Incident
	if lineParam := r.URL.Query().Get("line"); lineParam != "" {
		line, err := catalog.ParseLine(lineParam)
		if err != nil {
			api.sendError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		items = api.Incidents.ByLine(line)
	} else {
		items = api.Incidents.All()
	}

	api.sendResponse(w, r, map[string]interface{}{
		"list": incidentEntries(items, nil),
	})
}

// incidentsForLocationHandler lists the incidents near a coordinate, closest
// first, within an optional radius (meters, defaulting to the map view's
// 2km).
func (api *RestAPI) incidentsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "lat is required and must be a number")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "lon is required and must be a number")
		return
	}

	radius := incidents.DefaultNearbyRadiusMeters
	if radiusParam := r.URL.Query().Get("radius"); radiusParam != "" {
		radius, err = strconv.ParseFloat(radiusParam, 64)
		if err != nil || radius <= 0 {
			api.sendError(w, r, http.StatusBadRequest, "radius must be a positive number")
			return
		}
	}

	items := api.Incidents.Nearby(lat, lon, radius)
	origin := &[2]float64{lat, lon}

	api.sendResponse(w, r, map[string]interface{}{
		"lat":     lat,
		"lon":     lon,
		"radiusM": radius,
		"list":    incidentEntries(items, origin),
	})
}

// incidentEntries converts index items into API entries; with an origin the
// exact distance to each incident is included.
func incidentEntries(items []incidents.Incident, origin *[2]float64) []models.IncidentEntry {
	entries := make([]models.IncidentEntry, 0, len(items))
	for _, item := range items {
		entry := models.IncidentEntry{
			ID:        item.ID,
			Title:     item.Title,
			TrainLine: string(item.Line),
			Station:   item.Station,
			Category:  item.Category,
			Status:    item.Status,
			Lat:       item.Lat,
			Lon:       item.Lon,
			Timestamp: item.ReportedAt.UTC().Format(time.RFC3339),
		}
		if origin != nil {
			entry.DistanceM = utils.Distance(origin[0], origin[1], item.Lat, item.Lon)
		}
		entries = append(entries, entry)
	}
	return entries
}
