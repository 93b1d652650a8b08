package restapi

import (
	"encoding/json"
	"net/http"
)

// HealthResponse reports whether the API can serve catalog data.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	setJSONResponseType(&w)

	if api.Application == nil || api.CatalogDB == nil || api.CatalogDB.DB == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "catalog database is not configured",
		})
		return
	}

	if err := api.CatalogDB.DB.PingContext(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "catalog database is unreachable",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}
