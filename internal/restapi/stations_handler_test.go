package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationsForLineHandler(t *testing.T) {
	api := newTestAPI(t)

	w := serveRequest(t, api, "/api/where/stations-for-line/Metro.json")
	assert.Equal(t, http.StatusOK, w.Code)

	_, data := decodeEnvelope(t, w.Body)
	assert.Equal(t, "Metro", data["lineId"])

	list, ok := data["list"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 10)

	first := list[0].(map[string]interface{})
	assert.Equal(t, float64(0), first["position"])

	var names []string
	for _, item := range list {
		names = append(names, item.(map[string]interface{})["name"].(string))
	}
	assert.Contains(t, names, "Churchill")
	assert.Contains(t, names, "NAIT")
}

func TestStationsForLineHandlerUnknownLine(t *testing.T) {
	api := newTestAPI(t)

	w := serveRequest(t, api, "/api/where/stations-for-line/Confederation.json")
	assert.Equal(t, http.StatusNotFound, w.Code)

	envelope, _ := decodeEnvelope(t, w.Body)
	assert.Equal(t, http.StatusNotFound, envelope.Code)
	assert.Equal(t, "resource not found", envelope.Text)
}
