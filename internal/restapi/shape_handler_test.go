package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeHandler(t *testing.T) {
	api := newTestAPI(t)

	w := serveRequest(t, api, "/api/where/shape/Metro.json")
	assert.Equal(t, http.StatusOK, w.Code)

	_, data := decodeEnvelope(t, w.Body)
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, "Metro", entry["lineId"])
	assert.NotEmpty(t, entry["encodedPolyline"])

	points, ok := entry["points"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, points)

	first, ok := points[0].([]interface{})
	require.True(t, ok)
	require.Len(t, first, 2)
	assert.InDelta(t, 53.5675, first[0].(float64), 0.001)
	assert.InDelta(t, -113.5050, first[1].(float64), 0.001)
}

func TestShapeHandlerUnknownLine(t *testing.T) {
	api := newTestAPI(t)

	w := serveRequest(t, api, "/api/where/shape/Crosstown.json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
