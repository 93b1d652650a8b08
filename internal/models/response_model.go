// Package models defines the JSON envelope and entry shapes of the
// companion REST API.
package models

import "github.com/ronaldwopara/lrt-buddies-app/internal/clock"

// ResponseModel is the envelope every API response is wrapped in.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
	Data        interface{} `json:"data,omitempty"`
}

// ResponseCurrentTime returns the envelope timestamp in Unix milliseconds.
func ResponseCurrentTime(c clock.Clock) int64 {
	return c.NowUnixMilli()
}

// LineEntry is one train line in API responses.
type LineEntry struct {
	ID           string `json:"id"`
	StationCount int    `json:"stationCount"`
}

// StationEntry is one station on a line, in line order.
type StationEntry struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// ShapeEntry is a line's geometry: the encoded polyline plus decoded
// [lat, lon] waypoints.
type ShapeEntry struct {
	LineID          string      `json:"lineId"`
	EncodedPolyline string      `json:"encodedPolyline"`
	Points          [][]float64 `json:"points"`
}

// IncidentEntry is one incident marker for the map view.
type IncidentEntry struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	TrainLine string  `json:"trainLine"`
	Station   string  `json:"station"`
	Category  string  `json:"category"`
	Status    string  `json:"status"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp string  `json:"timestamp"`
	DistanceM float64 `json:"distanceM,omitempty"`
}
