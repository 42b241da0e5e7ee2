package api

import "time"

type captureResponse struct {
	ID          string    `json:"id"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Screens     int       `json:"screens"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	CapturedAt  time.Time `json:"capturedAt"`
	Location    string    `json:"location,omitempty"`
}

type statusResponse struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	LastError   string `json:"lastError,omitempty"`
	Message     string `json:"message"`
	LastID      string `json:"lastId,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type boundsPayload struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type screenPayload struct {
	Index  int           `json:"index"`
	Bounds boundsPayload `json:"bounds"`
}

type screensResponse struct {
	Screens []screenPayload `json:"screens"`
}
