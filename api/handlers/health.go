package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *schedule.Storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the schedule store answers.
type HealthHandler struct {
	store   Pinger
	version string
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

// ComponentStatus represents the health status of a component
type ComponentStatus struct {
	Status  string `json:"status"` // "healthy", "unhealthy", "disabled"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the overall health status
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	Timestamp  string                     `json:"timestamp"`
	Version    string                     `json:"version"`
}

func (h *HealthHandler) Handle(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:     "healthy",
		Components: map[string]ComponentStatus{"cron": {Status: "healthy"}},
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Version:    h.version,
	}

	switch {
	case h.store == nil:
		response.Components["storage"] = ComponentStatus{Status: "disabled", Message: "no schedule store configured"}
	default:
		if err := h.store.Ping(ctx); err != nil {
			response.Components["storage"] = ComponentStatus{Status: "unhealthy", Message: err.Error()}
			response.Status = "unhealthy"
		} else {
			response.Components["storage"] = ComponentStatus{Status: "healthy"}
		}
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, response)
}
