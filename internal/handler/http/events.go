package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/sse"
)

type EventHandler interface {
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type eventHandlerImpl struct {
	jwtService jwt.Service
	hub        *sse.Hub
	keepalive  time.Duration
}

func NewEventHandler(jwtService jwt.Service, hub *sse.Hub) EventHandler {
	return &eventHandlerImpl{jwtService: jwtService, hub: hub, keepalive: 30 * time.Second}
}

// StreamToken issues the short-lived token the browser passes to Stream.
func (h *eventHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(id.EmpID)
	if err != nil {
		slog.Error("Failed to generate SSE token", "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}
	response.Success(w, StreamTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream pushes leave notifications for the token's employee until the client disconnects.
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}
	empID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(empID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"emp_id\":%q}\n\n", empID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode stream event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
