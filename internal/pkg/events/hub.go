package events

import (
	"context"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/sse"
)

type hubPublisher struct {
	hub *sse.Hub
}

// NewHubPublisher pushes events to the live streams of the event's recipients.
func NewHubPublisher(hub *sse.Hub) Publisher {
	return &hubPublisher{hub: hub}
}

func (p *hubPublisher) Publish(_ context.Context, event LeaveEvent) error {
	p.hub.PublishToMany(event.Recipients, sse.Event{Event: event.Type, Data: event})
	return nil
}
