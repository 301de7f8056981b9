// Package events delivers todo change events to the websocket hub, either
// directly (single instance) or through a Redis channel shared by all instances.
package events

import (
	"context"

	"todo_webapp/internal/domain"
)

// Sink is the local consumer of events, normally *ws.Hub
type Sink interface {
	Broadcast(ev domain.Event)
}

// LocalPublisher hands events straight to an in-process sink
type LocalPublisher struct {
	sink Sink
}

func NewLocalPublisher(sink Sink) *LocalPublisher {
	return &LocalPublisher{sink: sink}
}

func (p *LocalPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.sink.Broadcast(ev)
	return nil
}
