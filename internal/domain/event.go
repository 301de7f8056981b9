package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType - вид изменения
type EventType string

const (
	EventTodoCreated EventType = "todo.created"
	EventTodoUpdated EventType = "todo.updated"
	EventTodoDeleted EventType = "todo.deleted"
)

// Event is a change notification pushed to feed subscribers.
// Todo is nil for deletions; ID is always set.
type Event struct {
	Type       EventType `json:"type"`
	ID         uuid.UUID `json:"id"`
	Todo       *Todo     `json:"todo,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(t EventType, id uuid.UUID, todo *Todo) Event {
	return Event{Type: t, ID: id, Todo: todo, OccurredAt: time.Now().UTC()}
}
