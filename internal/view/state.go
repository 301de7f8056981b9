// Package view holds the client-side todo list state and the rules for how
// API results and feed events change it.
package view

import (
	"context"
	"errors"
	"strings"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"

	"github.com/google/uuid"
)

// API is the subset of the todo client the view drives
type API interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (*domain.Todo, error)
	Update(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// State is the list as the user sees it. Todos are kept most recent first.
// Loading is true only until the first list attempt finishes.
type State struct {
	Todos      []domain.Todo
	DraftTitle string
	Loading    bool

	// Err is the last failed operation, cleared by the next success
	Err error
}

func New() *State {
	return &State{Loading: true}
}

// Init loads the list once
func (s *State) Init(ctx context.Context, api API) {
	todos, err := api.List(ctx)
	s.Loaded(todos, err)
}

// Submit creates a todo from the draft. A blank draft is ignored without a request.
func (s *State) Submit(ctx context.Context, api API) {
	title, ok := s.PendingTitle()
	if !ok {
		return
	}
	todo, err := api.Create(ctx, title)
	s.Created(todo, err)
}

// Toggle flips the completed flag of id on the server
func (s *State) Toggle(ctx context.Context, api API, id uuid.UUID) {
	completed, ok := s.NextCompleted(id)
	if !ok {
		return
	}
	todo, err := api.Update(ctx, id, completed)
	s.Toggled(todo, err)
}

// Delete removes id once the server has confirmed it
func (s *State) Delete(ctx context.Context, api API, id uuid.UUID) {
	s.Deleted(id, api.Delete(ctx, id))
}

// PendingTitle returns the draft to submit, or false when it is blank
func (s *State) PendingTitle() (string, bool) {
	if strings.TrimSpace(s.DraftTitle) == "" {
		return "", false
	}
	return s.DraftTitle, true
}

// NextCompleted returns the inverted flag for id, or false when id is not listed
func (s *State) NextCompleted(id uuid.UUID) (bool, bool) {
	i := s.index(id)
	if i < 0 {
		return false, false
	}
	return !s.Todos[i].Completed, true
}

// Loaded finishes the loading phase whatever the outcome
func (s *State) Loaded(todos []domain.Todo, err error) {
	s.Loading = false
	if err != nil {
		s.fail("fetch todos", err)
		return
	}
	s.Todos = todos
	s.Err = nil
}

func (s *State) Created(todo *domain.Todo, err error) {
	if err != nil {
		s.fail("create todo", err)
		return
	}
	s.upsert(*todo)
	s.DraftTitle = ""
	s.Err = nil
}

func (s *State) Toggled(todo *domain.Todo, err error) {
	if err != nil {
		s.fail("update todo", err)
		return
	}
	if i := s.index(todo.ID); i >= 0 {
		s.Todos[i] = *todo
	}
	s.Err = nil
}

// Deleted drops id on success, and on 404 since the server no longer has it.
// Any other failure keeps the item.
func (s *State) Deleted(id uuid.UUID, err error) {
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.fail("delete todo", err)
		return
	}
	s.remove(id)
	s.Err = nil
}

// Apply merges a change made by any client
func (s *State) Apply(ev domain.Event) {
	switch ev.Type {
	case domain.EventTodoCreated:
		if ev.Todo != nil {
			s.upsert(*ev.Todo)
		}
	case domain.EventTodoUpdated:
		if ev.Todo == nil {
			return
		}
		if i := s.index(ev.ID); i >= 0 {
			s.Todos[i] = *ev.Todo
		} else {
			s.upsert(*ev.Todo)
		}
	case domain.EventTodoDeleted:
		s.remove(ev.ID)
	}
}

// Counts returns done and pending totals
func (s *State) Counts() (done, pending int) {
	for _, t := range s.Todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return done, pending
}

func (s *State) index(id uuid.UUID) int {
	for i, t := range s.Todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// upsert replaces t in place, or inserts it keeping newest first
func (s *State) upsert(t domain.Todo) {
	if i := s.index(t.ID); i >= 0 {
		s.Todos[i] = t
		return
	}
	at := len(s.Todos)
	for i, cur := range s.Todos {
		if !t.CreatedAt.Before(cur.CreatedAt) {
			at = i
			break
		}
	}
	s.Todos = append(s.Todos, domain.Todo{})
	copy(s.Todos[at+1:], s.Todos[at:])
	s.Todos[at] = t
}

func (s *State) remove(id uuid.UUID) {
	if i := s.index(id); i >= 0 {
		s.Todos = append(s.Todos[:i], s.Todos[i+1:]...)
	}
}

func (s *State) fail(op string, err error) {
	s.Err = err
	logger.Warn("failed to "+op, "error", err)
}
