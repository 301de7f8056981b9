package service

import (
	"context"
	"errors"
	"fmt"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// TodoStore is the record store behind TodoService
type TodoStore interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (*domain.Todo, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Publisher receives change events after successful mutations
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

var todoOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "todo_operations_total",
		Help: "Todo operations by kind and outcome",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(todoOps)
}

// TodoService runs the list/create/update/delete operations.
// Each operation makes exactly one store call and never retries.
type TodoService struct {
	store     TodoStore
	publisher Publisher
}

// NewTodoService creates a todo service; publisher may be nil
func NewTodoService(store TodoStore, publisher Publisher) *TodoService {
	return &TodoService{store: store, publisher: publisher}
}

func (s *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.store.List(ctx)
	if err != nil {
		s.fail(ctx, "list", err)
		return nil, fmt.Errorf("list todos: %w", err)
	}
	todoOps.WithLabelValues("list", "ok").Inc()
	return todos, nil
}

// Create rejects an empty title before touching the store
func (s *TodoService) Create(ctx context.Context, title string) (*domain.Todo, error) {
	if title == "" {
		todoOps.WithLabelValues("create", "invalid").Inc()
		return nil, domain.NewValidationError("title", "is required")
	}

	todo, err := s.store.Create(ctx, title)
	if err != nil {
		s.fail(ctx, "create", err)
		return nil, fmt.Errorf("create todo: %w", err)
	}
	todoOps.WithLabelValues("create", "ok").Inc()

	s.publish(ctx, domain.NewEvent(domain.EventTodoCreated, todo.ID, todo))
	return todo, nil
}

// Update sets the completed flag; title, id and createdAt are never touched
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error) {
	todo, err := s.store.SetCompleted(ctx, id, completed)
	if err != nil {
		s.fail(ctx, "update", err, "todo_id", id)
		return nil, fmt.Errorf("update todo: %w", err)
	}
	todoOps.WithLabelValues("update", "ok").Inc()

	s.publish(ctx, domain.NewEvent(domain.EventTodoUpdated, todo.ID, todo))
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.fail(ctx, "delete", err, "todo_id", id)
		return fmt.Errorf("delete todo: %w", err)
	}
	todoOps.WithLabelValues("delete", "ok").Inc()

	s.publish(ctx, domain.NewEvent(domain.EventTodoDeleted, id, nil))
	return nil
}

func (s *TodoService) fail(ctx context.Context, op string, err error, args ...any) {
	result := "error"
	log := logger.FromContext(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		result = "not_found"
		log.Warn("todo "+op+" failed", append(args, "error", err)...)
	} else {
		log.Error("todo "+op+" failed", append(args, "error", err)...)
	}
	todoOps.WithLabelValues(op, result).Inc()
}

// publish never fails the operation
func (s *TodoService) publish(ctx context.Context, ev domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("failed to publish todo event", "type", ev.Type, "todo_id", ev.ID, "error", err)
	}
}
