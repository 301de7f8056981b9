package handlers

import (
	"context"

	"todo_webapp/internal/domain"

	"github.com/google/uuid"
)

// TodoService is what the todo handlers need from the service layer
type TodoService interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (*domain.Todo, error)
	Update(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	Todos TodoService
}

func NewHandler(todos TodoService) *Handler {
	return &Handler{Todos: todos}
}
