package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todo_webapp/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// failingService returns err from every operation
type failingService struct {
	err   error
	calls int
}

func (s *failingService) List(context.Context) ([]domain.Todo, error) {
	s.calls++
	return nil, s.err
}

func (s *failingService) Create(context.Context, string) (*domain.Todo, error) {
	s.calls++
	return nil, s.err
}

func (s *failingService) Update(context.Context, uuid.UUID, bool) (*domain.Todo, error) {
	s.calls++
	return nil, s.err
}

func (s *failingService) Delete(context.Context, uuid.UUID) error {
	s.calls++
	return s.err
}

func newRouter(svc TodoService) *gin.Engine {
	h := NewHandler(svc)
	r := gin.New()
	r.GET("/todos", h.ListTodos)
	r.POST("/todos", h.CreateTodo)
	r.PATCH("/todos/:id", h.UpdateTodo)
	r.DELETE("/todos/:id", h.DeleteTodo)
	return r
}

func TestTodoHandlers_StoreFailures(t *testing.T) {
	id := uuid.NewString()
	storeErr := errors.New("connection refused")

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantBody string
	}{
		{"list", http.MethodGet, "/todos", "", `{"error":"Failed to fetch todos"}`},
		{"create", http.MethodPost, "/todos", `{"title":"buy milk"}`, `{"error":"Failed to create todo"}`},
		{"update", http.MethodPatch, "/todos/" + id, `{"completed":false}`, `{"error":"Failed to update todo"}`},
		{"delete", http.MethodDelete, "/todos/" + id, "", `{"error":"Failed to delete todo"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &failingService{err: storeErr}
			r := newRouter(svc)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.NotContains(t, w.Body.String(), "connection refused")
			assert.Equal(t, 1, svc.calls)
		})
	}
}

func TestTodoHandlers_RejectBeforeService(t *testing.T) {
	svc := &failingService{err: errors.New("unreachable")}
	r := newRouter(svc)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPatch, "/todos/not-a-uuid", strings.NewReader(`{"completed":true}`)),
		httptest.NewRequest(http.MethodPatch, "/todos/"+uuid.NewString(), strings.NewReader(`{"title":"x"}`)),
		httptest.NewRequest(http.MethodDelete, "/todos/123", nil),
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Less(t, w.Code, 500)
	}
	assert.Zero(t, svc.calls)
}

func TestTodoHandlers_WrappedSentinels(t *testing.T) {
	id := uuid.NewString()

	r := newRouter(&failingService{err: errors.Join(errors.New("update todo"), domain.ErrNotFound)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/todos/"+id, strings.NewReader(`{"completed":true}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newRouter(&failingService{err: domain.NewValidationError("title", "is required")})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(`{"title":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title is required"}`, w.Body.String())
}
