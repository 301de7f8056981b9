package handlers

import (
	"errors"
	"io"
	"net/http"

	"todo_webapp/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Client-visible error messages; details stay in the server log.
const (
	msgFetchFailed      = "Failed to fetch todos"
	msgCreateFailed     = "Failed to create todo"
	msgUpdateFailed     = "Failed to update todo"
	msgDeleteFailed     = "Failed to delete todo"
	msgTitleRequired    = "Title is required"
	msgCompletedMissing = "Completed is required"
	msgBadBody          = "Invalid request body"
	msgNotFound         = "Todo not found"
)

type createTodoRequest struct {
	Title string `json:"title"`
}

type updateTodoRequest struct {
	Completed *bool `json:"completed"`
}

// ListTodos GET /todos
func (h *Handler) ListTodos(c *gin.Context) {
	todos, err := h.Todos.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgFetchFailed})
		return
	}
	c.JSON(http.StatusOK, todos)
}

// CreateTodo POST /todos
func (h *Handler) CreateTodo(c *gin.Context) {
	var req createTodoRequest
	// an empty body is the same as a missing title
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadBody})
		return
	}

	todo, err := h.Todos.Create(c.Request.Context(), req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleRequired})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgCreateFailed})
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo PATCH /todos/:id, responds with the bare updated todo
func (h *Handler) UpdateTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadBody})
		return
	}
	if req.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgCompletedMissing})
		return
	}

	todo, err := h.Todos.Update(c.Request.Context(), id, *req.Completed)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUpdateFailed})
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo DELETE /todos/:id
func (h *Handler) DeleteTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	if err := h.Todos.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgDeleteFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// todoID parses :id. A malformed id can never match a record, so it is a 404.
func todoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return uuid.Nil, false
	}
	return id, true
}
