// Package client talks to the todo API over HTTP and follows its websocket change feed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todo_webapp/internal/domain"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Is lets callers match 404 and 400 responses against the domain sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrValidation:
		return e.Status == http.StatusBadRequest
	}
	return false
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8080"
// or "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, http.StatusOK, &todos); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (c *Client) Create(ctx context.Context, title string) (*domain.Todo, error) {
	var todo domain.Todo
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/todos", body, http.StatusCreated, &todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &todo, nil
}

func (c *Client) Update(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error) {
	var todo domain.Todo
	body := map[string]bool{"completed": completed}
	if err := c.do(ctx, http.MethodPatch, "/todos/"+id.String(), body, http.StatusOK, &todo); err != nil {
		return nil, fmt.Errorf("update todo %s: %w", id, err)
	}
	return &todo, nil
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	var res struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodDelete, "/todos/"+id.String(), nil, http.StatusOK, &res); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	if !res.Success {
		return fmt.Errorf("delete todo %s: server did not confirm", id)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(b, &payload); err == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
