package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Discard()
}

type memAPI struct {
	todos     []domain.Todo
	deleteErr error
}

func (a *memAPI) List(context.Context) ([]domain.Todo, error) {
	return append([]domain.Todo(nil), a.todos...), nil
}

func (a *memAPI) Create(_ context.Context, title string) (*domain.Todo, error) {
	t := domain.Todo{ID: uuid.New(), Title: title, CreatedAt: time.Now()}
	a.todos = append([]domain.Todo{t}, a.todos...)
	return &t, nil
}

func (a *memAPI) Update(_ context.Context, id uuid.UUID, completed bool) (*domain.Todo, error) {
	for i := range a.todos {
		if a.todos[i].ID == id {
			a.todos[i].Completed = completed
			t := a.todos[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (a *memAPI) Delete(_ context.Context, id uuid.UUID) error {
	if a.deleteErr != nil {
		return a.deleteErr
	}
	for i := range a.todos {
		if a.todos[i].ID == id {
			a.todos = append(a.todos[:i], a.todos[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// press delivers a key and drops the resulting command (cursor blinks, focus)
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	m, _ = update(t, m, keyMsg(k))
	return m
}

// pressAndRun delivers a key, runs the API command it returns and feeds the result back
func pressAndRun(t *testing.T, m Model, k string) Model {
	t.Helper()
	m, cmd := update(t, m, keyMsg(k))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, api *memAPI) Model {
	t.Helper()
	m := NewModel(context.Background(), api, nil)
	assert.Contains(t, m.View(), "Loading...")
	m, _ = update(t, m, m.load()())
	return m
}

func TestModel_BuyMilkFlow(t *testing.T) {
	api := &memAPI{}
	m := loaded(t, api)
	assert.Contains(t, m.View(), "No todos yet")

	m = press(t, m, "a")
	require.True(t, m.adding)
	for _, r := range "buy milk" {
		m = press(t, m, string(r))
	}
	assert.Equal(t, "buy milk", m.state.DraftTitle)

	m = pressAndRun(t, m, "enter")
	require.Len(t, m.state.Todos, 1)
	assert.Equal(t, "buy milk", m.state.Todos[0].Title)
	assert.Empty(t, m.state.DraftTitle)

	m = press(t, m, "esc")
	m = pressAndRun(t, m, " ")
	assert.True(t, m.state.Todos[0].Completed)
	assert.Contains(t, m.View(), boxChecked)

	m = pressAndRun(t, m, "d")
	assert.Empty(t, m.state.Todos)
	assert.Empty(t, api.todos)
}

func TestModel_BlankDraftIsNotSubmitted(t *testing.T) {
	api := &memAPI{}
	m := loaded(t, api)

	m = press(t, m, "a")
	m = press(t, m, " ")
	m, cmd := update(t, m, keyMsg("enter"))
	assert.Nil(t, cmd)

	assert.Empty(t, api.todos)
	assert.True(t, m.adding)
}

func TestModel_DeleteFailureKeepsItem(t *testing.T) {
	milk := domain.Todo{ID: uuid.New(), Title: "buy milk", CreatedAt: time.Now()}
	api := &memAPI{todos: []domain.Todo{milk}, deleteErr: errors.New("connection refused")}
	m := loaded(t, api)

	m = pressAndRun(t, m, "d")
	require.Len(t, m.state.Todos, 1)
	assert.Contains(t, m.View(), "connection refused")
}

func TestModel_AppliesFeedEvents(t *testing.T) {
	events := make(chan domain.Event, 1)
	m := NewModel(context.Background(), &memAPI{}, events)
	m, _ = update(t, m, loadedMsg{})

	other := domain.Todo{ID: uuid.New(), Title: "from another client", CreatedAt: time.Now()}
	events <- domain.NewEvent(domain.EventTodoCreated, other.ID, &other)

	m, cmd := update(t, m, m.waitForEvent()())
	assert.NotNil(t, cmd)
	require.Len(t, m.state.Todos, 1)
	assert.Contains(t, m.View(), "(live)")

	close(events)
	m, _ = update(t, m, m.waitForEvent()())
	assert.False(t, m.live)
}
