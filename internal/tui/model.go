// Package tui renders the todo list in the terminal and drives it through the API client.
package tui

import (
	"context"
	"fmt"
	"strings"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Feed streams change events; implemented by *client.Client
type Feed interface {
	Subscribe(ctx context.Context, ready chan<- struct{}, fn func(domain.Event)) error
}

type (
	loadedMsg struct {
		todos []domain.Todo
		err   error
	}
	createdMsg struct {
		todo *domain.Todo
		err  error
	}
	toggledMsg struct {
		todo *domain.Todo
		err  error
	}
	deletedMsg struct {
		id  uuid.UUID
		err error
	}
	eventMsg    domain.Event
	feedDoneMsg struct{ err error }
)

type keyMap struct {
	Up, Down, Toggle, Delete, Add, Submit, Cancel, Quit key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Add:    key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "add")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type Model struct {
	ctx    context.Context
	api    view.API
	events <-chan domain.Event

	state  *view.State
	input  textinput.Model
	adding bool
	cursor int
	live   bool
}

// NewModel builds the model; events may be nil when there is no live feed
func NewModel(ctx context.Context, api view.API, events <-chan domain.Event) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	return Model{
		ctx:    ctx,
		api:    api,
		events: events,
		state:  view.New(),
		input:  ti,
		live:   events != nil,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.state.Loaded(msg.todos, msg.err)
		m.clampCursor()
		return m, nil
	case createdMsg:
		m.state.Created(msg.todo, msg.err)
		if msg.err == nil {
			m.input.SetValue("")
		}
		return m, nil
	case toggledMsg:
		m.state.Toggled(msg.todo, msg.err)
		return m, nil
	case deletedMsg:
		m.state.Deleted(msg.id, msg.err)
		m.clampCursor()
		return m, nil
	case eventMsg:
		m.state.Apply(domain.Event(msg))
		m.clampCursor()
		return m, m.waitForEvent()
	case feedDoneMsg:
		m.live = false
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		title, ok := m.state.PendingTitle()
		if !ok {
			return m, nil
		}
		return m, m.create(title)
	case key.Matches(msg, keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.DraftTitle = m.input.Value()
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case m.state.Loading:
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.state.Todos)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Add):
		m.adding = true
		return m, m.input.Focus()
	case key.Matches(msg, keys.Toggle):
		if id, ok := m.selected(); ok {
			if completed, ok := m.state.NextCompleted(id); ok {
				return m, m.toggle(id, completed)
			}
		}
	case key.Matches(msg, keys.Delete):
		if id, ok := m.selected(); ok {
			return m, m.remove(id)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.state.Loading {
		return mutedStyle.Render("Loading...") + "\n"
	}

	var b strings.Builder

	done, pending := m.state.Counts()
	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todo List"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(m.state.Todos),
	)
	if m.live {
		header += "  " + mutedStyle.Render("(live)")
	}
	b.WriteString(header + "\n\n")

	if m.adding {
		b.WriteString(m.input.View() + "\n\n")
	}

	if len(m.state.Todos) == 0 {
		b.WriteString(mutedStyle.Render("No todos yet") + "\n")
	}
	for i, t := range m.state.Todos {
		b.WriteString(renderTodo(t, i == m.cursor && !m.adding) + "\n")
	}

	if m.state.Err != nil {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.state.Err.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.help()) + "\n")
	return b.String()
}

func renderTodo(t domain.Todo, selected bool) string {
	box := mutedStyle.Render(boxUnchecked)
	title := t.Title
	if t.Completed {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}
	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}
	return prefix + box + " " + title
}

func (m Model) help() string {
	bindings := []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Delete, keys.Add, keys.Quit}
	if m.adding {
		bindings = []key.Binding{keys.Submit, keys.Cancel}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m Model) selected() (uuid.UUID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Todos) {
		return uuid.Nil, false
	}
	return m.state.Todos[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Todos) {
		m.cursor = len(m.state.Todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.api.List(m.ctx)
		return loadedMsg{todos: todos, err: err}
	}
}

func (m Model) create(title string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.api.Create(m.ctx, title)
		return createdMsg{todo: todo, err: err}
	}
}

func (m Model) toggle(id uuid.UUID, completed bool) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.api.Update(m.ctx, id, completed)
		return toggledMsg{todo: todo, err: err}
	}
}

func (m Model) remove(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.api.Delete(m.ctx, id)}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return feedDoneMsg{}
		}
		return eventMsg(ev)
	}
}
