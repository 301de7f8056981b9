package tui

import (
	"context"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen UI. When feed is non-nil the list follows changes
// made by other clients; a feed failure only turns live updates off.
func Run(ctx context.Context, api view.API, feed Feed) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var events chan domain.Event
	if feed != nil {
		events = make(chan domain.Event, 16)
		go func() {
			defer close(events)
			err := feed.Subscribe(ctx, nil, func(ev domain.Event) {
				select {
				case events <- ev:
				case <-ctx.Done():
				}
			})
			if err != nil {
				logger.Warn("change feed stopped", "error", err)
			}
		}()
	}

	p := tea.NewProgram(NewModel(ctx, api, events), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
