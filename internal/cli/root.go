// Package cli wires the todo client into cobra commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"todo_webapp/internal/client"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type App struct {
	Server string
	NoLive bool

	client *client.Client
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Todo list client (TUI + scriptable commands)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo ls
  todo add "buy milk"
  todo done <id>
  todo rm <id>
`),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.client = client.New(app.Server)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("TODO_SERVER", "http://localhost:8080"), "API base URL")
	cmd.Flags().BoolVar(&app.NoLive, "no-live", false, "Do not follow changes made by other clients")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRemoveCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	// the alt screen owns the terminal
	logger.Discard()

	var feed tui.Feed
	if !app.NoLive {
		feed = app.client
	}
	return tui.Run(cmd.Context(), app.client, feed)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid todo id %q", s)
	}
	return id, nil
}

func printTodo(w io.Writer, t domain.Todo) {
	box, title := "☐", t.Title
	if t.Completed {
		box, title = successStyle.Render("☑"), doneStyle.Render(t.Title)
	}
	fmt.Fprintf(w, "%s %s  %s\n", box, title, mutedStyle.Render(t.ID.String()))
}
