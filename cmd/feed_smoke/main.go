package main

import (
	"context"
	"flag"
	"os"
	"time"

	"todo_webapp/internal/client"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
)

// Connects to a running server's change feed, creates/toggles/deletes a todo
// through the API and checks that every change comes back over the feed.
func main() {
	server := flag.String("server", envOr("TODO_SERVER", "http://127.0.0.1:8080"), "API base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "per-step timeout")
	flag.Parse()

	logger.Init("info", "text")
	c := client.New(*server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	got := make(chan domain.Event, 8)
	go func() {
		if err := c.Subscribe(ctx, ready, func(ev domain.Event) { got <- ev }); err != nil {
			logger.Fatal("feed", "error", err)
		}
	}()

	select {
	case <-ready:
	case <-time.After(*timeout):
		logger.Fatal("feed handshake timed out")
	}

	todo, err := c.Create(ctx, "smoke "+time.Now().Format(time.RFC3339))
	if err != nil {
		logger.Fatal("create", "error", err)
	}
	expect(got, domain.EventTodoCreated, *timeout)

	if _, err := c.Update(ctx, todo.ID, true); err != nil {
		logger.Fatal("update", "error", err)
	}
	expect(got, domain.EventTodoUpdated, *timeout)

	if err := c.Delete(ctx, todo.ID); err != nil {
		logger.Fatal("delete", "error", err)
	}
	expect(got, domain.EventTodoDeleted, *timeout)

	logger.Info("smoke test finished", "todo_id", todo.ID)
}

func expect(got <-chan domain.Event, want domain.EventType, timeout time.Duration) {
	select {
	case ev := <-got:
		if ev.Type != want {
			logger.Fatal("unexpected event", "want", want, "got", ev.Type)
		}
		logger.Info("event received", "type", ev.Type, "todo_id", ev.ID)
	case <-time.After(timeout):
		logger.Fatal("event timed out", "want", want)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
