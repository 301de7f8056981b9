package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"todo_webapp/internal/domain"

	"github.com/gorilla/websocket"
)

const typeReady = "ready"

// FeedURL derives the websocket feed address from the API base URL.
// A trailing /api prefix is dropped because the feed is mounted at the root.
func (c *Client) FeedURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api") + "/ws"
	return u.String(), nil
}

// Subscribe connects to the change feed and calls fn for every event until ctx
// is done or the connection drops. ready is closed once the server handshake
// arrives; it may be nil.
func (c *Client) Subscribe(ctx context.Context, ready chan<- struct{}, fn func(domain.Event)) error {
	addr, err := c.FeedURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	// unblock ReadMessage on cancel
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read feed: %w", err)
		}

		var ev domain.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			continue
		}
		if ev.Type == typeReady {
			if ready != nil {
				close(ready)
				ready = nil
			}
			continue
		}
		fn(ev)
	}
}
