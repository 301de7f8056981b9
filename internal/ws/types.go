package ws

import "encoding/json"

// Message types sent over the feed besides todo events
const (
	TypeReady = "ready"
)

var readyMsg = mustMarshal(map[string]string{"type": TypeReady})

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
