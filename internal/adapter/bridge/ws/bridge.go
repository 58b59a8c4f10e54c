package ws

import (
	"context"
	"fmt"
	"sync"

	"tapvault/internal/app/ports"

	"github.com/gorilla/websocket"
)

// Bridge pushes sync payloads to the host counterpart over a websocket.
// Delivery is fire-and-forget: a broken connection fails the single
// publish, is torn down, and the next publish redials.
type Bridge struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn
}

func New(url string) *Bridge {
	return &Bridge{url: url}
}

func (b *Bridge) Publish(ctx context.Context, payload ports.SyncPayload) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
		if err != nil {
			return fmt.Errorf("dial host bridge: %w", err)
		}
		b.conn = conn
	}

	if err := b.conn.WriteJSON(payload); err != nil {
		_ = b.conn.Close()
		b.conn = nil
		return fmt.Errorf("write to host bridge: %w", err)
	}
	return nil
}

func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}
