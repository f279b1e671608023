package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dispatch/internal/notifier"
)

// connTransport adapts a gorilla WebSocket connection to the hub's transport
// contract. gorilla allows only one concurrent writer per connection, so all
// writes are serialized behind a mutex.
type connTransport struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newConnTransport(conn *websocket.Conn) *connTransport {
	return &connTransport{conn: conn}
}

// Send writes one message as a JSON text frame.
func (t *connTransport) Send(message notifier.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.conn.WriteJSON(message)
}

// Close shuts the underlying connection down.
func (t *connTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.conn.Close()
}
