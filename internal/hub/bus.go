// Package hub publishes what the assistant did to a websocket hub so other
// desktop tools can react.
package hub

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	From = "sucu"
	To   = "hub"

	writeTimeout = 2 * time.Second
)

type Event struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Bus is a write-only hub connection. A failed write drops the connection
// and the next Notify redials once.
type Bus struct {
	url    string
	dialer *ws.Dialer

	mu   sync.Mutex
	conn *ws.Conn
}

func NewBus(hubURL string) (*Bus, error) {
	u, err := url.Parse(hubURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("hub url must be ws:// or wss://, got %q", hubURL)
	}

	b := &Bus{url: u.String(), dialer: ws.DefaultDialer}
	if err := b.dial(); err != nil {
		return nil, err
	}

	log.Info("Connected to hub", "url", b.url)
	return b, nil
}

func (b *Bus) dial() error {
	conn, _, err := b.dialer.Dial(b.url, nil)
	if err != nil {
		return err
	}
	b.conn = conn
	return nil
}

func (b *Bus) Write(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		if err := b.dial(); err != nil {
			return fmt.Errorf("redial: %w", err)
		}
	}

	b.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := b.conn.WriteMessage(ws.TextMessage, data); err != nil {
		b.conn.Close()
		b.conn = nil
		return err
	}
	return nil
}

// Notify publishes one outcome. Errors are logged only.
func (b *Bus) Notify(kind, content string) {
	err := b.Write(Event{From: From, To: To, Kind: kind, Content: content})
	if err != nil {
		log.Warn("Failed to notify hub", "kind", kind, "err", err)
		return
	}
	log.Debug("Notified hub", "kind", kind, "content", content)
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}
	msg := ws.FormatCloseMessage(ws.CloseNormalClosure, "")
	b.conn.WriteControl(ws.CloseMessage, msg, time.Now().Add(writeTimeout))
	err := b.conn.Close()
	b.conn = nil
	return err
}
