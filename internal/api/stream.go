package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lox/holdem-solver/internal/db"
)

// PolicyUpdate is one Info's policy as pushed to /stream subscribers while
// training runs, grounded on spec.md §6's policy(partial_recall) query
// shape plus the triple identifying which Info it came from.
type PolicyUpdate struct {
	Past    int64           `json:"past"`
	Present int16           `json:"present"`
	Choices int64           `json:"choices"`
	Entries []db.PolicyEntry `json:"entries"`
}

// hub fans a PolicyUpdate out to every connected /stream client, the same
// shape as the teacher's server.go connection registry but carrying
// policy pushes instead of game-state broadcasts.
type hub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*streamClient]struct{})}
}

func (h *hub) register(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) unregister(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	close(c.send)
}

func (h *hub) broadcast(update PolicyUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- update:
		default: // slow client, drop the update rather than block the hub
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
		close(c.send)
	}
}

type streamClient struct {
	conn *websocket.Conn
	send chan PolicyUpdate
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stream upgrade failed")
		return
	}

	client := &streamClient{conn: conn, send: make(chan PolicyUpdate, 32)}
	s.stream.register(client)

	go s.writePump(client)
	s.readPump(client)
}

// readPump keeps the connection alive and detects client disconnects;
// /stream is push-only so incoming messages are discarded.
func (s *Server) readPump(c *streamClient) {
	defer func() {
		s.stream.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case update, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(update); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
