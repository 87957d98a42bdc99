package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/inamate/sketchcore/internal/editor"
)

// Hub owns the connected clients. Every client drives its own editor; the
// hub only registers them, routes their messages and closes them on
// shutdown.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // clientID -> client
	registry   *Registry
	newEditor  func() *editor.Editor
	logger     *slog.Logger
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub returns a hub that gives each connection an editor from
// newEditor. A nil logger means slog.Default().
func NewHub(newEditor func() *editor.Editor, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		registry:   NewRegistry(),
		newEditor:  newEditor,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.stop()
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Registry() *Registry { return h.registry }

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	h.mu.Unlock()

	h.registry.Update(client.session.Info())
	h.logger.Info("client connected", "client", client.ClientID, "session", client.session.ID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)
	close(client.send)
	h.mu.Unlock()

	h.registry.Remove(client.session.ID)
	h.logger.Info("client disconnected", "client", client.ClientID, "session", client.session.ID)
}

func (h *Hub) stop() {
	close(h.done)

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	h.logger.Info("hub stopped", "clients", len(clients))
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	for _, reply := range sender.session.Handle(msg) {
		if reply.Type == TypeError {
			h.logger.Debug("message rejected", "client", sender.ClientID, "type", msg.Type, "payload", string(reply.Payload))
		}
		sender.Send(reply)
	}
	h.registry.Update(sender.session.Info())
}

// ListSessions writes the live sessions as JSON.
func (h *Hub) ListSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.registry.All()); err != nil {
		h.logger.Error("encode sessions", "error", err)
	}
}
