package collab

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/sketchcore/internal/typeid"
)

// ServeWS upgrades the request and runs one editor session until the
// connection closes. origins are the accepted websocket origin patterns.
func (h *Hub) ServeWS(origins []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: origins,
		})
		if err != nil {
			h.logger.Error("websocket accept", "error", err)
			return
		}

		session := NewSession(typeid.NewSessionID(), h.newEditor())
		client := NewClient(h, conn, session, uuid.New().String())

		welcome, err := session.Welcome()
		if err != nil {
			h.logger.Error("build welcome", "error", err)
			conn.Close(websocket.StatusInternalError, "")
			return
		}
		client.Send(welcome)

		h.Register(client)

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
