package collab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchcore/internal/tool"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(newTestEditor, discardLogger())
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/editor", hub.ServeWS(nil))
	mux.HandleFunc("/sessions", hub.ListSessions)
	srv := httptest.NewServer(mux)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/editor"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, m *Message) {
	t.Helper()
	require.NoError(t, wsjson.Write(ctx, conn, m))
}

func receive(t *testing.T, ctx context.Context, conn *websocket.Conn) *Message {
	t.Helper()
	var m Message
	require.NoError(t, wsjson.Read(ctx, conn, &m))
	return &m
}

func TestHubEditorSession(t *testing.T) {
	hub, srv := startHub(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, srv)
	welcome := receive(t, ctx, conn)
	require.Equal(t, TypeWelcome, welcome.Type)
	sessionID := payloadOf[WelcomePayload](t, welcome).SessionID
	assert.True(t, strings.HasPrefix(sessionID, "sess_"))

	send(t, ctx, conn, msg(t, TypeToolSelect, 1, ToolPayload{Tool: tool.KindLine}))
	send(t, ctx, conn, msg(t, TypePointerDown, 2, PointerPayload{X: 12, Y: 11}))
	send(t, ctx, conn, msg(t, TypePointerDown, 3, PointerPayload{X: 51, Y: 48}))

	first := receive(t, ctx, conn)
	assert.Equal(t, TypeInvalidate, first.Type)
	assert.Equal(t, sessionID, first.SessionID)

	second := receive(t, ctx, conn)
	state := payloadOf[InvalidatePayload](t, second).State
	assert.True(t, state.CanUndo)
	require.Len(t, state.Layers, 1)
	assert.Equal(t, 1, state.Layers[0].Shapes)

	send(t, ctx, conn, msg(t, "teleport", 4, nil))
	reply := receive(t, ctx, conn)
	assert.Equal(t, TypeError, reply.Type)
	assert.Equal(t, int64(4), payloadOf[ErrorPayload](t, reply).Seq)

	// The registry is updated after every handled message.
	require.Eventually(t, func() bool {
		all := hub.Registry().All()
		return len(all) == 1 && all[0].Messages == 4
	}, time.Second, 10*time.Millisecond)

	resp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var sessions []SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, sessionID, sessions[0].ID)
	assert.Equal(t, 1, sessions[0].Shapes)
}

func TestHubSessionsAreIndependent(t *testing.T) {
	hub, srv := startHub(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a := dial(t, ctx, srv)
	b := dial(t, ctx, srv)
	idA := payloadOf[WelcomePayload](t, receive(t, ctx, a)).SessionID
	idB := payloadOf[WelcomePayload](t, receive(t, ctx, b)).SessionID
	assert.NotEqual(t, idA, idB)

	send(t, ctx, a, msg(t, TypeLoadSample, 1, nil))
	stateA := payloadOf[InvalidatePayload](t, receive(t, ctx, a)).State
	assert.Positive(t, stateA.Layers[0].Shapes)

	send(t, ctx, b, msg(t, TypeRender, 1, nil))
	stateB := payloadOf[InvalidatePayload](t, receive(t, ctx, b)).State
	assert.Equal(t, 0, stateB.Layers[0].Shapes)

	require.NoError(t, a.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool {
		return hub.Registry().Len() == 1
	}, time.Second, 10*time.Millisecond)
}
