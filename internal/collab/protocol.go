package collab

import (
	"encoding/json"

	"github.com/inamate/sketchcore/internal/editor"
	"github.com/inamate/sketchcore/internal/tool"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// PointerPayload carries a pointer event in model coordinates. Button is
// "left", "middle" or "right" and defaults to left.
type PointerPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button,omitempty"`
}

type WheelPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta"`
}

type ToolPayload struct {
	Tool tool.Kind `json:"tool"`
}

type LayerPayload struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// StatePayload sets or clears one flag on the selection. Flag is "Visible"
// or "Locked".
type StatePayload struct {
	Flag string `json:"flag"`
	On   bool   `json:"on"`
}

type ConnectorPayload struct {
	Group string  `json:"group"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type WelcomePayload struct {
	SessionID string       `json:"sessionId"`
	Tools     []tool.Kind  `json:"tools"`
	State     editor.State `json:"state"`
}

// InvalidatePayload tells the shell which regions changed and carries the
// fresh draw commands so it can repaint without another round trip.
type InvalidatePayload struct {
	Regions  string          `json:"regions"`
	Commands json.RawMessage `json:"commands"`
	State    editor.State    `json:"state"`
}

type ErrorPayload struct {
	Seq     int64  `json:"seq,omitempty"`
	Message string `json:"message"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Pointer input
	TypePointerDown = "pointer.down"
	TypePointerUp   = "pointer.up"
	TypePointerMove = "pointer.move"
	TypeWheel       = "wheel"

	// Editor commands
	TypeToolSelect        = "tool.select"
	TypeCancel            = "cancel"
	TypeUndo              = "undo"
	TypeRedo              = "redo"
	TypeSelectAll         = "selection.all"
	TypeSelectionDelete   = "selection.delete"
	TypeSelectionGroup    = "selection.group"
	TypeSelectionUngroup  = "selection.ungroup"
	TypeSelectionFront    = "selection.front"
	TypeSelectionForward  = "selection.forward"
	TypeSelectionBackward = "selection.backward"
	TypeSelectionBack     = "selection.back"
	TypeSelectionState    = "selection.state"
	TypeGroupConnector    = "group.connector"
	TypeLayerAdd          = "layer.add"
	TypeLayerRemove       = "layer.remove"
	TypeLayerSelect       = "layer.select"
	TypeLoadSample        = "document.sample"

	// Rendering
	TypeRender     = "render"
	TypeInvalidate = "invalidate"
)

func buttonOf(name string) editor.Button {
	switch name {
	case "right":
		return editor.ButtonRight
	case "middle":
		return editor.ButtonMiddle
	}
	return editor.ButtonLeft
}

func newMessage(msgType, sessionID string, seq int64, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, SessionID: sessionID, Seq: seq, Payload: data}, nil
}
