package collab

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/editor"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrMissingPayload = errors.New("missing payload")
)

// Session is one shell's editor. Messages are applied one at a time under
// the session lock; the editor itself is single-threaded.
type Session struct {
	ID          string
	ConnectedAt time.Time

	mu      sync.Mutex
	editor  *editor.Editor
	seq     int64
	pending editor.Region
}

func NewSession(id string, ed *editor.Editor) *Session {
	s := &Session{ID: id, ConnectedAt: time.Now(), editor: ed}
	ed.OnInvalidate(func(r editor.Region) { s.pending |= r })
	return s
}

// Welcome returns the first message a shell receives.
func (s *Session) Welcome() (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = 0
	return newMessage(TypeWelcome, s.ID, s.seq, WelcomePayload{
		SessionID: s.ID,
		Tools:     editor.ToolKinds(),
		State:     s.editor.Snapshot(),
	})
}

// Handle applies msg to the editor and returns the replies: an error
// message if it failed, then an invalidate message if anything needs a
// redraw. A render request always yields an invalidate.
func (s *Session) Handle(msg *Message) []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++

	var out []*Message
	if err := s.apply(msg); err != nil {
		reply, merr := newMessage(TypeError, s.ID, s.seq, ErrorPayload{Seq: msg.Seq, Message: err.Error()})
		if merr == nil {
			out = append(out, reply)
		}
	}

	if msg.Type == TypeRender {
		s.pending |= editor.RegionAll
	}
	if s.pending != 0 {
		if reply, err := s.invalidate(); err == nil {
			out = append(out, reply)
		}
		s.pending = 0
	}
	return out
}

func (s *Session) apply(msg *Message) error {
	e := s.editor
	switch msg.Type {
	case TypePointerDown, TypePointerUp, TypePointerMove:
		p, err := decode[PointerPayload](msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		switch msg.Type {
		case TypePointerDown:
			return e.PointerDown(p.X, p.Y, buttonOf(p.Button))
		case TypePointerUp:
			return e.PointerUp(p.X, p.Y, buttonOf(p.Button))
		default:
			return e.PointerMove(p.X, p.Y)
		}

	case TypeWheel:
		p, err := decode[WheelPayload](msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		return e.Wheel(p.X, p.Y, p.Delta)

	case TypeToolSelect:
		p, err := decode[ToolPayload](msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		return e.SetTool(p.Tool)

	case TypeCancel:
		return e.Cancel()
	case TypeUndo:
		return e.Undo()
	case TypeRedo:
		return e.Redo()

	case TypeSelectAll:
		e.SelectAll()
	case TypeSelectionDelete:
		e.DeleteSelected()
	case TypeSelectionGroup:
		_, err := e.GroupSelected()
		return err
	case TypeSelectionUngroup:
		return e.UngroupSelected()
	case TypeSelectionFront:
		_, err := e.BringToFront()
		return err
	case TypeSelectionForward:
		_, err := e.BringForward()
		return err
	case TypeSelectionBackward:
		_, err := e.SendBackward()
		return err
	case TypeSelectionBack:
		_, err := e.SendToBack()
		return err

	case TypeSelectionState:
		p, err := decode[StatePayload](msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		flag, err := document.ParseState(p.Flag)
		if err != nil {
			return err
		}
		_, err = e.SetSelectionState(flag, p.On)
		return err

	case TypeGroupConnector:
		p, err := decode[ConnectorPayload](msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		_, err = e.AddConnector(p.Group, p.X, p.Y)
		return err

	case TypeLayerAdd:
		p, _ := decode[LayerPayload](msg.Payload)
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Layer%d", len(e.Container().Layers)+1)
		}
		e.AddLayer(name)
	case TypeLayerRemove, TypeLayerSelect:
		p, err := decode[LayerPayload](msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		if msg.Type == TypeLayerRemove {
			return e.RemoveLayer(p.ID)
		}
		return e.SetCurrentLayer(p.ID)

	case TypeLoadSample:
		e.LoadSample()
	case TypeRender:
		// Always answered with a full invalidate.

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func (s *Session) invalidate() (*Message, error) {
	return newMessage(TypeInvalidate, s.ID, s.seq, InvalidatePayload{
		Regions:  s.pending.String(),
		Commands: json.RawMessage(s.editor.RenderJSON()),
		State:    s.editor.Snapshot(),
	})
}

// Info summarizes the session for the registry.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.editor.Snapshot()
	shapes := 0
	for _, l := range state.Layers {
		shapes += l.Shapes
	}
	return SessionInfo{
		ID:          s.ID,
		Tool:        string(state.Tool),
		ToolState:   state.ToolState,
		Shapes:      shapes,
		Messages:    s.seq,
		ConnectedAt: s.ConnectedAt,
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, ErrMissingPayload
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("invalid payload: %w", err)
	}
	return v, nil
}
