package history

import (
	"errors"
	"fmt"
	"slices"
)

var ErrNoApplier = errors.New("history has no applier")

// Location names one mutable slot of the document tree: Kind says which
// field, Owner identifies the object holding it.
type Location struct {
	Kind  string `json:"kind"`
	Owner string `json:"owner"`
}

func (l Location) String() string {
	return l.Kind + "@" + l.Owner
}

// Entry is one recorded mutation. Undo writes Previous back into Location,
// redo writes Next.
type Entry struct {
	Location Location `json:"location"`
	Previous any      `json:"previous"`
	Next     any      `json:"next"`
}

// Applier writes a recorded value back into the slot named by loc.
type Applier interface {
	Apply(loc Location, value any) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(loc Location, value any) error

func (f ApplierFunc) Apply(loc Location, value any) error {
	return f(loc, value)
}

// History is a linear undo/redo log. It only ever re-applies captured
// values and never inspects them, so the caller must keep the tree in step:
// when an entry is undone, its location must still hold Next.
//
// History is not safe for concurrent use.
type History struct {
	applier Applier
	depth   int
	undo    []Entry
	redo    []Entry
}

// New creates a history that keeps at most depth undo entries. A depth of
// zero or less means unbounded.
func New(applier Applier, depth int) *History {
	return &History{applier: applier, depth: depth}
}

// Snapshot records a mutation of loc from previous to next. It does not
// apply anything; the caller writes next itself right after recording.
// Recording discards the redo stack.
func (h *History) Snapshot(loc Location, previous, next any) {
	h.undo = append(h.undo, Entry{Location: loc, Previous: previous, Next: next})
	h.redo = nil
	if h.depth > 0 && len(h.undo) > h.depth {
		h.undo = slices.Delete(h.undo, 0, len(h.undo)-h.depth)
	}
}

// Undo re-applies the previous value of the latest entry. It is a no-op
// when there is nothing to undo. On an apply error both stacks are left
// unchanged.
func (h *History) Undo() error {
	if len(h.undo) == 0 {
		return nil
	}
	if h.applier == nil {
		return ErrNoApplier
	}

	e := h.undo[len(h.undo)-1]
	if err := h.applier.Apply(e.Location, e.Previous); err != nil {
		return fmt.Errorf("undo %s: %w", e.Location, err)
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return nil
}

// Redo re-applies the next value of the most recently undone entry. It is a
// no-op when there is nothing to redo.
func (h *History) Redo() error {
	if len(h.redo) == 0 {
		return nil
	}
	if h.applier == nil {
		return ErrNoApplier
	}

	e := h.redo[len(h.redo)-1]
	if err := h.applier.Apply(e.Location, e.Next); err != nil {
		return fmt.Errorf("redo %s: %w", e.Location, err)
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	return nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
func (h *History) UndoLen() int  { return len(h.undo) }
func (h *History) RedoLen() int  { return len(h.redo) }

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// Entries returns a copy of the undo stack, oldest first.
func (h *History) Entries() []Entry {
	return slices.Clone(h.undo)
}
