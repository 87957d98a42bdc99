package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// register is a tiny tree: named integer slots.
type register map[string]int

func (r register) Apply(loc Location, value any) error {
	v, ok := value.(int)
	if !ok {
		return errors.New("not an int")
	}
	r[loc.Owner] = v
	return nil
}

// set records and then writes, the way document mutators do.
func (r register) set(h *History, owner string, v int) {
	h.Snapshot(Location{Kind: "value", Owner: owner}, r[owner], v)
	r[owner] = v
}

func TestRoundTrip(t *testing.T) {
	state := register{"a": 0, "b": 0}
	h := New(state, 0)

	steps := []struct {
		owner string
		value int
	}{
		{"a", 1}, {"b", 2}, {"a", 3}, {"a", 4}, {"b", 5},
	}

	snapshots := []register{{"a": 0, "b": 0}}
	for _, s := range steps {
		state.set(h, s.owner, s.value)
		snapshots = append(snapshots, register{"a": state["a"], "b": state["b"]})
	}
	require.Equal(t, len(steps), h.UndoLen())

	for i := len(steps) - 1; i >= 0; i-- {
		require.True(t, h.CanUndo())
		require.NoError(t, h.Undo())
		assert.Equal(t, snapshots[i], state)
		assert.True(t, h.CanRedo())
	}
	assert.False(t, h.CanUndo())
	assert.Equal(t, register{"a": 0, "b": 0}, state)

	for i := 1; i <= len(steps); i++ {
		require.True(t, h.CanRedo())
		require.NoError(t, h.Redo())
		assert.Equal(t, snapshots[i], state)
		assert.True(t, h.CanUndo())
	}
	assert.False(t, h.CanRedo())
	assert.Equal(t, snapshots[len(steps)], state)
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New(register{}, 10)

	assert.NoError(t, h.Undo())
	assert.NoError(t, h.Redo())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestSnapshotClearsRedo(t *testing.T) {
	state := register{}
	h := New(state, 0)

	state.set(h, "a", 1)
	state.set(h, "a", 2)
	require.NoError(t, h.Undo())
	require.True(t, h.CanRedo())

	state.set(h, "a", 7)
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.UndoLen())

	require.NoError(t, h.Undo())
	assert.Equal(t, 1, state["a"])
}

func TestDepthDropsOldest(t *testing.T) {
	state := register{}
	h := New(state, 3)

	for v := 1; v <= 5; v++ {
		state.set(h, "a", v)
	}
	require.Equal(t, 3, h.UndoLen())

	entries := h.Entries()
	assert.Equal(t, 2, entries[0].Previous)
	assert.Equal(t, 3, entries[0].Next)

	for h.CanUndo() {
		require.NoError(t, h.Undo())
	}
	assert.Equal(t, 2, state["a"])
	assert.Equal(t, 3, h.RedoLen())
}

func TestApplyErrorKeepsStacks(t *testing.T) {
	calls := 0
	h := New(ApplierFunc(func(loc Location, value any) error {
		calls++
		return errors.New("boom")
	}), 0)

	h.Snapshot(Location{Kind: "value", Owner: "a"}, 1, 2)

	err := h.Undo()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value@a")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, h.UndoLen())
	assert.Equal(t, 0, h.RedoLen())
}

func TestNoApplier(t *testing.T) {
	h := New(nil, 0)
	h.Snapshot(Location{Kind: "value"}, 0, 1)

	assert.ErrorIs(t, h.Undo(), ErrNoApplier)
	assert.True(t, h.CanUndo())
}

func TestClear(t *testing.T) {
	state := register{}
	h := New(state, 0)
	state.set(h, "a", 1)
	state.set(h, "a", 2)
	require.NoError(t, h.Undo())

	h.Clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Empty(t, h.Entries())
}
