package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStartsEmpty(t *testing.T) {
	h := NewHistory()

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, err := h.PopUndo()
	assert.ErrorIs(t, err, ErrEmptyHistory)
	_, err = h.PopRedo()
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestHistoryRecordPopOrder(t *testing.T) {
	h := NewHistory()
	h.Record(Command{Seq: 1, Kind: KindRename})
	h.Record(Command{Seq: 2, Kind: KindMoveSong})
	h.Record(Command{Seq: 3, Kind: KindRemoveSong})

	undo, redo := h.Depths()
	assert.Equal(t, 3, undo)
	assert.Equal(t, 0, redo)

	// LIFO: most recent command first.
	c, err := h.PopUndo()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), c.Seq)
	c, err = h.PopUndo()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), c.Seq)
}

func TestHistoryRecordClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Record(Command{Seq: 1, Kind: KindMoveSong})

	// Undo: command crosses to the redo stack.
	c, err := h.PopUndo()
	require.NoError(t, err)
	h.PushRedo(c)
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())

	// A new edit abandons the undone branch.
	h.Record(Command{Seq: 2, Kind: KindRemoveSong})
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistoryPeekDoesNotPop(t *testing.T) {
	h := NewHistory()

	_, ok := h.PeekUndo()
	assert.False(t, ok)

	h.Record(Command{Seq: 1, Kind: KindRename})
	c, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, uint64(1), c.Seq)
	assert.True(t, h.CanUndo())

	c, err := h.PopUndo()
	require.NoError(t, err)
	h.PushRedo(c)

	c, ok = h.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, uint64(1), c.Seq)
	assert.True(t, h.CanRedo())
}

func TestHistoryPushUndoRestoresAfterFailure(t *testing.T) {
	h := NewHistory()
	h.Record(Command{Seq: 1, Kind: KindMoveSong})

	// Popped for an undo whose store call then fails: the command goes back
	// on top and stays retryable.
	c, err := h.PopUndo()
	require.NoError(t, err)
	h.PushUndo(c)

	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	top, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, uint64(1), top.Seq)
}
