package edit

// History holds the undo and redo stacks of one edit session. A command only
// ever sits on one of the two stacks; the session moves it across on a
// successful undo or redo. History itself never talks to the store — it is
// mutated only after the corresponding remote call already succeeded.
type History struct {
	undo []Command
	redo []Command
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record pushes a freshly executed command onto the undo stack and discards
// the redo stack. Branching history is not supported: commands undone before
// a new edit are gone for good.
func (h *History) Record(c Command) {
	h.undo = append(h.undo, c)
	h.redo = nil
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// PeekUndo returns the top of the undo stack without removing it.
func (h *History) PeekUndo() (Command, bool) {
	if len(h.undo) == 0 {
		return Command{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the top of the redo stack without removing it.
func (h *History) PeekRedo() (Command, bool) {
	if len(h.redo) == 0 {
		return Command{}, false
	}
	return h.redo[len(h.redo)-1], true
}

// PopUndo removes and returns the top command of the undo stack.
func (h *History) PopUndo() (Command, error) {
	if len(h.undo) == 0 {
		return Command{}, ErrEmptyHistory
	}
	c := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return c, nil
}

// PopRedo removes and returns the top command of the redo stack.
func (h *History) PopRedo() (Command, error) {
	if len(h.redo) == 0 {
		return Command{}, ErrEmptyHistory
	}
	c := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return c, nil
}

// PushUndo returns a command to the undo stack. Used after a successful redo,
// and to restore the stack when an undo's store call fails.
func (h *History) PushUndo(c Command) {
	h.undo = append(h.undo, c)
}

// PushRedo places a command on the redo stack after a successful undo.
func (h *History) PushRedo(c Command) {
	h.redo = append(h.redo, c)
}

// Depths returns the sizes of the undo and redo stacks.
func (h *History) Depths() (int, int) {
	return len(h.undo), len(h.redo)
}
