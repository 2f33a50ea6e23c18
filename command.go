package portal

// Command is a reversible document mutation. Execute applies the
// mutation; Undo restores the exact prior state over the affected
// region. Commands capture every parameter they need at construction:
// re-executing after unrelated changes to the drawing context must
// reproduce the original pixels.
//
// Execute is called both for the initial application and for redo.
// Implementations snapshot their "before" state on the first Execute
// only.
type Command interface {
	Execute() error
	Undo()
}

// DefaultHistoryLimit is the default bound on the undo stack.
const DefaultHistoryLimit = 100

// History is the dual-stack reversible command history. Executing a
// new command clears the redo stack; exceeding the bound discards the
// oldest entry together with its captured snapshots.
type History struct {
	limit int
	undo  []Command
	redo  []Command

	// Changed fires after every push/undo/redo with whether an undo is
	// available. Hosts use it to refresh menu enable state.
	Changed Signal[bool]
}

// NewHistory creates a history bounded to limit entries. A limit ≤ 0
// falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push executes cmd and records it for undo. A command that fails in
// Execute is not recorded and the error is returned; commands
// guarantee they do not partially apply on failure.
func (h *History) Push(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	h.undo = append(h.undo, cmd)
	h.redo = h.redo[:0]
	if len(h.undo) > h.limit {
		// Dropping the oldest entry releases its snapshots.
		n := copy(h.undo, h.undo[1:])
		h.undo[n] = nil
		h.undo = h.undo[:n]
		logger().Debug("history entry discarded", "limit", h.limit)
	}
	h.Changed.Emit(true)
	return nil
}

// Undo reverses the most recent command. No-op on an empty stack.
func (h *History) Undo() {
	if len(h.undo) == 0 {
		return
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	cmd.Undo()
	h.redo = append(h.redo, cmd)
	h.Changed.Emit(len(h.undo) > 0)
}

// Redo re-executes the most recently undone command. No-op on an
// empty stack.
func (h *History) Redo() {
	if len(h.redo) == 0 {
		return
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	// Redo re-executes with the parameters captured on first execute;
	// a command that succeeded once cannot fail here.
	_ = cmd.Execute()
	h.undo = append(h.undo, cmd)
	h.Changed.Emit(true)
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops both stacks and their snapshots.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.Changed.Emit(false)
}
