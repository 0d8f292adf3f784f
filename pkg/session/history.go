package session

import "github.com/shelfwise/planogram/pkg/action"

// History is the two-stack undo/redo model over the action log. The
// past stack holds applied actions oldest first; the future stack holds
// undone actions most-recently-undone last. Pushing after an undo
// clears the future, keeping history linear.
type History struct {
	past   []action.Action
	future []action.Action
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{} }

// Push appends an action and clears any redo entries.
func (h *History) Push(a action.Action) {
	h.past = append(h.past, a)
	h.future = nil
}

// PushSquash replaces the last past entry instead of appending when
// both it and the incoming action are transient kinds targeting the
// same product. This bounds history growth during continuous gestures
// (dragging, facing spinners) to one undo step per discrete edit.
// Returns true when the entry was squashed rather than appended.
func (h *History) PushSquash(a action.Action) bool {
	if a.Transient() && len(h.past) > 0 {
		last := h.past[len(h.past)-1]
		if last.Transient() && last.TargetProductID() == a.TargetProductID() {
			h.past[len(h.past)-1] = a
			h.future = nil
			return true
		}
	}
	h.Push(a)
	return false
}

// Undo moves the newest past entry to the future stack. Returns false
// when there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, last)
	return true
}

// Redo moves the newest future entry back to the past stack. Returns
// false when there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	last := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, last)
	return true
}

// CanUndo reports whether any applied action remains.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether any undone action remains.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Len returns the number of applied actions.
func (h *History) Len() int { return len(h.past) }

// Past returns a copy of the applied action list, oldest first.
func (h *History) Past() []action.Action {
	return append([]action.Action(nil), h.past...)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}
