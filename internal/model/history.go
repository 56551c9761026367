package model

import (
	"errors"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
)

// DefaultHistoryLimit bounds the number of undoable steps.
const DefaultHistoryLimit = 100

var (
	ErrNoUndoableState = errors.New("no undoable state")
	ErrNoRedoableState = errors.New("no redoable state")
)

// History is a linear list of committed health book snapshots with a cursor
// on the current one. At most limit steps can be undone; older snapshots are
// dropped.
type History struct {
	states []*healthbook.HealthBook
	cursor int
	limit  int
}

func NewHistory(initial *healthbook.HealthBook, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		states: []*healthbook.HealthBook{initial.Clone()},
		limit:  limit,
	}
}

// Commit appends a snapshot of b after the cursor, discarding any states that
// could have been redone.
func (h *History) Commit(b *healthbook.HealthBook) {
	h.states = append(h.states[:h.cursor+1], b.Clone())
	h.cursor++
	if over := len(h.states) - (h.limit + 1); over > 0 {
		h.states = append([]*healthbook.HealthBook(nil), h.states[over:]...)
		h.cursor -= over
	}
}

// Undo moves the cursor back and returns a copy of the state it lands on.
func (h *History) Undo() (*healthbook.HealthBook, error) {
	if !h.CanUndo() {
		return nil, ErrNoUndoableState
	}
	h.cursor--
	return h.states[h.cursor].Clone(), nil
}

func (h *History) Redo() (*healthbook.HealthBook, error) {
	if !h.CanRedo() {
		return nil, ErrNoRedoableState
	}
	h.cursor++
	return h.states[h.cursor].Clone(), nil
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.states)-1 }

// Current returns a copy of the state under the cursor.
func (h *History) Current() *healthbook.HealthBook {
	return h.states[h.cursor].Clone()
}

// Len is the number of snapshots held.
func (h *History) Len() int { return len(h.states) }
