// Package history keeps bounded undo/redo stacks of full snapshots.
package history

import "errors"

// DefaultCapacity is the number of undo snapshots kept when none is given.
const DefaultCapacity = 20

var (
	// ErrNothingToUndo is returned by Undo when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Manager owns an undo stack of at most capacity snapshots, evicting the
// oldest first, and an unbounded redo stack. Snapshots are stored as given;
// callers pass independent copies.
type Manager[T any] struct {
	capacity int
	undo     []T
	redo     []T
}

// New returns a manager keeping at most capacity undo snapshots. A
// non-positive capacity selects DefaultCapacity.
func New[T any](capacity int) *Manager[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager[T]{capacity: capacity}
}

// Capacity returns the undo stack bound.
func (m *Manager[T]) Capacity() int { return m.capacity }

// Len returns the number of undo snapshots.
func (m *Manager[T]) Len() int { return len(m.undo) }

// RedoLen returns the number of redo snapshots.
func (m *Manager[T]) RedoLen() int { return len(m.redo) }

// Push records snapshot as the newest undo point and discards the redo
// stack.
func (m *Manager[T]) Push(snapshot T) {
	clear(m.redo)
	m.redo = m.redo[:0]
	m.pushUndo(snapshot)
}

// Undo moves current onto the redo stack and returns the newest undo
// snapshot, which becomes the caller's new current state.
func (m *Manager[T]) Undo(current T) (T, error) {
	if len(m.undo) == 0 {
		var zero T
		return zero, ErrNothingToUndo
	}
	m.redo = append(m.redo, current)
	return pop(&m.undo), nil
}

// Redo moves current onto the undo stack, without touching the rest of the
// redo stack, and returns the newest redo snapshot.
func (m *Manager[T]) Redo(current T) (T, error) {
	if len(m.redo) == 0 {
		var zero T
		return zero, ErrNothingToRedo
	}
	next := pop(&m.redo)
	m.pushUndo(current)
	return next, nil
}

// Reset drops every snapshot.
func (m *Manager[T]) Reset() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager[T]) pushUndo(snapshot T) {
	if len(m.undo) >= m.capacity {
		n := copy(m.undo, m.undo[len(m.undo)-m.capacity+1:])
		var zero T
		for i := n; i < len(m.undo); i++ {
			m.undo[i] = zero
		}
		m.undo = m.undo[:n]
	}
	m.undo = append(m.undo, snapshot)
}

func pop[T any](stack *[]T) T {
	s := *stack
	last := s[len(s)-1]
	var zero T
	s[len(s)-1] = zero
	*stack = s[:len(s)-1]
	return last
}
