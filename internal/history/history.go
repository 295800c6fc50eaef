// Package history models edit states and the bounded undo/redo timeline of
// actions between them.
package history

import (
	"fmt"
	"time"
)

// MaxActions is the number of actions the timeline retains.
const MaxActions = 20

// Kind is the type of edit an action records.
type Kind int

const (
	Stroke Kind = iota
	CropApply
	CropCancel
	AdjustApply
	AdjustReset
	ImageLoad
	ClearAll
)

func (k Kind) String() string {
	switch k {
	case Stroke:
		return "stroke"
	case CropApply:
		return "crop-apply"
	case CropCancel:
		return "crop-cancel"
	case AdjustApply:
		return "adjust-apply"
	case AdjustReset:
		return "adjust-reset"
	case ImageLoad:
		return "image-load"
	case ClearAll:
		return "clear-all"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Action is one reversible transition. Undo restores Previous and redo
// restores Next; Previous is nil only for the first ImageLoad.
type Action struct {
	ID        string
	Kind      Kind
	Previous  *ImageState
	Next      *ImageState
	Timestamp time.Time
}

// NewAction builds an action from prev to next.
func NewAction(kind Kind, prev, next *ImageState) Action {
	return Action{
		ID:        newID(PrefixAction),
		Kind:      kind,
		Previous:  prev,
		Next:      next,
		Timestamp: time.Now(),
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit overrides MaxActions.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// Manager is the undo/redo timeline. Index -1 means nothing has been
// recorded. It is not safe for concurrent use.
type Manager struct {
	actions []Action
	index   int
	limit   int
}

// NewManager returns an empty timeline.
func NewManager(opts ...Option) *Manager {
	m := &Manager{index: -1, limit: MaxActions}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Record appends a, dropping any redoable actions first and evicting the
// oldest action when the limit is exceeded.
func (m *Manager) Record(a Action) {
	if m.index < len(m.actions)-1 {
		clear(m.actions[m.index+1:])
		m.actions = m.actions[:m.index+1]
	}
	m.actions = append(m.actions, a)
	m.index = len(m.actions) - 1
	if len(m.actions) > m.limit {
		m.actions[0] = Action{}
		m.actions = m.actions[1:]
		m.index--
	}
}

// CanUndo reports whether Undo would succeed. The first retained action is
// the baseline and is never undone.
func (m *Manager) CanUndo() bool { return m.index > 0 }

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool { return m.index < len(m.actions)-1 }

// Undo steps back one action and returns the state to show.
func (m *Manager) Undo() (*ImageState, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	prev := m.actions[m.index].Previous
	m.index--
	return prev, true
}

// Redo steps forward one action and returns the state to show.
func (m *Manager) Redo() (*ImageState, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.index++
	return m.actions[m.index].Next, true
}

// Current returns the state at the cursor. With nothing recorded there is
// no current state.
func (m *Manager) Current() (*ImageState, bool) {
	if m.index < 0 {
		return nil, false
	}
	return m.actions[m.index].Next, true
}

// Clear drops every action.
func (m *Manager) Clear() {
	clear(m.actions)
	m.actions = m.actions[:0]
	m.index = -1
}

// Len returns the number of retained actions.
func (m *Manager) Len() int { return len(m.actions) }

// Index returns the cursor position.
func (m *Manager) Index() int { return m.index }

// Limit returns the maximum number of retained actions.
func (m *Manager) Limit() int { return m.limit }

// Actions returns a copy of the timeline, oldest first.
func (m *Manager) Actions() []Action {
	out := make([]Action, len(m.actions))
	copy(out, m.actions)
	return out
}
