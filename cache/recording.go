package cache

import "github.com/MilkTool/glsp/errz"

// Recording is an ordered log of the toplevel actions produced by compiling
// a load sequence. It is built incrementally during live compilation, or
// materialized in full by Unmarshal, and then consumed strictly
// front-to-back by the executor.
type Recording struct {
	actions []Action
}

// NewRecording creates an empty recording.
func NewRecording() *Recording {
	return &Recording{}
}

// IsEmpty returns true if no actions remain.
func (r *Recording) IsEmpty() bool {
	return len(r.actions) == 0
}

// Len returns the number of actions remaining.
func (r *Recording) Len() int {
	return len(r.actions)
}

// Peek returns the next action without consuming it.
func (r *Recording) Peek() (Action, error) {
	if len(r.actions) == 0 {
		return nil, errz.New(errz.ExhaustedLog, "unexpected end of compiled actions")
	}
	return r.actions[0], nil
}

// Pop consumes and returns the next action.
func (r *Recording) Pop() (Action, error) {
	if len(r.actions) == 0 {
		return nil, errz.New(errz.ExhaustedLog, "unexpected end of compiled actions")
	}
	action := r.actions[0]
	r.actions[0] = nil
	r.actions = r.actions[1:]
	return action, nil
}

// AddAction appends an action. Used only during live compilation.
func (r *Recording) AddAction(action Action) {
	r.actions = append(r.actions, action)
}
