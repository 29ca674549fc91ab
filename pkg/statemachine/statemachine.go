package statemachine

import "context"

// Guard reports whether a transition may proceed for the given data.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Transition is one edge of the table. All guards must pass.
type Transition[S, E comparable] struct {
	From   S
	To     S
	Event  E
	Guards []Guard[S, E]
}

// Definition is an immutable transition table, safe for concurrent use.
// It holds no current state: callers keep the state where it lives, such
// as a database row, and ask Next where an event leads.
type Definition[S, E comparable] struct {
	transitions map[S]map[E][]Transition[S, E]
}

// Next returns the target of the first transition out of from on event
// whose guards pass. On error it returns from.
func (d *Definition[S, E]) Next(ctx context.Context, from S, event E, data any) (S, error) {
	candidates := d.transitions[from][event]
	if len(candidates) == 0 {
		return from, NewErrNoTransitionAvailable(from, event)
	}
	for _, t := range candidates {
		if guardsPass(ctx, t.Guards, from, event, data) {
			return t.To, nil
		}
	}
	return from, NewErrTransitionRejected(from, event)
}

func guardsPass[S, E comparable](ctx context.Context, guards []Guard[S, E], from S, event E, data any) bool {
	for _, guard := range guards {
		if !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
