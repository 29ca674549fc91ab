// Package statemachine provides a small, type-safe finite-state-machine for
// modelling lifecycles such as tenant status.
//
// A transition table is described once with a Builder and frozen into a
// Definition. The Definition is immutable and can be evaluated statelessly
// with Next, which suits records whose current state lives in a database row.
//
// # Usage
//
//	type Status string
//	type Event string
//
//	def := statemachine.NewBuilder[Status, Event]().
//	    From("pending").When("activate").To("active").
//	    From("active").When("suspend").To("suspended").
//	    MustBuild()
//
//	next, err := def.Next(ctx, "pending", "activate", nil)
//
// # Guards
//
// Guards veto a transition based on runtime data. When several transitions share the same source and event, the first one
// whose guards all pass wins.
//
// # Errors
//
// ErrNoTransitionAvailable is returned when the table has no edge for the
// state/event pair, ErrTransitionRejected when every candidate edge was
// vetoed by its guards. Use IsNoTransitionAvailableError and
// IsTransitionRejectedError to tell them apart.
package statemachine
