package statemachine

// Builder provides a fluent API for building transition tables.
type Builder[S, E comparable] struct {
	transitions map[S]map[E][]Transition[S, E]
	current     *Transition[S, E]
	err         error
}

// NewBuilder creates an empty builder.
func NewBuilder[S, E comparable]() *Builder[S, E] {
	return &Builder[S, E]{
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
}

// From starts a new transition. Any unfinished transition is committed first.
func (b *Builder[S, E]) From(state S) *Builder[S, E] {
	b.commit()
	b.current = &Transition[S, E]{From: state}
	return b
}

// When sets the event that triggers the current transition.
func (b *Builder[S, E]) When(event E) *Builder[S, E] {
	if b.current == nil {
		b.err = ErrInvalidTransition
		return b
	}
	b.current.Event = event
	return b
}

// To sets the target state for the current transition.
func (b *Builder[S, E]) To(state S) *Builder[S, E] {
	if b.current == nil {
		b.err = ErrInvalidTransition
		return b
	}
	b.current.To = state
	return b
}

// Guard adds a guard function to the current transition.
func (b *Builder[S, E]) Guard(guard Guard[S, E]) *Builder[S, E] {
	if b.current != nil && guard != nil {
		b.current.Guards = append(b.current.Guards, guard)
	}
	return b
}

// Build commits the pending transition and returns an immutable Definition.
func (b *Builder[S, E]) Build() (*Definition[S, E], error) {
	b.commit()
	if b.err != nil {
		return nil, b.err
	}
	if len(b.transitions) == 0 {
		return nil, ErrNoTransitions
	}
	return &Definition[S, E]{transitions: b.transitions}, nil
}

// MustBuild is like Build but panics on error. Intended for package-level tables.
func (b *Builder[S, E]) MustBuild() *Definition[S, E] {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func (b *Builder[S, E]) commit() {
	if b.current == nil {
		return
	}
	t := *b.current
	b.current = nil

	if _, ok := b.transitions[t.From]; !ok {
		b.transitions[t.From] = make(map[E][]Transition[S, E])
	}
	// several edges per from/event are allowed; guards pick one in order
	b.transitions[t.From][t.Event] = append(b.transitions[t.From][t.Event], t)
}
