package tenant

import (
	"context"
	"errors"

	"github.com/dmitrymomot/helpdesk/pkg/statemachine"
)

// Event names a lifecycle change.
type Event string

const (
	EventActivate    Event = "activate"
	EventSuspend     Event = "suspend"
	EventResume      Event = "resume"
	EventDeprovision Event = "deprovision"
)

// TransitionInput is the data lifecycle guards evaluate.
type TransitionInput struct {
	Tenant *Tenant
	// Provisioned must be true to activate: the schema exists at the current migration baseline.
	Provisioned bool
}

var lifecycle = statemachine.NewBuilder[Status, Event]().
	From(StatusPending).When(EventActivate).To(StatusActive).Guard(provisioned).
	From(StatusActive).When(EventSuspend).To(StatusSuspended).
	From(StatusSuspended).When(EventResume).To(StatusActive).
	From(StatusPending).When(EventDeprovision).To(StatusDeprovisioned).
	From(StatusActive).When(EventDeprovision).To(StatusDeprovisioned).
	From(StatusSuspended).When(EventDeprovision).To(StatusDeprovisioned).
	MustBuild()

func provisioned(_ context.Context, _ Status, _ Event, data any) bool {
	in, ok := data.(TransitionInput)
	return ok && in.Provisioned && in.Tenant != nil && in.Tenant.HasSchema()
}

// NextStatus returns the status event moves the tenant to, or ErrInvalidTransition.
func NextStatus(ctx context.Context, in TransitionInput, event Event) (Status, error) {
	if in.Tenant == nil {
		return "", ErrTenantNotFound
	}
	next, err := lifecycle.Next(ctx, in.Tenant.Status, event, in)
	if err != nil {
		return in.Tenant.Status, errors.Join(ErrInvalidTransition, err)
	}
	return next, nil
}
