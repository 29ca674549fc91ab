package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// ErrStatusConflict is returned when a compare-and-set status update lost a race.
var ErrStatusConflict = fmt.Errorf("%w: status changed concurrently", tenant.ErrInvalidTransition)

// Store persists tenants. Slugs and domains are stored normalized, and
// uniqueness only applies among tenants that are not deprovisioned.
type Store interface {
	// Create inserts t or fails with tenant.ErrDuplicateTenant when a live
	// tenant already owns its slug or domain. The check and the insert are atomic.
	Create(ctx context.Context, t *tenant.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	// GetByHint returns the live tenant whose slug or domain equals hint.
	GetByHint(ctx context.Context, hint string) (*tenant.Tenant, error)
	// UpdateStatus moves the tenant from one status to another only if it is
	// still in from; otherwise it fails with ErrStatusConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to tenant.Status) (*tenant.Tenant, error)
	// SetSchema records schema only if none is assigned yet and returns the
	// row as stored.
	SetSchema(ctx context.Context, id uuid.UUID, schema string) (*tenant.Tenant, error)
	List(ctx context.Context) ([]*tenant.Tenant, error)
}

func clone(t *tenant.Tenant) *tenant.Tenant {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
