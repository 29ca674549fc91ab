package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultID is the DEFAULT_TENANT sentinel: the identity observed by any unit
// of work that has no tenant bound. It routes to the shared default schema.
var DefaultID = uuid.Nil

// Status is the lifecycle state of a tenant.
type Status string

const (
	StatusPending       Status = "pending"
	StatusActive        Status = "active"
	StatusSuspended     Status = "suspended"
	StatusDeprovisioned Status = "deprovisioned"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusDeprovisioned:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Tenant is one isolated organization. SchemaName is empty until the tenant
// is first provisioned and never changes afterwards.
type Tenant struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Domain     string    `json:"domain"`
	SchemaName string    `json:"schema_name,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// HasSchema reports whether a physical schema has been assigned.
func (t *Tenant) HasSchema() bool {
	return t.SchemaName != ""
}

// Provider loads tenant information from a data source by an opaque hint
// (slug or domain). Implementations return ErrTenantNotFound or
// ErrTenantSuspended rather than a tenant the request must not use.
type Provider interface {
	Resolve(ctx context.Context, hint string) (*Tenant, error)
}
