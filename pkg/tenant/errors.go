package tenant

import "errors"

// Client class: caused by the request, surfaced as 4xx.
var (
	// ErrTenantNotFound is returned when a tenant cannot be found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantSuspended is returned when a request targets a suspended tenant.
	ErrTenantSuspended = errors.New("tenant is suspended")

	// ErrDuplicateTenant is returned when a slug or domain is already owned by another tenant.
	ErrDuplicateTenant = errors.New("tenant slug or domain already taken")

	// ErrInvalidIdentifier is returned when the identifier format is invalid.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrInvalidTransition is returned when a lifecycle change is not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid tenant status transition")

	// ErrNoTenantInContext is returned when a tenant is required but none is bound.
	ErrNoTenantInContext = errors.New("no tenant in context")
)

// Infrastructure class: surfaced as 5xx and logged with tenant and changeset context.
var (
	// ErrProvisioning is returned when creating or migrating a tenant schema fails.
	ErrProvisioning = errors.New("tenant schema provisioning failed")

	// ErrProvisioningTimeout is returned when waiting for provisioning exceeds its deadline.
	ErrProvisioningTimeout = errors.New("tenant schema provisioning timed out")

	// ErrConnectionAcquireTimeout is returned when no pooled connection became available in time.
	ErrConnectionAcquireTimeout = errors.New("database connection acquire timed out")
)

// IsClientError reports whether err belongs to the request-caused class.
func IsClientError(err error) bool {
	return errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrTenantSuspended) ||
		errors.Is(err, ErrDuplicateTenant) ||
		errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNoTenantInContext)
}
