package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

func TestNextStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("activate requires provisioned schema", func(t *testing.T) {
		t.Parallel()

		p := createTestTenant("acme", tenant.StatusPending)

		_, err := tenant.NextStatus(ctx, tenant.TransitionInput{Tenant: p}, tenant.EventActivate)
		require.ErrorIs(t, err, tenant.ErrInvalidTransition)

		p.SchemaName = "tenant_x"
		_, err = tenant.NextStatus(ctx, tenant.TransitionInput{Tenant: p}, tenant.EventActivate)
		require.ErrorIs(t, err, tenant.ErrInvalidTransition, "schema assigned but not provisioned")

		next, err := tenant.NextStatus(ctx, tenant.TransitionInput{Tenant: p, Provisioned: true}, tenant.EventActivate)
		require.NoError(t, err)
		assert.Equal(t, tenant.StatusActive, next)
	})

	t.Run("legal edges", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			from  tenant.Status
			event tenant.Event
			to    tenant.Status
		}{
			{tenant.StatusActive, tenant.EventSuspend, tenant.StatusSuspended},
			{tenant.StatusSuspended, tenant.EventResume, tenant.StatusActive},
			{tenant.StatusPending, tenant.EventDeprovision, tenant.StatusDeprovisioned},
			{tenant.StatusActive, tenant.EventDeprovision, tenant.StatusDeprovisioned},
			{tenant.StatusSuspended, tenant.EventDeprovision, tenant.StatusDeprovisioned},
		}
		for _, c := range cases {
			next, err := tenant.NextStatus(ctx, tenant.TransitionInput{Tenant: createTestTenant("x", c.from)}, c.event)
			require.NoError(t, err, "%s --%s-->", c.from, c.event)
			assert.Equal(t, c.to, next)
		}
	})

	t.Run("illegal edges", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			from  tenant.Status
			event tenant.Event
		}{
			{tenant.StatusPending, tenant.EventSuspend},
			{tenant.StatusActive, tenant.EventActivate},
			{tenant.StatusActive, tenant.EventResume},
			{tenant.StatusDeprovisioned, tenant.EventResume},
			{tenant.StatusDeprovisioned, tenant.EventDeprovision},
		}
		for _, c := range cases {
			in := tenant.TransitionInput{Tenant: createTestTenant("x", c.from), Provisioned: true}
			got, err := tenant.NextStatus(ctx, in, c.event)
			require.ErrorIs(t, err, tenant.ErrInvalidTransition, "%s --%s-->", c.from, c.event)
			assert.Equal(t, c.from, got)
		}
	})

	t.Run("nil tenant", func(t *testing.T) {
		t.Parallel()

		_, err := tenant.NextStatus(ctx, tenant.TransitionInput{}, tenant.EventSuspend)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}

func TestStatus_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, tenant.StatusPending.Valid())
	assert.True(t, tenant.StatusDeprovisioned.Valid())
	assert.False(t, tenant.Status("archived").Valid())
}
