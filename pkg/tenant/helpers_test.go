package tenant_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

type mockProvider struct {
	mu      sync.RWMutex
	tenants map[string]*tenant.Tenant
	err     error
}

func newMockProvider() *mockProvider {
	return &mockProvider{tenants: make(map[string]*tenant.Tenant)}
}

func (m *mockProvider) addTenant(t *tenant.Tenant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[strings.ToLower(t.Slug)] = t
	if t.Domain != "" {
		m.tenants[strings.ToLower(t.Domain)] = t
	}
}

func (m *mockProvider) Resolve(_ context.Context, hint string) (*tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.tenants[strings.ToLower(hint)]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	if t.Status == tenant.StatusSuspended {
		return nil, tenant.ErrTenantSuspended
	}
	return t, nil
}

func createTestTenant(slug string, status tenant.Status) *tenant.Tenant {
	return &tenant.Tenant{
		ID:        uuid.New(),
		Name:      slug + " Corp",
		Slug:      slug,
		Domain:    slug + ".example.com",
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
