package registry

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// MemoryStore keeps tenants in process. One mutex guards every check and
// write, which makes Create's uniqueness check atomic.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]*tenant.Tenant
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants: make(map[uuid.UUID]*tenant.Tenant),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[t.ID]; ok {
		return tenant.ErrDuplicateTenant
	}
	for _, existing := range s.tenants {
		if existing.Status == tenant.StatusDeprovisioned {
			continue
		}
		if strings.EqualFold(existing.Slug, t.Slug) {
			return tenant.ErrDuplicateTenant
		}
		if t.Domain != "" && strings.EqualFold(existing.Domain, t.Domain) {
			return tenant.ErrDuplicateTenant
		}
	}
	s.tenants[t.ID] = clone(t)
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return clone(t), nil
}

func (s *MemoryStore) GetByHint(_ context.Context, hint string) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tenants {
		if t.Status == tenant.StatusDeprovisioned {
			continue
		}
		if strings.EqualFold(t.Slug, hint) || (t.Domain != "" && strings.EqualFold(t.Domain, hint)) {
			return clone(t), nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to tenant.Status) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	if t.Status != from {
		return nil, ErrStatusConflict
	}
	t.Status = to
	t.UpdatedAt = s.now()
	return clone(t), nil
}

func (s *MemoryStore) SetSchema(_ context.Context, id uuid.UUID, schema string) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	if t.SchemaName == "" {
		for _, other := range s.tenants {
			if other.SchemaName == schema {
				return nil, tenant.ErrDuplicateTenant
			}
		}
		t.SchemaName = schema
		t.UpdatedAt = s.now()
	}
	return clone(t), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*tenant.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, clone(t))
	}
	slices.SortFunc(out, func(a, b *tenant.Tenant) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}
