package registry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/helpdesk/pkg/registry"
)

func TestSeed(t *testing.T) {
	t.Parallel()

	const file = `
tenants:
  - name: Acme
    domain: support.acme.com
  - name: Globex
  - name: ACME
`

	t.Run("registers missing tenants", func(t *testing.T) {
		t.Parallel()
		reg, _ := newRegistry(t)

		n, err := reg.Seed(context.Background(), strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := reg.Resolve(context.Background(), "support.acme.com")
		require.NoError(t, err)
		assert.Equal(t, "acme", got.Slug)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		t.Parallel()
		reg, _ := newRegistry(t)

		_, err := reg.Seed(context.Background(), strings.NewReader(file))
		require.NoError(t, err)
		n, err := reg.Seed(context.Background(), strings.NewReader(file))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		reg, _ := newRegistry(t)

		n, err := reg.Seed(context.Background(), strings.NewReader(""))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("unknown fields fail", func(t *testing.T) {
		t.Parallel()
		reg, _ := newRegistry(t)

		_, err := reg.Seed(context.Background(), strings.NewReader("tenants:\n  - nam: typo\n"))
		assert.Error(t, err)
	})

	t.Run("invalid entry stops seeding", func(t *testing.T) {
		t.Parallel()
		reg, _ := newRegistry(t)

		n, err := reg.Seed(context.Background(), strings.NewReader("tenants:\n  - name: ok\n  - name: bad\n    domain: nodot\n"))
		assert.Error(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme", registry.NormalizeHint("  ACME "))
	assert.Equal(t, "help.acme.com", registry.NormalizeHint("Help.Acme.com:443"))

	d, err := registry.NormalizeDomain("")
	require.NoError(t, err)
	assert.Empty(t, d)

	d, err = registry.NormalizeDomain("Support.Acme.COM.")
	require.NoError(t, err)
	assert.Equal(t, "support.acme.com", d)
}
