package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/helpdesk/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  []slug.Option
		want  string
	}{
		{name: "simple", input: "Acme", want: "acme"},
		{name: "spaces and punctuation", input: "  Acme, Inc.  ", want: "acme-inc"},
		{name: "diacritics", input: "Café Ünïcode", want: "cafe-unicode"},
		{name: "transliteration", input: "Łódź Straße", want: "lodz-strasse"},
		{name: "case insensitive", input: "ACME Corp", want: "acme-corp"},
		{name: "collapses separators", input: "a -- b __ c", want: "a-b-c"},
		{name: "custom separator", input: "Acme Corp", opts: []slug.Option{slug.Separator("_")}, want: "acme_corp"},
		{name: "max length", input: "Acme Corporation", opts: []slug.Option{slug.MaxLength(6)}, want: "acme-c"},
		{name: "max length drops dangling separator", input: "Acme Corporation", opts: []slug.Option{slug.MaxLength(5)}, want: "acme"},
		{name: "max length inside word", input: "Globex", opts: []slug.Option{slug.MaxLength(3)}, want: "glo"},
		{name: "non latin only", input: "株式会社", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, slug.Make(tt.input, tt.opts...))
		})
	}
}

func TestMakeWithSuffix(t *testing.T) {
	t.Parallel()

	got := slug.Make("Acme", slug.WithSuffix(6))
	parts := strings.Split(got, "-")
	assert.Len(t, parts, 2)
	assert.Equal(t, "acme", parts[0])
	assert.Regexp(t, "^[a-z0-9]{6}$", parts[1])

	got = slug.Make("Acme Corporation", slug.WithSuffix(4), slug.MaxLength(10))
	assert.LessOrEqual(t, len(got), 10)
	assert.True(t, strings.HasPrefix(got, "acme-"))

	got = slug.Make("株式会社", slug.WithSuffix(5))
	assert.Regexp(t, "^[a-z0-9]{5}$", got)

	assert.NotEqual(t, slug.Make("Acme", slug.WithSuffix(12)), slug.Make("Acme", slug.WithSuffix(12)))
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, slug.Valid("acme"))
	assert.True(t, slug.Valid("acme-corp-2"))
	assert.False(t, slug.Valid("Acme"))
	assert.False(t, slug.Valid("-acme"))
	assert.False(t, slug.Valid("acme--corp"))
	assert.False(t, slug.Valid(""))
}
