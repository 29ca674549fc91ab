package registry

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// domainPattern requires at least two labels so a domain can never collide with a slug.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// NormalizeHint folds a slug or host into its lookup form: trimmed, without
// port or trailing dot, and Unicode case folded.
func NormalizeHint(hint string) string {
	hint = strings.TrimSpace(hint)
	if host, _, err := net.SplitHostPort(hint); err == nil {
		hint = host
	}
	hint = strings.TrimSuffix(hint, ".")
	// a Caser keeps state, so one is created per call
	return cases.Fold().String(hint)
}

// NormalizeDomain validates and folds a custom domain. An empty domain is allowed.
func NormalizeDomain(domain string) (string, error) {
	d := NormalizeHint(domain)
	if d == "" {
		return "", nil
	}
	if len(d) > tenant.MaxDomainLength || !domainPattern.MatchString(d) {
		return "", fmt.Errorf("%w: domain %q", tenant.ErrInvalidIdentifier, domain)
	}
	return d, nil
}
