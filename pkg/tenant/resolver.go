package tenant

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

const (
	// MaxTenantIDLength prevents DoS attacks via very long tenant IDs and ensures DNS compatibility
	MaxTenantIDLength = 63
	MinTenantIDLength = 1

	// MaxDomainLength is the DNS limit for a full host name.
	MaxDomainLength = 253

	DefaultHeaderName = "X-Tenant-ID"
)

var (
	// labelPattern ensures DNS-safe labels: alphanumeric start, allows hyphens, no dots
	labelPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)
	// domainPattern is a dot-separated sequence of labels
	domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*(\.[a-zA-Z0-9][a-zA-Z0-9-]*)*$`)
)

// Resolver extracts tenant identifier from HTTP request.
// Returns empty string if no tenant found, error if extraction failed.
type Resolver func(r *http.Request) (string, error)

func isValidLabel(id string) bool {
	if len(id) < MinTenantIDLength || len(id) > MaxTenantIDLength {
		return false
	}
	return labelPattern.MatchString(id)
}

func isValidDomain(host string) bool {
	if host == "" || len(host) > MaxDomainLength {
		return false
	}
	return domainPattern.MatchString(host)
}

// stripPort removes a trailing :port, keeping bracketless IPv6 hosts intact.
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// NewSubdomainResolver extracts tenant from subdomain, optionally stripping suffix.
// Returns empty string for base domain (no subdomain).
func NewSubdomainResolver(suffix string) Resolver {
	return func(req *http.Request) (string, error) {
		host := stripPort(req.Host)
		originalParts := strings.Split(host, ".")

		if suffix != "" && strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			host = host[:len(host)-len(suffix)]
		}

		parts := strings.Split(host, ".")
		if len(parts) == 0 || parts[0] == "" {
			return "", nil
		}

		subdomain := parts[0]
		// Skip www prefix, use next subdomain if available
		if subdomain == "www" {
			if len(parts) < 2 {
				return "", nil
			}
			subdomain = parts[1]
		}

		// Require at least 3 parts for proper subdomain.domain.tld structure
		if len(originalParts) < 3 {
			return "", nil
		}

		subdomain = strings.TrimSpace(subdomain)
		if !isValidLabel(subdomain) {
			return "", fmt.Errorf("%w: subdomain '%s'", ErrInvalidIdentifier, subdomain)
		}
		return subdomain, nil
	}
}

// NewHostResolver returns the full request host without port, for tenants
// addressed by a custom domain. Hosts that can never be a tenant domain give
// no hint: IP literals, single-label names such as localhost, and the
// service's own hosts listed in own.
func NewHostResolver(own ...string) Resolver {
	skip := make(map[string]struct{}, len(own))
	for _, h := range own {
		if h = strings.ToLower(strings.TrimSpace(stripPort(h))); h != "" {
			skip[h] = struct{}{}
		}
	}

	return func(req *http.Request) (string, error) {
		host := strings.TrimSpace(stripPort(req.Host))
		if host == "" || net.ParseIP(strings.Trim(host, "[]")) != nil {
			return "", nil
		}
		if !isValidDomain(host) {
			return "", fmt.Errorf("%w: host '%s'", ErrInvalidIdentifier, host)
		}
		if !strings.Contains(host, ".") {
			return "", nil
		}
		if _, ok := skip[strings.ToLower(host)]; ok {
			return "", nil
		}
		return host, nil
	}
}

// NewHeaderResolver extracts tenant from HTTP header.
// Defaults to "X-Tenant-ID" if headerName is empty.
func NewHeaderResolver(headerName string) Resolver {
	if headerName == "" {
		headerName = DefaultHeaderName
	}

	return func(req *http.Request) (string, error) {
		value := strings.TrimSpace(req.Header.Get(headerName))
		if value == "" {
			return "", nil
		}
		if !isValidLabel(value) && !isValidDomain(value) {
			return "", fmt.Errorf("%w: header value '%s'", ErrInvalidIdentifier, value)
		}
		return value, nil
	}
}

// NewPathResolver extracts tenant from URL path segment at 1-based position.
// Position 2 extracts from /tenants/{id}/dashboard.
func NewPathResolver(position int) Resolver {
	return func(req *http.Request) (string, error) {
		if position < 1 {
			return "", fmt.Errorf("invalid path position: %d", position)
		}

		path := strings.Trim(req.URL.Path, "/")
		if path == "" {
			return "", nil
		}

		parts := strings.Split(path, "/")
		if position > len(parts) {
			return "", nil
		}

		value := strings.TrimSpace(parts[position-1])
		if value == "" {
			return "", nil
		}
		if !isValidLabel(value) {
			return "", fmt.Errorf("%w: path segment '%s'", ErrInvalidIdentifier, value)
		}
		return value, nil
	}
}

// NewCompositeResolver tries multiple resolvers in order, returning the first non-empty result.
// Aggregates errors from all resolvers for debugging.
func NewCompositeResolver(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (string, error) {
		var errs []error

		for _, resolver := range resolvers {
			id, err := resolver(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if id != "" {
				return id, nil
			}
		}

		if len(errs) > 0 {
			return "", fmt.Errorf("composite resolver errors: %w", errors.Join(errs...))
		}

		return "", nil
	}
}

// ResolveFromRequest is the default entry resolver: an explicit header wins,
// otherwise the Host header is used as a domain hint. Requests addressed to
// one of serviceHosts carry no host hint and run as the default tenant.
func ResolveFromRequest(headerName string, serviceHosts ...string) Resolver {
	return NewCompositeResolver(
		NewHeaderResolver(headerName),
		NewHostResolver(serviceHosts...),
	)
}
