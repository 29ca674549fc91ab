// Package metrics declares the Prometheus collectors of the data-access core:
// tenant registration, schema provisioning, connection leases, cache regions,
// the deduplication janitor and scheduled jobs.
//
// Every component takes an optional *Metrics; a nil value records nothing.
package metrics
