package provision

import (
	"errors"
	"fmt"
)

var (
	ErrNoSchema          = errors.New("tenant has no schema assigned")
	ErrInvalidSchemaName = errors.New("invalid schema name")
	ErrNoChangesets      = errors.New("no changesets found")
)

// ChangesetError identifies the changeset that failed. Every changeset
// before it stays applied.
type ChangesetError struct {
	Schema  string
	Version int64
	Source  string
	Err     error
}

func (e *ChangesetError) Error() string {
	return fmt.Sprintf("changeset %d (%s) on schema %s: %v", e.Version, e.Source, e.Schema, e.Err)
}

func (e *ChangesetError) Unwrap() error {
	return e.Err
}
