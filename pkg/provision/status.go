package provision

import "time"

// Status is the provisioning state of one schema as seen by this process.
type Status string

const (
	StatusAbsent    Status = "absent"
	StatusCreating  Status = "creating"
	StatusMigrating Status = "migrating"
	StatusReady     Status = "ready"
)

// Changeset is one applied migration.
type Changeset struct {
	Version  int64
	Source   string
	Duration time.Duration
}

// Result describes one Ensure call.
type Result struct {
	Schema string
	// Noop is true when the schema was already ready at the current baseline.
	Noop    bool
	Created bool
	Applied []Changeset
	Version int64
}

// State is a snapshot of a schema's provisioning state. LastError holds the
// failure of the most recent attempt and is cleared by a successful one.
type State struct {
	Status    Status
	Version   int64
	LastError error
	UpdatedAt time.Time
}
