package models

import "time"

// MigrationReport summarizes one best-effort migration run. PerTable always
// carries an entry for every table in the migration order, including tables
// that migrated zero rows or failed outright.
type MigrationReport struct {
	PerTable      map[string]int `json:"perTable"`
	TotalMigrated int            `json:"totalMigrated"`
}

type SyncOutcome string

const (
	SyncOK    SyncOutcome = "ok"
	SyncError SyncOutcome = "error"
)

type SyncTargetResult struct {
	Outcome SyncOutcome `json:"outcome"`
	Detail  string      `json:"detail,omitempty"`
}

// SyncReport summarizes one replica synchronization run across all targets.
type SyncReport struct {
	PerTarget map[string]SyncTargetResult `json:"perTarget"`
}

// BackupArtifact is a named, timestamped backup output enumerated from the
// backup directory. Artifacts are deleted only by external operator action.
type BackupArtifact struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Location  string    `json:"location"`
}

type JobState string

const (
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// JobStatus is the poll-side view of a long-running migrate or sync job.
type JobStatus struct {
	ID        string           `json:"id"`
	State     JobState         `json:"state"`
	Progress  float64          `json:"progress"`
	Error     string           `json:"error,omitempty"`
	Migration *MigrationReport `json:"migration,omitempty"`
	Sync      *SyncReport      `json:"sync,omitempty"`
}
