package v1

import "time"

// EngineConfig is the wire shape of the engine selection, the same shape
// that is persisted locally.
type EngineConfig struct {
	Engine     string `json:"engine" binding:"required"`
	SQLitePath string `json:"sqlitePath,omitempty"`
	MongoURI   string `json:"mongoUri,omitempty"`
	MongoDB    string `json:"mongoDb,omitempty"`
}

type VerifyResponse struct {
	Ok   bool   `json:"ok"`
	Info string `json:"info"`
}

type CompletenessReport struct {
	Total        int      `json:"total"`
	PresentNames []string `json:"presentNames"`
	MissingNames []string `json:"missingNames"`
	Complete     bool     `json:"complete"`
}

type ServerDescriptor struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Host        string             `json:"host"`
	Port        int                `json:"port"`
	Database    string             `json:"database"`
	Role        string             `json:"role"`
	Status      string             `json:"connectionStatus"`
	Collections CompletenessReport `json:"collections"`
}

type OverviewResponse struct {
	Servers []ServerDescriptor `json:"servers"`
}

type JobResponse struct {
	ID        string           `json:"id"`
	State     string           `json:"state"`
	Progress  float64          `json:"progress"`
	Error     string           `json:"error,omitempty"`
	Migration *MigrationReport `json:"migration,omitempty"`
	Sync      *SyncReport      `json:"sync,omitempty"`
}

type MigrationReport struct {
	PerTable      map[string]int `json:"perTable"`
	TotalMigrated int            `json:"totalMigrated"`
}

type SyncTargetResult struct {
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

type SyncReport struct {
	PerTarget map[string]SyncTargetResult `json:"perTarget"`
}

type BackupArtifact struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Location  string    `json:"location"`
}

type BackupListResponse struct {
	Backups []BackupArtifact `json:"backups"`
}

type RestoreRequest struct {
	Name string `json:"name" binding:"required"`
	// Confirm must be true: restore unconditionally replaces all current
	// data in the active store.
	Confirm bool `json:"confirm"`
}

type InstallRequest struct {
	Engine EngineConfig `json:"engine" binding:"required"`
}

type InstallStatusResponse struct {
	Installed   bool       `json:"installed"`
	InstalledAt *time.Time `json:"installedAt,omitempty"`
	Version     string     `json:"version,omitempty"`
	Engine      string     `json:"engine,omitempty"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
}
