package v1

import (
	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/services"
)

// NewEngineConfigFromModel converts a models.EngineConfig to its API shape.
func NewEngineConfigFromModel(cfg models.EngineConfig) EngineConfig {
	return EngineConfig{
		Engine:     string(cfg.Engine),
		SQLitePath: cfg.SQLitePath,
		MongoURI:   cfg.MongoURI,
		MongoDB:    cfg.MongoDB,
	}
}

// ToModel converts an API EngineConfig to its model, validating the engine
// discriminator.
func (c EngineConfig) ToModel() (models.EngineConfig, error) {
	engine, err := models.ParseEngineType(c.Engine)
	if err != nil {
		return models.EngineConfig{}, err
	}
	return models.EngineConfig{
		Engine:     engine,
		SQLitePath: c.SQLitePath,
		MongoURI:   c.MongoURI,
		MongoDB:    c.MongoDB,
	}, nil
}

func NewCompletenessFromModel(r models.CompletenessReport) CompletenessReport {
	return CompletenessReport{
		Total:        r.Total,
		PresentNames: r.PresentNames,
		MissingNames: r.MissingNames,
		Complete:     r.Complete,
	}
}

func NewServerFromModel(s models.ServerDescriptor) ServerDescriptor {
	return ServerDescriptor{
		ID:          s.ID,
		Name:        s.Name,
		Host:        s.Host,
		Port:        s.Port,
		Database:    s.Database,
		Role:        string(s.Role),
		Status:      string(s.Status),
		Collections: NewCompletenessFromModel(s.Collections),
	}
}

func NewJobFromModel(j models.JobStatus) JobResponse {
	resp := JobResponse{
		ID:       j.ID,
		State:    string(j.State),
		Progress: j.Progress,
		Error:    j.Error,
	}
	if j.Migration != nil {
		resp.Migration = &MigrationReport{
			PerTable:      j.Migration.PerTable,
			TotalMigrated: j.Migration.TotalMigrated,
		}
	}
	if j.Sync != nil {
		perTarget := make(map[string]SyncTargetResult, len(j.Sync.PerTarget))
		for id, res := range j.Sync.PerTarget {
			perTarget[id] = SyncTargetResult{
				Outcome: string(res.Outcome),
				Detail:  res.Detail,
			}
		}
		resp.Sync = &SyncReport{PerTarget: perTarget}
	}
	return resp
}

func NewBackupFromModel(a models.BackupArtifact) BackupArtifact {
	return BackupArtifact{
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		Location:  a.Location,
	}
}

func NewInstallStatus(s services.InstallStatus) InstallStatusResponse {
	return InstallStatusResponse{
		Installed:   s.Installed,
		InstalledAt: s.InstalledAt,
		Version:     s.Version,
		Engine:      string(s.Engine),
	}
}
