package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

// InstallationService owns the Uninstalled → Installing → Installed state
// machine. Installed means the lock marker exists and an engine
// configuration resolves; there is no separately persisted Installing
// state, it is simply the in-progress install flow.
type InstallationService struct {
	marker   *store.InstallationStore
	cfgStore *store.EngineConfigStore
	switcher *EngineSwitcher
	version  string
	env      string
	log      *zap.SugaredLogger

	mu sync.Mutex
}

func NewInstallationService(marker *store.InstallationStore, cfgStore *store.EngineConfigStore, switcher *EngineSwitcher, version, env string) *InstallationService {
	return &InstallationService{
		marker:   marker,
		cfgStore: cfgStore,
		switcher: switcher,
		version:  version,
		env:      env,
		log:      zap.S().Named("install"),
	}
}

// Installed is the gate predicate: lock marker present and a parseable
// engine configuration.
func (s *InstallationService) Installed() bool {
	if !s.marker.Exists() {
		return false
	}
	_, err := s.cfgStore.Load()
	return err == nil
}

type InstallStatus struct {
	Installed   bool                       `json:"installed"`
	InstalledAt *time.Time                 `json:"installedAt,omitempty"`
	Version     string                     `json:"version,omitempty"`
	Engine      models.EngineType          `json:"engine,omitempty"`
	Record      *models.InstallationRecord `json:"-"`
}

func (s *InstallationService) Status() InstallStatus {
	if !s.Installed() {
		return InstallStatus{Installed: false}
	}

	status := InstallStatus{Installed: true}
	if rec, err := s.marker.Load(); err == nil {
		status.InstalledAt = &rec.InstalledAt
		status.Version = rec.Version
		status.Record = &rec
	}
	if cfg, err := s.cfgStore.Load(); err == nil {
		status.Engine = cfg.Engine
	}
	return status
}

// Install runs the install flow: verify and provision the chosen engine,
// durably save its configuration, then write the lock marker. The marker
// goes last so a crash mid-install leaves the system Uninstalled and the
// flow can simply be re-run.
func (s *InstallationService) Install(ctx context.Context, cfg models.EngineConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Installed() {
		return srvErrors.NewOperationInProgressError("installation (already installed)")
	}

	// SwitchTo is verify-then-commit, exactly the discipline install needs
	if err := s.switcher.SwitchTo(ctx, cfg); err != nil {
		return err
	}

	rec := models.InstallationRecord{
		InstalledAt: time.Now().UTC(),
		Version:     s.version,
		Environment: s.env,
	}
	if err := s.marker.Write(rec); err != nil {
		return err
	}

	s.log.Infow("installation completed", "engine", cfg.Engine, "version", s.version)
	return nil
}

// Clean is the operator-invoked reverse of Install: back up the active
// store, then delete the marker and the engine configuration, returning the
// system to Uninstalled.
func (s *InstallationService) Clean(ctx context.Context, backups *BackupService) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.marker.Exists() {
		return srvErrors.NewNotInstalledError()
	}

	if artifact, err := backups.Create(ctx); err != nil {
		s.log.Warnw("pre-clean backup failed, continuing", "error", err)
	} else {
		s.log.Infow("pre-clean backup created", "artifact", artifact.Name)
	}

	if err := s.marker.Remove(); err != nil {
		return err
	}
	if err := s.cfgStore.Remove(); err != nil {
		return err
	}

	s.log.Infow("installation cleaned, system is uninstalled")
	return nil
}
