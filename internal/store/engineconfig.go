package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/models"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

// engineConfigFile is the on-disk name of the active-engine selection under
// the data folder.
const engineConfigFile = "engine.json"

// EngineConfigStore persists the single active EngineConfig to a local JSON
// file. The file is read once and cached; writers are serialized and writes
// go through a temp file plus rename so a crash never leaves a half-written
// config behind.
type EngineConfigStore struct {
	path string

	mu     sync.RWMutex
	cached *models.EngineConfig
}

func NewEngineConfigStore(dataFolder string) *EngineConfigStore {
	return &EngineConfigStore{path: filepath.Join(dataFolder, engineConfigFile)}
}

// Load returns the active engine configuration. A missing or unparseable
// file is reported as NotConfiguredError, never as a fatal crash, so the
// installation flow can recover by re-running install.
func (s *EngineConfigStore) Load() (models.EngineConfig, error) {
	s.mu.RLock()
	if s.cached != nil {
		cfg := *s.cached
		s.mu.RUnlock()
		return cfg, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.EngineConfig{}, srvErrors.NewNotConfiguredError()
	}

	var cfg models.EngineConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		zap.S().Named("engine_config").Warnw("unparseable engine config, treating as not configured",
			"path", s.path, "error", err)
		return models.EngineConfig{}, srvErrors.NewNotConfiguredError()
	}
	if err := cfg.Validate(); err != nil {
		zap.S().Named("engine_config").Warnw("invalid engine config, treating as not configured",
			"path", s.path, "error", err)
		return models.EngineConfig{}, srvErrors.NewNotConfiguredError()
	}

	s.cached = &cfg
	return cfg, nil
}

// Save atomically replaces the persisted configuration and the cache. The
// last writer to acquire the lock wins; its value is what subsequent Load
// calls observe.
func (s *EngineConfigStore) Save(cfg models.EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return srvErrors.NewWriteError(s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return srvErrors.NewWriteError(s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return srvErrors.NewWriteError(s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), engineConfigFile+".*")
	if err != nil {
		return srvErrors.NewWriteError(s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return srvErrors.NewWriteError(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return srvErrors.NewWriteError(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return srvErrors.NewWriteError(s.path, err)
	}

	s.cached = &cfg
	return nil
}

// Remove deletes the persisted configuration and drops the cache. Used only
// by the operator-invoked clean flow.
func (s *EngineConfigStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return srvErrors.NewWriteError(s.path, err)
	}
	return nil
}

func (s *EngineConfigStore) Path() string { return s.path }
