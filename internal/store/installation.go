package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/gestiondesk/datastore-agent/internal/models"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

// installMarkerFile is the lock marker whose presence makes the system
// Installed.
const installMarkerFile = "installed.lock"

// InstallationStore persists the installation lock marker under the data
// folder. The marker is written only after the engine configuration is
// durably saved, so a crash mid-install leaves the system Uninstalled.
type InstallationStore struct {
	path string
	mu   sync.Mutex
}

func NewInstallationStore(dataFolder string) *InstallationStore {
	return &InstallationStore{path: filepath.Join(dataFolder, installMarkerFile)}
}

func (s *InstallationStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *InstallationStore) Load() (models.InstallationRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.InstallationRecord{}, srvErrors.NewNotInstalledError()
	}
	var rec models.InstallationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.InstallationRecord{}, srvErrors.NewNotInstalledError()
	}
	return rec, nil
}

func (s *InstallationStore) Write(rec models.InstallationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return srvErrors.NewWriteError(s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return srvErrors.NewWriteError(s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), installMarkerFile+".*")
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
	return nil
}

// Remove deletes the marker, returning the system to Uninstalled. Missing
// marker is not an error so the clean flow stays idempotent.
func (s *InstallationStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return srvErrors.NewWriteError(s.path, err)
	}
	return nil
}

func (s *InstallationStore) Path() string { return s.path }
