package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

// artifactTimeLayout is ISO8601 with filesystem-safe separators.
const artifactTimeLayout = "2006-01-02T15-04-05"

const (
	dumpTool    = "mongodump"
	restoreTool = "mongorestore"
)

// BackupService produces and restores point-in-time backups of the
// currently active engine. Backup and restore manipulate the same dataset,
// so they are mutually exclusive: a second operation is rejected, never
// queued behind the first.
type BackupService struct {
	cfgStore  *store.EngineConfigStore
	backupDir string
	log       *zap.SugaredLogger

	mu sync.Mutex
}

func NewBackupService(cfgStore *store.EngineConfigStore, backupDir string) *BackupService {
	return &BackupService{
		cfgStore:  cfgStore,
		backupDir: backupDir,
		log:       zap.S().Named("backup"),
	}
}

// Create produces a new backup artifact of the active engine and returns
// its location. Partial output from a failed run is left in place for
// operator inspection, not auto-deleted.
func (s *BackupService) Create(ctx context.Context) (models.BackupArtifact, error) {
	if !s.mu.TryLock() {
		return models.BackupArtifact{}, srvErrors.NewOperationInProgressError("backup or restore")
	}
	defer s.mu.Unlock()

	cfg, err := s.cfgStore.Load()
	if err != nil {
		return models.BackupArtifact{}, err
	}

	now := time.Now()
	name, location, err := s.makeArtifactDir(databaseName(cfg), now)
	if err != nil {
		return models.BackupArtifact{}, srvErrors.NewWriteError(s.backupDir, err)
	}

	switch cfg.Engine {
	case models.EngineMongoDB:
		err = s.dumpMongo(ctx, cfg, location)
	case models.EngineSQLite:
		err = s.snapshotSQLite(cfg, location)
	default:
		err = fmt.Errorf("unknown engine type: %s", cfg.Engine)
	}
	if err != nil {
		return models.BackupArtifact{}, err
	}

	s.log.Infow("backup created", "artifact", name, "engine", cfg.Engine)
	return models.BackupArtifact{Name: name, CreatedAt: now, Location: location}, nil
}

// Restore unconditionally replaces all current data in the active store
// with the named artifact's contents. Callers must have obtained explicit
// confirmation before reaching this point. Atomicity is whatever the
// underlying restore tool provides; a partial restore is reported, not
// papered over.
func (s *BackupService) Restore(ctx context.Context, name string) error {
	if !s.mu.TryLock() {
		return srvErrors.NewOperationInProgressError("backup or restore")
	}
	defer s.mu.Unlock()

	cfg, err := s.cfgStore.Load()
	if err != nil {
		return err
	}

	location := filepath.Join(s.backupDir, filepath.Base(name))
	if info, err := os.Stat(location); err != nil || !info.IsDir() {
		return srvErrors.NewNotFoundError("backup artifact", name)
	}

	switch cfg.Engine {
	case models.EngineMongoDB:
		err = s.restoreMongo(ctx, cfg, location)
	case models.EngineSQLite:
		err = s.restoreSQLite(cfg, location)
	default:
		err = fmt.Errorf("unknown engine type: %s", cfg.Engine)
	}
	if err != nil {
		return err
	}

	s.log.Infow("backup restored", "artifact", name, "engine", cfg.Engine)
	return nil
}

// List enumerates the backup directory. A missing directory is an empty
// list, not an error.
func (s *BackupService) List() ([]models.BackupArtifact, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.BackupArtifact{}, nil
		}
		return nil, err
	}

	artifacts := make([]models.BackupArtifact, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		createdAt := artifactCreatedAt(entry.Name())
		if createdAt.IsZero() {
			if info, err := entry.Info(); err == nil {
				createdAt = info.ModTime()
			}
		}
		artifacts = append(artifacts, models.BackupArtifact{
			Name:      entry.Name(),
			CreatedAt: createdAt,
			Location:  filepath.Join(s.backupDir, entry.Name()),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	return artifacts, nil
}

// makeArtifactDir creates a collision-free {database}_{timestamp} directory.
// Two backups within the same second get distinct names via a numeric
// suffix.
func (s *BackupService) makeArtifactDir(database string, now time.Time) (string, string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", "", err
	}

	base := fmt.Sprintf("%s_%s", database, now.Format(artifactTimeLayout))
	name := base
	for attempt := 2; ; attempt++ {
		location := filepath.Join(s.backupDir, name)
		err := os.Mkdir(location, 0o755)
		if err == nil {
			return name, location, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		name = fmt.Sprintf("%s_%d", base, attempt)
	}
}

func (s *BackupService) dumpMongo(ctx context.Context, cfg models.EngineConfig, location string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, dumpTool,
		"--uri="+cfg.MongoURI,
		"--db="+cfg.MongoDB,
		"--out="+location,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return srvErrors.NewBackupToolError(dumpTool, stderr.String(), err)
	}
	return nil
}

func (s *BackupService) restoreMongo(ctx context.Context, cfg models.EngineConfig, location string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, restoreTool,
		"--uri="+cfg.MongoURI,
		"--db="+cfg.MongoDB,
		"--drop",
		"--dir="+filepath.Join(location, cfg.MongoDB),
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return srvErrors.NewRestoreToolError(restoreTool, stderr.String(), err)
	}
	return nil
}

func (s *BackupService) snapshotSQLite(cfg models.EngineConfig, location string) error {
	dst := filepath.Join(location, filepath.Base(cfg.SQLitePath))
	if err := copyFile(cfg.SQLitePath, dst); err != nil {
		return srvErrors.NewBackupToolError("sqlite snapshot", "", err)
	}
	return nil
}

func (s *BackupService) restoreSQLite(cfg models.EngineConfig, location string) error {
	src := filepath.Join(location, filepath.Base(cfg.SQLitePath))
	if _, err := os.Stat(src); err != nil {
		return srvErrors.NewNotFoundError("sqlite snapshot", src)
	}
	if err := copyFile(src, cfg.SQLitePath); err != nil {
		return srvErrors.NewRestoreToolError("sqlite snapshot", "", err)
	}
	return nil
}

func databaseName(cfg models.EngineConfig) string {
	if cfg.Engine == models.EngineMongoDB {
		return cfg.MongoDB
	}
	base := filepath.Base(cfg.SQLitePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// artifactCreatedAt recovers the creation time from a
// {database}_{timestamp} or {database}_{timestamp}_{n} artifact name.
func artifactCreatedAt(name string) time.Time {
	parts := strings.Split(name, "_")
	for i := len(parts) - 1; i >= 0; i-- {
		if _, err := strconv.Atoi(parts[i]); err == nil && i == len(parts)-1 {
			continue // collision suffix
		}
		if t, err := time.Parse(artifactTimeLayout, parts[i]); err == nil {
			return t
		}
		break
	}
	return time.Time{}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
