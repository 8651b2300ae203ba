package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestiondesk/datastore-agent/internal/services"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

type Handler struct {
	cfgStore     *store.EngineConfigStore
	verifier     services.Verifier
	switcher     *services.EngineSwitcher
	migrator     *services.Migrator
	synchronizer *services.ReplicaSynchronizer
	overview     *services.ServerOverview
	backups      *services.BackupService
	install      *services.InstallationService
}

func New(
	cfgStore *store.EngineConfigStore,
	verifier services.Verifier,
	switcher *services.EngineSwitcher,
	migrator *services.Migrator,
	synchronizer *services.ReplicaSynchronizer,
	overview *services.ServerOverview,
	backups *services.BackupService,
	install *services.InstallationService,
) *Handler {
	return &Handler{
		cfgStore:     cfgStore,
		verifier:     verifier,
		switcher:     switcher,
		migrator:     migrator,
		synchronizer: synchronizer,
		overview:     overview,
		backups:      backups,
		install:      install,
	}
}

// writeError maps the service error taxonomy onto HTTP statuses. Every
// failure body carries enough detail to act on without reading server logs.
func writeError(c *gin.Context, err error) {
	switch {
	case srvErrors.IsNotConfiguredError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_configured", "message": err.Error()})
	case srvErrors.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case srvErrors.IsConnectivityError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "connectivity", "message": err.Error()})
	case srvErrors.IsIncompleteTargetError(err):
		c.JSON(http.StatusConflict, gin.H{"error": "incomplete_target", "message": err.Error()})
	case srvErrors.IsOperationInProgressError(err):
		c.JSON(http.StatusConflict, gin.H{"error": "operation_in_progress", "message": err.Error()})
	case srvErrors.IsWriteError(err):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write_failed", "message": err.Error()})
	case srvErrors.IsBackupToolError(err):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backup_tool", "message": err.Error()})
	case srvErrors.IsRestoreToolError(err):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "restore_tool", "message": err.Error()})
	case srvErrors.IsNotInstalledError(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "not_installed", "message": err.Error(), "redirectTo": "/install"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": err.Error()})
	}
}
