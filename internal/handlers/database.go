package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/gestiondesk/datastore-agent/api/v1"
)

// SelectEngine switches the active engine, verify-then-commit
// (POST /db/select)
func (h *Handler) SelectEngine(c *gin.Context) {
	var req v1.EngineConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	target, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	if err := h.switcher.SwitchTo(c.Request.Context(), target); err != nil {
		zap.S().Named("db_handler").Errorw("engine switch failed", "engine", target.Engine, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewEngineConfigFromModel(target))
}

// StartSync launches replica synchronization as a background job
// (POST /db/sync)
func (h *Handler) StartSync(c *gin.Context) {
	status, err := h.synchronizer.Start(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, v1.NewJobFromModel(status))
}

// GetSyncStatus polls the running or last completed sync job
// (GET /db/sync/status)
func (h *Handler) GetSyncStatus(c *gin.Context) {
	status, err := h.synchronizer.Status()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewJobFromModel(status))
}

// StartMigration launches the relational-to-document bulk migration
// (POST /db/migrate-to-mongo)
func (h *Handler) StartMigration(c *gin.Context) {
	status, err := h.migrator.Start(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, v1.NewJobFromModel(status))
}

// GetMigrationStatus polls the running or last completed migration job
// (GET /db/migrate-to-mongo/status)
func (h *Handler) GetMigrationStatus(c *gin.Context) {
	status, err := h.migrator.Status()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewJobFromModel(status))
}
