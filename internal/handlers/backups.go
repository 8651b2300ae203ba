package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/gestiondesk/datastore-agent/api/v1"
)

// ListBackups enumerates the backup artifacts
// (GET /system/backups)
func (h *Handler) ListBackups(c *gin.Context) {
	artifacts, err := h.backups.List()
	if err != nil {
		zap.S().Named("backup_handler").Errorw("failed to list backups", "error", err)
		writeError(c, err)
		return
	}

	apiBackups := make([]v1.BackupArtifact, 0, len(artifacts))
	for _, a := range artifacts {
		apiBackups = append(apiBackups, v1.NewBackupFromModel(a))
	}
	c.JSON(http.StatusOK, v1.BackupListResponse{Backups: apiBackups})
}

// CreateBackup dumps the currently active store into a new artifact
// (POST /system/backups)
func (h *Handler) CreateBackup(c *gin.Context) {
	artifact, err := h.backups.Create(c.Request.Context())
	if err != nil {
		zap.S().Named("backup_handler").Errorw("backup failed", "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v1.NewBackupFromModel(artifact))
}

// RestoreBackup replaces all current data with an artifact's contents
// (POST /system/backups/restore)
func (h *Handler) RestoreBackup(c *gin.Context) {
	var req v1.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}
	if !req.Confirm {
		// restore is destructive; the UI contract requires a second
		// explicit acknowledgement
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "confirmation_required",
			"message": "restore replaces all current data; set confirm to true",
		})
		return
	}

	if err := h.backups.Restore(c.Request.Context(), req.Name); err != nil {
		zap.S().Named("backup_handler").Errorw("restore failed", "artifact", req.Name, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": req.Name})
}
