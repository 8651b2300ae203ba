package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/gestiondesk/datastore-agent/api/v1"
)

// GetInstallStatus reports the installation predicate
// (GET /install/status)
func (h *Handler) GetInstallStatus(c *gin.Context) {
	c.JSON(http.StatusOK, v1.NewInstallStatus(h.install.Status()))
}

// RunInstall executes the install flow: verify and provision the chosen
// engine, save its configuration, then write the lock marker
// (POST /install)
func (h *Handler) RunInstall(c *gin.Context) {
	var req v1.InstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	cfg, err := req.Engine.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	if err := h.install.Install(c.Request.Context(), cfg); err != nil {
		zap.S().Named("install_handler").Errorw("install failed", "engine", cfg.Engine, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v1.NewInstallStatus(h.install.Status()))
}
