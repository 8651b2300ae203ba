package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/gestiondesk/datastore-agent/api/v1"
)

// GetDatabaseConfig returns the active engine configuration
// (GET /system/database)
func (h *Handler) GetDatabaseConfig(c *gin.Context) {
	cfg, err := h.cfgStore.Load()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewEngineConfigFromModel(cfg))
}

// SaveDatabaseConfig persists a new engine configuration without switching
// (POST /system/database)
func (h *Handler) SaveDatabaseConfig(c *gin.Context) {
	var req v1.EngineConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	cfg, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	if err := h.cfgStore.Save(cfg); err != nil {
		zap.S().Named("system_handler").Errorw("failed to save engine config", "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewEngineConfigFromModel(cfg))
}

// VerifyDatabaseConfig checks connectivity of a candidate configuration
// (POST /system/database/verify)
func (h *Handler) VerifyDatabaseConfig(c *gin.Context) {
	var req v1.EngineConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	cfg, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}

	ok, info := h.verifier.Verify(c.Request.Context(), cfg)
	c.JSON(http.StatusOK, v1.VerifyResponse{Ok: ok, Info: info})
}

// GetDatabaseOverview probes the document-store fleet
// (GET /system/database/overview)
func (h *Handler) GetDatabaseOverview(c *gin.Context) {
	servers, err := h.overview.Describe(c.Request.Context())
	if err != nil {
		zap.S().Named("system_handler").Errorw("overview probe failed", "error", err)
		writeError(c, err)
		return
	}

	apiServers := make([]v1.ServerDescriptor, 0, len(servers))
	for _, s := range servers {
		apiServers = append(apiServers, v1.NewServerFromModel(s))
	}
	c.JSON(http.StatusOK, v1.OverviewResponse{Servers: apiServers})
}
