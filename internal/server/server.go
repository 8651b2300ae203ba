package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/config"
	"github.com/gestiondesk/datastore-agent/internal/server/middlewares"
)

const shutdownTimeout = 10 * time.Second

type RegisterHandlersFn func(router *gin.RouterGroup)

// Server is the HTTP front of the agent. Development mode serves the API
// only; production mode additionally serves the UI statics with SPA
// fallback.
type Server struct {
	cfg        *config.Configuration
	httpServer *http.Server
	log        *zap.SugaredLogger
}

// NewServer builds the router and registers the API handlers under
// /api/v1. The gate middleware wraps every route; registerFn receives the
// /api/v1 group.
func NewServer(cfg *config.Configuration, installed func() bool, registerFn RegisterHandlersFn) (*Server, error) {
	if cfg.Server.ServerMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middlewares.Logger())
	router.Use(ginzap.RecoveryWithZap(zap.L().Named("http"), true))
	router.Use(middlewares.InstallationGate(installed))

	api := router.Group("/api/v1")
	registerFn(api)

	if cfg.Server.ServerMode == "prod" && cfg.Server.StaticsFolder != "" {
		registerStatics(router, cfg.Server.StaticsFolder)
	}

	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler: router,
		},
		log: zap.S().Named("server"),
	}, nil
}

// Start blocks until the listener fails or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.log.Infow("http server starting",
		"port", s.cfg.Server.HTTPPort,
		"mode", s.cfg.Server.ServerMode,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop performs a graceful shutdown, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.log.Info("http server stopping")
	return s.httpServer.Shutdown(ctx)
}

// registerStatics wires UI file serving: known asset paths from the
// statics folder, everything that is not an API route falls back to
// index.html for the SPA router.
func registerStatics(router *gin.Engine, folder string) {
	router.Static("/static", folder)
	router.StaticFile("/favicon.ico", filepath.Join(folder, "favicon.ico"))
	router.StaticFile("/", filepath.Join(folder, "index.html"))

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "no such endpoint"})
			return
		}
		c.File(filepath.Join(folder, "index.html"))
	})
}
