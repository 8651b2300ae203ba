package main

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gestiondesk/datastore-agent/internal/config"
	"github.com/gestiondesk/datastore-agent/internal/handlers"
	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/server"
	"github.com/gestiondesk/datastore-agent/internal/services"
	"github.com/gestiondesk/datastore-agent/internal/store"
	"github.com/gestiondesk/datastore-agent/pkg/jobs"
)

// application wires stores, services, handlers and the HTTP server
// together.
type application struct {
	server  *server.Server
	runner  *jobs.Runner
	install *services.InstallationService
	backups *services.BackupService
}

func newApplication(cfg *config.Configuration) (*application, error) {
	cfgStore := store.NewEngineConfigStore(cfg.Data.DataFolder)
	marker := store.NewInstallationStore(cfg.Data.DataFolder)

	runner := jobs.NewRunner(cfg.Data.NumWorkers)

	replicas := make([]models.ServerDescriptor, 0, len(cfg.Replicas))
	for _, r := range cfg.Replicas {
		name := r.Name
		if name == "" {
			name = r.Host + ":" + strconv.Itoa(r.Port)
		}
		replicas = append(replicas, models.ServerDescriptor{
			ID:       uuid.NewString(),
			Name:     name,
			Host:     r.Host,
			Port:     r.Port,
			Database: r.Database,
			Role:     models.ServerRoleSecondary,
		})
	}

	catalog := services.NewSchemaCatalog()
	verifier := services.NewConnectionVerifier()
	switcher := services.NewEngineSwitcher(cfgStore, verifier, catalog, nil)
	migrator := services.NewMigrator(cfgStore, nil, runner)
	synchronizer := services.NewReplicaSynchronizer(cfgStore, replicas, nil, runner)
	overview := services.NewServerOverview(cfgStore, catalog, replicas, nil)
	backups := services.NewBackupService(cfgStore, cfg.Data.BackupFolder)
	install := services.NewInstallationService(marker, cfgStore, switcher, cfg.Version, cfg.Environment)

	handler := handlers.New(cfgStore, verifier, switcher, migrator, synchronizer, overview, backups, install)

	srv, err := server.NewServer(cfg, install.Installed, func(router *gin.RouterGroup) {
		registerRoutes(router, handler)
	})
	if err != nil {
		return nil, err
	}

	return &application{
		server:  srv,
		runner:  runner,
		install: install,
		backups: backups,
	}, nil
}

func registerRoutes(router *gin.RouterGroup, h *handlers.Handler) {
	system := router.Group("/system")
	{
		system.GET("/database", h.GetDatabaseConfig)
		system.POST("/database", h.SaveDatabaseConfig)
		system.POST("/database/verify", h.VerifyDatabaseConfig)
		system.GET("/database/overview", h.GetDatabaseOverview)

		system.GET("/backups", h.ListBackups)
		system.POST("/backups", h.CreateBackup)
		system.POST("/backups/restore", h.RestoreBackup)
	}

	db := router.Group("/db")
	{
		db.POST("/select", h.SelectEngine)
		db.POST("/sync", h.StartSync)
		db.GET("/sync/status", h.GetSyncStatus)
		db.POST("/migrate-to-mongo", h.StartMigration)
		db.GET("/migrate-to-mongo/status", h.GetMigrationStatus)
	}

	install := router.Group("/install")
	{
		install.GET("/status", h.GetInstallStatus)
		install.POST("", h.RunInstall)
	}
}

func (a *application) Close() {
	a.runner.Close()
}
