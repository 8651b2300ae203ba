// Command datastore-agent runs the CRM persistence service: the HTTP API
// for engine selection, verification, switching, migration, replica
// synchronization and backups.
//
// # Usage
//
//	# Run the agent
//	datastore-agent serve --config /etc/datastore-agent/config.yaml
//
//	# Return an installed system to the Uninstalled state (backs up first)
//	datastore-agent clean --config /etc/datastore-agent/config.yaml
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gestiondesk/datastore-agent/internal/config"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "datastore-agent",
		Short:         "CRM persistence engine agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to configuration file")

	rootCmd.AddCommand(newServeCommand(), newCleanCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg); err != nil {
				return err
			}
			defer zap.L().Sync() //nolint:errcheck

			app, err := newApplication(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- app.server.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				zap.S().Info("shutdown signal received")
				return app.server.Stop(cmd.Context())
			case err := <-errCh:
				return err
			}
		},
	}
}

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Back up and uninstall: removes the lock marker and engine configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg); err != nil {
				return err
			}

			app, err := newApplication(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.install.Clean(cmd.Context(), app.backups)
		},
	}
}

func setupLogging(cfg *config.Configuration) error {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
