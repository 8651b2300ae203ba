// Package config defines the static configuration for the datastore agent.
//
// Configuration is organized into logical sections (Server, Data, Replicas)
// and is loaded once at startup from an optional YAML file plus DATASTORE_*
// environment overrides, with struct-tag defaults applied first.
//
// The ACTIVE ENGINE SELECTION IS NOT HERE. Which engine the application
// runs against is runtime state owned by store.EngineConfigStore and is
// mutable through the switch endpoint; this package only carries the
// process-level knobs that never change while the agent runs.
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	│ StaticsFolder    │ ""      │ Path to static files for UI            │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Data Configuration
//
//	┌───────────────┬───────────┬──────────────────────────────────────────┐
//	│ Field         │ Default   │ Description                              │
//	├───────────────┼───────────┼──────────────────────────────────────────┤
//	│ DataFolder    │ "data"    │ Engine config, install marker, sqlite db │
//	│ BackupFolder  │ "backups" │ Backup artifact directory                │
//	│ NumWorkers    │ 2         │ Worker pool size for migrate/sync jobs   │
//	└───────────────┴───────────┴──────────────────────────────────────────┘
//
// # Replicas
//
// Each entry describes one secondary document-store server the
// synchronizer keeps at parity with the primary:
//
//	replicas:
//	  - name: branch-office
//	    host: 10.0.0.12
//	    port: 27017
//	    database: crm
//
// # Usage
//
//	cfg, err := config.Load("/etc/datastore-agent/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
