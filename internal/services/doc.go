// Package services implements the business logic of the persistence
// subsystem: engine verification and switching, bulk migration, replica
// synchronization, backups and the installation state machine.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── ConnectionVerifier ──► store.Open (round-trip only)
//	    ├── SchemaCatalog ───────► RecordStore
//	    ├── EngineSwitcher ──────► Verifier, SchemaCatalog, EngineConfigStore
//	    ├── Migrator ────────────► RecordStore × 2, jobs.Runner
//	    ├── ReplicaSynchronizer ─► RecordStore × N, jobs.Runner
//	    ├── ServerOverview ──────► RecordStore probes (errgroup fan-out)
//	    ├── BackupService ───────► mongodump/mongorestore, file snapshots
//	    └── InstallationService ─► marker store, EngineSwitcher
//
// # Engine Switch Safety
//
// SwitchTo is the single critical section of the subsystem. The whole
// sequence runs under one lock:
//
//	verify(target) ──► ensure collections ──► re-check ──► save config
//	     │                    │                   │
//	     └ ConnectivityError  └ (idempotent)      └ IncompleteTargetError
//
// A failure at any step leaves the active configuration untouched. The
// collections auto-created in step two may remain on the target when a
// later step aborts; the side effect is idempotent and non-destructive and
// is intentionally not rolled back.
//
// # Best-Effort Bulk Operations
//
// Migrator and ReplicaSynchronizer never abort a whole run on a per-item
// failure:
//
//   - A table that cannot be read is logged, reported as zero, and the run
//     continues; the migration report always has an entry for every table.
//   - A rejected row (duplicate key) is subtracted from the per-table
//     count, not escalated.
//   - An offline secondary gets an error entry in the sync report; other
//     targets still sync.
//
// Both run on the jobs.Runner off the request path and are polled through
// Status; only one run of each kind may be in flight.
//
// # Installation State Machine
//
//	┌─────────────┐   install flow    ┌────────────┐   marker written   ┌───────────┐
//	│ Uninstalled │ ────────────────► │ Installing │ ─────────────────► │ Installed │
//	└─────────────┘                   └────────────┘                    └───────────┘
//	       ▲                                                                  │
//	       └──────────────────── clean (operator CLI) ────────────────────────┘
//
// Installing is not persisted; it is the in-progress install execution.
// The marker is written only after the engine configuration is durably
// saved, so a crash mid-install leaves the system Uninstalled and the flow
// can simply be re-run.
package services
