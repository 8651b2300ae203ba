// Package handlers implements the HTTP API layer. Handlers delegate to the
// services layer and focus on request validation, model-to-API conversion
// and mapping the error taxonomy onto HTTP statuses.
//
// # API Endpoints
//
//	┌────────┬───────────────────────────────┬────────────────────────────────┐
//	│ Method │ Endpoint                      │ Description                    │
//	├────────┼───────────────────────────────┼────────────────────────────────┤
//	│ GET    │ /system/database              │ Active engine configuration    │
//	│ POST   │ /system/database              │ Persist engine configuration   │
//	│ POST   │ /system/database/verify       │ Verify candidate configuration │
//	│ GET    │ /system/database/overview     │ Probe document-store fleet     │
//	│ POST   │ /db/select                    │ Switch active engine           │
//	│ POST   │ /db/sync                      │ Start replica sync job         │
//	│ GET    │ /db/sync/status               │ Poll sync job                  │
//	│ POST   │ /db/migrate-to-mongo          │ Start migration job            │
//	│ GET    │ /db/migrate-to-mongo/status   │ Poll migration job             │
//	│ GET    │ /system/backups               │ List backup artifacts          │
//	│ POST   │ /system/backups               │ Create backup                  │
//	│ POST   │ /system/backups/restore       │ Restore backup (confirm)       │
//	│ GET    │ /install/status               │ Installation predicate         │
//	│ POST   │ /install                      │ Run install flow               │
//	└────────┴───────────────────────────────┴────────────────────────────────┘
//
// # Error Mapping
//
//	NotConfigured / NotFound      → 404
//	Connectivity                  → 502
//	IncompleteTarget / InProgress → 409
//	Write / tool failures         → 500
//	NotInstalled (gate)           → 503 with redirectTo hint
package handlers
