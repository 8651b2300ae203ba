// Package store implements the data access layer for the datastore agent.
//
// Two structurally different engines live behind one narrow contract: a
// single-file embedded relational store (sqlite) and a replica-style
// document store (mongodb). Everything above this package is written
// against RecordStore only, never against driver types.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      RecordStore (contract)                     │
//	│   Ping │ ListCollections │ CreateCollection │ ReadAll           │
//	│   InsertMany (unordered) │ Clear │ Close                        │
//	├────────────────────────────────┬────────────────────────────────┤
//	│          SQLiteStore           │           MongoStore           │
//	│              ▼                 │               ▼                │
//	│   database/sql + go-sqlite3    │          mongo-driver          │
//	│   squirrel query building      │     bson documents, bulk ops   │
//	└────────────────────────────────┴────────────────────────────────┘
//
// # Engine Differences Reconciled Here
//
//	┌──────────────────┬─────────────────────┬──────────────────────────┐
//	│ Concern          │ SQLiteStore         │ MongoStore               │
//	├──────────────────┼─────────────────────┼──────────────────────────┤
//	│ Identifier       │ INTEGER id column   │ ObjectID _id             │
//	│ Nested values    │ JSON-string columns │ native sub-documents     │
//	│ CreateCollection │ CREATE TABLE IF NOT │ createCollection, code   │
//	│                  │ EXISTS (tableDDL)   │ 48 treated as no-op      │
//	│ InsertMany       │ row-at-a-time,      │ single unordered bulk,   │
//	│                  │ rejects skipped     │ write errors subtracted  │
//	└──────────────────┴─────────────────────┴──────────────────────────┘
//
// InsertMany on both engines is duplicate-tolerant: a rejected record
// never blocks the rest of the batch, and the returned count reflects only
// what actually went in.
//
// # Local State Stores
//
// Besides the record engines, this package owns the two pieces of durable
// local state:
//
//	┌────────────────────┬────────────────┬───────────────────────────────┐
//	│ Store              │ File           │ Purpose                       │
//	├────────────────────┼────────────────┼───────────────────────────────┤
//	│ EngineConfigStore  │ engine.json    │ active engine selection       │
//	│ InstallationStore  │ installed.lock │ installation predicate marker │
//	└────────────────────┴────────────────┴───────────────────────────────┘
//
// Both write through a temp file plus rename so no crash leaves a
// half-written file, and both report unreadable state as a typed
// not-configured/not-installed error instead of failing the process.
package store
