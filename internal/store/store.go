package store

import (
	"context"
	"fmt"

	"github.com/gestiondesk/datastore-agent/internal/models"
)

// Record is one logical row or document, shuttled between engines as a
// generic map. The relational engine flattens typed columns into it; the
// document engine round-trips it through BSON.
type Record = map[string]any

// RecordStore is the narrow capability contract both engines implement. All
// orchestration logic (switcher, migrator, synchronizer) is written against
// this interface only, never against driver types.
type RecordStore interface {
	// Ping performs a lightweight round-trip against the target.
	Ping(ctx context.Context) error

	// ListCollections returns the names of all collections/tables present.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateCollection creates an empty collection. Creating a collection
	// that already exists is a no-op, never an error.
	CreateCollection(ctx context.Context, name string) error

	// ReadAll returns every record of a collection.
	ReadAll(ctx context.Context, collection string) ([]Record, error)

	// InsertMany inserts records in unordered mode and returns the number
	// actually inserted. A duplicate-key rejection for one record must not
	// block insertion of the remaining records.
	InsertMany(ctx context.Context, collection string, records []Record) (int, error)

	// Clear removes every record from a collection, leaving it present.
	Clear(ctx context.Context, collection string) error

	Close(ctx context.Context) error
}

// Open connects the engine selected by cfg and returns its RecordStore.
func Open(ctx context.Context, cfg models.EngineConfig) (RecordStore, error) {
	switch cfg.Engine {
	case models.EngineSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case models.EngineMongoDB:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, fmt.Errorf("unknown engine type: %s", cfg.Engine)
	}
}
