package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
	"github.com/gestiondesk/datastore-agent/pkg/jobs"
)

// jsonEncodedFields lists the columns that carry JSON-serialized
// sub-structures in the relational engine and must become structured values
// in the document engine.
var jsonEncodedFields = map[string][]string{
	"tickets": {"annotations", "attachments", "audio_notes"},
	"budgets": {"sections"},
}

// timestampFields are coerced from strings to native dates when parseable.
var timestampFields = []string{"created_at", "updated_at", "createdAt", "updatedAt"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Migrator bulk-copies every CRM table from the relational store into the
// document store, best effort: one bad row or one bad table never aborts
// the run, and the report always carries an entry for every table.
type Migrator struct {
	cfgStore *store.EngineConfigStore
	open     StoreOpener
	runner   *jobs.Runner
	log      *zap.SugaredLogger

	mu      sync.Mutex
	current *migrationJob
}

type migrationJob struct {
	id     string
	handle *jobs.Handle[any]
	status models.JobStatus
}

func NewMigrator(cfgStore *store.EngineConfigStore, open StoreOpener, runner *jobs.Runner) *Migrator {
	if open == nil {
		open = store.Open
	}
	return &Migrator{
		cfgStore: cfgStore,
		open:     open,
		runner:   runner,
		log:      zap.S().Named("migrator"),
	}
}

// Start launches a migration run off the request path and returns the job
// to poll. Only one migration may run at a time.
func (m *Migrator) Start(ctx context.Context) (models.JobStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.currentStateLocked() == models.JobStateRunning {
		return models.JobStatus{}, srvErrors.NewOperationInProgressError("migration")
	}

	cfg, err := m.cfgStore.Load()
	if err != nil {
		return models.JobStatus{}, err
	}
	source := models.EngineConfig{Engine: models.EngineSQLite, SQLitePath: cfg.SQLitePath}
	target := models.EngineConfig{Engine: models.EngineMongoDB, MongoURI: cfg.MongoURI, MongoDB: cfg.MongoDB}
	if err := source.Validate(); err != nil {
		return models.JobStatus{}, srvErrors.NewConnectivityError("no relational source configured", err)
	}
	if err := target.Validate(); err != nil {
		return models.JobStatus{}, srvErrors.NewConnectivityError("no document target configured", err)
	}

	id := uuid.NewString()
	handle := m.runner.Submit(func(ctx context.Context, p *jobs.Progress) (any, error) {
		return m.run(ctx, source, target, p)
	})

	m.current = &migrationJob{
		id:     id,
		handle: handle,
		status: models.JobStatus{ID: id, State: models.JobStateRunning},
	}
	m.log.Infow("migration started", "job", id)
	return m.current.status, nil
}

// Status reports the running or last completed migration job.
func (m *Migrator) Status() (models.JobStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return models.JobStatus{}, srvErrors.NewNotFoundError("migration job", "current")
	}
	m.refreshLocked()
	return m.current.status, nil
}

func (m *Migrator) currentStateLocked() models.JobState {
	m.refreshLocked()
	return m.current.status.State
}

func (m *Migrator) refreshLocked() {
	j := m.current
	if j.status.State != models.JobStateRunning {
		return
	}
	select {
	case res := <-j.handle.C():
		if res.Err != nil {
			j.status.State = models.JobStateFailed
			j.status.Error = res.Err.Error()
		} else {
			j.status.State = models.JobStateCompleted
			if report, ok := res.Data.(*models.MigrationReport); ok {
				j.status.Migration = report
			}
		}
		j.status.Progress = 1
	default:
		j.status.Progress = j.handle.Progress()
	}
}

func (m *Migrator) run(ctx context.Context, source, target models.EngineConfig, p *jobs.Progress) (*models.MigrationReport, error) {
	src, err := m.open(ctx, source)
	if err != nil {
		return nil, srvErrors.NewConnectivityError("cannot open relational source", err)
	}
	defer src.Close(ctx)

	dst, err := m.open(ctx, target)
	if err != nil {
		return nil, srvErrors.NewConnectivityError("cannot open document target", err)
	}
	defer dst.Close(ctx)

	return RunMigration(ctx, src, dst, p), nil
}

// RunMigration copies every table in MigrationOrder from source to target.
// An error on one table is logged, recorded as zero, and the run moves on;
// the report is always complete across all tables.
func RunMigration(ctx context.Context, source, target store.RecordStore, p *jobs.Progress) *models.MigrationReport {
	log := zap.S().Named("migrator")
	report := &models.MigrationReport{PerTable: make(map[string]int, len(MigrationOrder))}

	for i, table := range MigrationOrder {
		report.PerTable[table] = 0

		records, err := source.ReadAll(ctx, table)
		if err != nil {
			log.Errorw("failed to read table, skipping", "table", table, "error", err)
			p.Set(float64(i+1) / float64(len(MigrationOrder)))
			continue
		}
		if len(records) == 0 {
			p.Set(float64(i+1) / float64(len(MigrationOrder)))
			continue
		}

		docs := make([]store.Record, 0, len(records))
		for _, rec := range records {
			docs = append(docs, transformRecord(table, rec))
		}

		if err := target.CreateCollection(ctx, table); err != nil {
			log.Errorw("failed to ensure collection, skipping table", "table", table, "error", err)
			p.Set(float64(i+1) / float64(len(MigrationOrder)))
			continue
		}

		inserted, err := target.InsertMany(ctx, table, docs)
		if err != nil {
			log.Errorw("bulk insert failed", "table", table, "error", err)
		}
		report.PerTable[table] = inserted
		report.TotalMigrated += inserted
		if inserted < len(docs) {
			log.Infow("some rows were rejected", "table", table,
				"source", len(docs), "inserted", inserted)
		}

		p.Set(float64(i+1) / float64(len(MigrationOrder)))
	}

	return report
}

// transformRecord reshapes a relational row into its document form: the
// relational identifier moves to sourceId so it never collides with the
// document store's native identifier, JSON-string sub-fields become
// structured values, and timestamp strings become native dates.
func transformRecord(table string, rec store.Record) store.Record {
	doc := make(store.Record, len(rec))
	for k, v := range rec {
		doc[k] = v
	}

	if id, ok := doc["id"]; ok {
		doc["sourceId"] = id
		delete(doc, "id")
	}

	for _, field := range jsonEncodedFields[table] {
		raw, ok := doc[field]
		if !ok {
			continue
		}
		doc[field] = decodeJSONField(raw)
	}

	for _, field := range timestampFields {
		raw, ok := doc[field].(string)
		if !ok {
			continue
		}
		if t, ok := parseTimestamp(raw); ok {
			doc[field] = t
		}
	}

	return doc
}

// decodeJSONField parses a JSON-string sub-field. Unparseable content is
// replaced by an empty list rather than aborting the table.
func decodeJSONField(raw any) any {
	s, ok := raw.(string)
	if !ok || s == "" {
		return []any{}
	}
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return []any{}
	}
	if parsed == nil {
		return []any{}
	}
	return parsed
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
