package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
	"github.com/gestiondesk/datastore-agent/pkg/jobs"
)

// MongoOpener connects a document-store server by URI and database name.
// Injected so tests can substitute in-memory fakes.
type MongoOpener func(ctx context.Context, uri, database string) (store.RecordStore, error)

// ReplicaSynchronizer brings every configured secondary server to exact
// parity with the primary: per collection, drop-and-reinsert, never merge.
// Targets are isolated; an offline secondary does not abort the others.
type ReplicaSynchronizer struct {
	cfgStore *store.EngineConfigStore
	replicas []models.ServerDescriptor
	open     MongoOpener
	runner   *jobs.Runner
	log      *zap.SugaredLogger

	mu      sync.Mutex
	current *syncJob
}

type syncJob struct {
	id     string
	handle *jobs.Handle[any]
	status models.JobStatus
}

func NewReplicaSynchronizer(cfgStore *store.EngineConfigStore, replicas []models.ServerDescriptor, open MongoOpener, runner *jobs.Runner) *ReplicaSynchronizer {
	if open == nil {
		open = func(ctx context.Context, uri, database string) (store.RecordStore, error) {
			return store.OpenMongo(ctx, uri, database)
		}
	}
	return &ReplicaSynchronizer{
		cfgStore: cfgStore,
		replicas: replicas,
		open:     open,
		runner:   runner,
		log:      zap.S().Named("synchronizer"),
	}
}

// Start launches a synchronization run against all configured secondaries
// and returns the job to poll. Only one sync may run at a time.
func (s *ReplicaSynchronizer) Start(ctx context.Context) (models.JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.currentStateLocked() == models.JobStateRunning {
		return models.JobStatus{}, srvErrors.NewOperationInProgressError("replica synchronization")
	}

	cfg, err := s.cfgStore.Load()
	if err != nil {
		return models.JobStatus{}, err
	}
	if cfg.MongoURI == "" || cfg.MongoDB == "" {
		return models.JobStatus{}, srvErrors.NewConnectivityError("no primary document server configured", nil)
	}
	if len(s.replicas) == 0 {
		return models.JobStatus{}, srvErrors.NewNotFoundError("replica servers", "configured")
	}

	primaryURI, primaryDB := cfg.MongoURI, cfg.MongoDB
	targets := make([]models.ServerDescriptor, len(s.replicas))
	copy(targets, s.replicas)

	id := uuid.NewString()
	handle := s.runner.Submit(func(ctx context.Context, p *jobs.Progress) (any, error) {
		primary, err := s.open(ctx, primaryURI, primaryDB)
		if err != nil {
			return nil, srvErrors.NewConnectivityError("cannot reach primary server", err)
		}
		defer primary.Close(ctx)
		return RunSync(ctx, primary, targets, s.open, p), nil
	})

	s.current = &syncJob{
		id:     id,
		handle: handle,
		status: models.JobStatus{ID: id, State: models.JobStateRunning},
	}
	s.log.Infow("replica synchronization started", "job", id, "targets", len(targets))
	return s.current.status, nil
}

// Status reports the running or last completed sync job.
func (s *ReplicaSynchronizer) Status() (models.JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.JobStatus{}, srvErrors.NewNotFoundError("sync job", "current")
	}
	s.refreshLocked()
	return s.current.status, nil
}

func (s *ReplicaSynchronizer) currentStateLocked() models.JobState {
	s.refreshLocked()
	return s.current.status.State
}

func (s *ReplicaSynchronizer) refreshLocked() {
	j := s.current
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
			if report, ok := res.Data.(*models.SyncReport); ok {
				j.status.Sync = report
			}
		}
		j.status.Progress = 1
	default:
		j.status.Progress = j.handle.Progress()
	}
}

// RunSync copies every required collection from primary to each target. A
// collection copy is the atomic unit of progress: interruption between
// collections leaves already-synced collections in place and the report
// reflects exactly what completed.
func RunSync(ctx context.Context, primary store.RecordStore, targets []models.ServerDescriptor, open MongoOpener, p *jobs.Progress) *models.SyncReport {
	log := zap.S().Named("synchronizer")
	report := &models.SyncReport{PerTarget: make(map[string]models.SyncTargetResult, len(targets))}

	totalSteps := len(targets) * len(RequiredCollections)
	step := 0

	for _, target := range targets {
		if ctx.Err() != nil {
			report.PerTarget[target.ID] = models.SyncTargetResult{
				Outcome: models.SyncError,
				Detail:  "synchronization interrupted",
			}
			continue
		}

		rs, err := connectWithRetry(ctx, open, target)
		if err != nil {
			log.Warnw("target offline, skipping", "target", target.Name, "error", err)
			report.PerTarget[target.ID] = models.SyncTargetResult{
				Outcome: models.SyncError,
				Detail:  fmt.Sprintf("server offline: %v", err),
			}
			step += len(RequiredCollections)
			p.Set(float64(step) / float64(totalSteps))
			continue
		}

		result := syncTarget(ctx, primary, rs, target, log, func() {
			step++
			p.Set(float64(step) / float64(totalSteps))
		})
		rs.Close(ctx)
		report.PerTarget[target.ID] = result
	}

	return report
}

func syncTarget(ctx context.Context, primary, target store.RecordStore, desc models.ServerDescriptor, log *zap.SugaredLogger, tick func()) models.SyncTargetResult {
	for _, collection := range RequiredCollections {
		if ctx.Err() != nil {
			return models.SyncTargetResult{
				Outcome: models.SyncError,
				Detail:  fmt.Sprintf("interrupted before collection %s", collection),
			}
		}

		records, err := primary.ReadAll(ctx, collection)
		if err != nil {
			return models.SyncTargetResult{
				Outcome: models.SyncError,
				Detail:  fmt.Sprintf("failed to read %s from primary: %v", collection, err),
			}
		}

		if err := target.CreateCollection(ctx, collection); err != nil {
			return models.SyncTargetResult{
				Outcome: models.SyncError,
				Detail:  fmt.Sprintf("failed to create %s: %v", collection, err),
			}
		}
		// exact parity with the primary: replace, never merge
		if err := target.Clear(ctx, collection); err != nil {
			return models.SyncTargetResult{
				Outcome: models.SyncError,
				Detail:  fmt.Sprintf("failed to clear %s: %v", collection, err),
			}
		}
		if _, err := target.InsertMany(ctx, collection, records); err != nil {
			return models.SyncTargetResult{
				Outcome: models.SyncError,
				Detail:  fmt.Sprintf("failed to write %s: %v", collection, err),
			}
		}

		log.Debugw("collection synced", "target", desc.Name, "collection", collection, "records", len(records))
		tick()
	}

	return models.SyncTargetResult{Outcome: models.SyncOK}
}

// connectWithRetry probes a secondary a few times with exponential backoff
// before declaring it offline for this run.
func connectWithRetry(ctx context.Context, open MongoOpener, target models.ServerDescriptor) (store.RecordStore, error) {
	operation := func() (store.RecordStore, error) {
		rs, err := open(ctx, target.URI(), target.Database)
		if err != nil {
			return nil, err
		}
		if err := rs.Ping(ctx); err != nil {
			rs.Close(ctx)
			return nil, err
		}
		return rs, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(3),
	)
}
