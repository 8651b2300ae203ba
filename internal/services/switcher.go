package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

// StoreOpener connects an engine configuration to its RecordStore. Injected
// so tests can substitute in-memory fakes.
type StoreOpener func(ctx context.Context, cfg models.EngineConfig) (store.RecordStore, error)

// EngineSwitcher performs the non-destructive change of the active engine:
// verify the target, provision missing collections, re-check, then commit.
// A failed switch never touches the active configuration.
type EngineSwitcher struct {
	cfgStore *store.EngineConfigStore
	verifier Verifier
	catalog  *SchemaCatalog
	open     StoreOpener
	log      *zap.SugaredLogger

	// mu spans the whole verify+prepare+commit sequence so two concurrent
	// switch requests cannot interleave and leave the active configuration
	// ambiguous.
	mu sync.Mutex
}

func NewEngineSwitcher(cfgStore *store.EngineConfigStore, verifier Verifier, catalog *SchemaCatalog, open StoreOpener) *EngineSwitcher {
	if open == nil {
		open = store.Open
	}
	return &EngineSwitcher{
		cfgStore: cfgStore,
		verifier: verifier,
		catalog:  catalog,
		open:     open,
		log:      zap.S().Named("switcher"),
	}
}

// SwitchTo makes target the active engine. Ordering is the safety property:
// verify and prepare before commit. Auto-created collections may remain on
// the target even when the switch aborts later; that side effect is
// idempotent and non-destructive and is deliberately not rolled back.
func (s *EngineSwitcher) SwitchTo(ctx context.Context, target models.EngineConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, info := s.verifier.Verify(ctx, target)
	if !ok {
		s.log.Warnw("switch aborted, target not reachable", "engine", target.Engine, "info", info)
		return srvErrors.NewConnectivityError(info, nil)
	}

	rs, err := s.open(ctx, target)
	if err != nil {
		return srvErrors.NewConnectivityError(err.Error(), err)
	}
	defer rs.Close(ctx)

	if err := s.catalog.EnsureCollections(ctx, rs); err != nil {
		return srvErrors.NewConnectivityError("failed to provision required collections", err)
	}

	report, err := s.catalog.CheckCompleteness(ctx, rs)
	if err != nil {
		return srvErrors.NewConnectivityError("failed to re-check target completeness", err)
	}
	if !report.Complete {
		// target accepted the creates but still reports collections
		// missing, e.g. a read-only replica
		s.log.Warnw("switch aborted, target incomplete after auto-create",
			"engine", target.Engine, "missing", report.MissingNames)
		return srvErrors.NewIncompleteTargetError(report.MissingNames)
	}

	if err := s.cfgStore.Save(target); err != nil {
		return err
	}

	s.log.Infow("active engine switched", "engine", target.Engine)
	return nil
}
