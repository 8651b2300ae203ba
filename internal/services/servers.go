package services

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
)

// ServerOverview builds the on-demand picture of the document-store fleet:
// the primary (derived from the active EngineConfig) plus every configured
// secondary, each probed for connectivity and completeness.
type ServerOverview struct {
	cfgStore *store.EngineConfigStore
	catalog  *SchemaCatalog
	replicas []models.ServerDescriptor
	open     MongoOpener
	log      *zap.SugaredLogger
}

func NewServerOverview(cfgStore *store.EngineConfigStore, catalog *SchemaCatalog, replicas []models.ServerDescriptor, open MongoOpener) *ServerOverview {
	if open == nil {
		open = func(ctx context.Context, uri, database string) (store.RecordStore, error) {
			return store.OpenMongo(ctx, uri, database)
		}
	}
	return &ServerOverview{
		cfgStore: cfgStore,
		catalog:  catalog,
		replicas: replicas,
		open:     open,
		log:      zap.S().Named("overview"),
	}
}

// Describe probes all servers concurrently. Probing never mutates a target;
// an unreachable server is reported offline with an empty completeness
// report rather than failing the overview.
func (o *ServerOverview) Describe(ctx context.Context) ([]models.ServerDescriptor, error) {
	servers := make([]models.ServerDescriptor, 0, len(o.replicas)+1)
	uris := make([]string, 0, len(o.replicas)+1)

	if cfg, err := o.cfgStore.Load(); err == nil && cfg.MongoURI != "" {
		servers = append(servers, primaryDescriptor(cfg))
		// probe the primary with the configured URI so credentials carry over
		uris = append(uris, cfg.MongoURI)
	}
	for _, replica := range o.replicas {
		servers = append(servers, replica)
		uris = append(uris, replica.URI())
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range servers {
		g.Go(func() error {
			o.probe(gctx, &servers[i], uris[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return servers, nil
}

func (o *ServerOverview) probe(ctx context.Context, desc *models.ServerDescriptor, uri string) {
	rs, err := o.open(ctx, uri, desc.Database)
	if err == nil {
		err = rs.Ping(ctx)
		if err != nil {
			rs.Close(ctx)
		}
	}
	if err != nil {
		o.log.Debugw("server probe failed", "server", desc.Name, "error", err)
		desc.Status = models.ConnectionOffline
		desc.Collections = models.CompletenessReport{Total: len(RequiredCollections)}
		return
	}
	defer rs.Close(ctx)

	desc.Status = models.ConnectionOnline
	report, err := o.catalog.CheckCompleteness(ctx, rs)
	if err != nil {
		o.log.Debugw("completeness check failed", "server", desc.Name, "error", err)
		report = models.CompletenessReport{Total: len(RequiredCollections)}
	}
	desc.Collections = report
}

// primaryDescriptor derives the primary server entry from the active
// configuration; the primary role is tied to EngineConfig.mongoUri.
func primaryDescriptor(cfg models.EngineConfig) models.ServerDescriptor {
	desc := models.ServerDescriptor{
		ID:       "primary",
		Name:     "primary",
		Database: cfg.MongoDB,
		Role:     models.ServerRolePrimary,
	}
	if u, err := url.Parse(cfg.MongoURI); err == nil {
		desc.Host = u.Hostname()
		if port, err := strconv.Atoi(u.Port()); err == nil {
			desc.Port = port
		}
	}
	return desc
}
