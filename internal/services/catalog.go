package services

import (
	"context"
	"sort"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
)

// RequiredCollections is the fixed set of logical collections the CRM
// depends on. Completeness of a target is evaluated against this list.
var RequiredCollections = []string{
	"clients",
	"tickets",
	"contracts",
	"products",
	"budgets",
	"budget_items",
	"payments",
	"repository",
	"calendar_events",
	"users",
}

// MigrationOrder is the fixed table order the migrator walks. Parent tables
// go before their children so sourceId references resolve naturally. The
// users table is intentionally absent: accounts are recreated per engine,
// never copied.
var MigrationOrder = []string{
	"clients",
	"tickets",
	"contracts",
	"products",
	"budgets",
	"budget_items",
	"payments",
	"repository",
	"calendar_events",
}

// SchemaCatalog evaluates targets against the required collection set and
// provisions missing collections. It never deletes anything.
type SchemaCatalog struct{}

func NewSchemaCatalog() *SchemaCatalog { return &SchemaCatalog{} }

// CheckCompleteness lists the target's collections and intersects them with
// the required set. A present collection with zero records still counts;
// completeness is structural, not about population.
func (c *SchemaCatalog) CheckCompleteness(ctx context.Context, target store.RecordStore) (models.CompletenessReport, error) {
	existing, err := target.ListCollections(ctx)
	if err != nil {
		return models.CompletenessReport{}, err
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	report := models.CompletenessReport{Total: len(RequiredCollections)}
	for _, name := range RequiredCollections {
		if present[name] {
			report.PresentNames = append(report.PresentNames, name)
		} else {
			report.MissingNames = append(report.MissingNames, name)
		}
	}
	sort.Strings(report.PresentNames)
	sort.Strings(report.MissingNames)
	report.Complete = len(report.MissingNames) == 0
	return report, nil
}

// EnsureCollections creates every missing required collection, empty. The
// operation is idempotent; creating a collection that already exists is a
// no-op on both engines.
func (c *SchemaCatalog) EnsureCollections(ctx context.Context, target store.RecordStore) error {
	report, err := c.CheckCompleteness(ctx, target)
	if err != nil {
		return err
	}
	for _, name := range report.MissingNames {
		if err := target.CreateCollection(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
