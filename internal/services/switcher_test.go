package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/services"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

var _ = Describe("EngineSwitcher", func() {
	var (
		ctx      context.Context
		cfgStore *store.EngineConfigStore
		target   models.EngineConfig
		fake     *fakeRecordStore
		opened   bool
	)

	newSwitcher := func(verifier services.Verifier) *services.EngineSwitcher {
		open := func(ctx context.Context, cfg models.EngineConfig) (store.RecordStore, error) {
			opened = true
			return fake, nil
		}
		return services.NewEngineSwitcher(cfgStore, verifier, services.NewSchemaCatalog(), open)
	}

	BeforeEach(func() {
		ctx = context.Background()
		cfgStore = store.NewEngineConfigStore(GinkgoT().TempDir())
		fake = newFakeRecordStore()
		opened = false
		target = models.EngineConfig{
			Engine:   models.EngineMongoDB,
			MongoURI: "mongodb://db.example:27017",
			MongoDB:  "crm",
		}
	})

	Context("SwitchTo", func() {
		// Given a target whose connection cannot be verified
		// When we attempt the switch
		// Then it fails with ConnectivityError and the active configuration
		// is never written
		It("should abort before opening when verification fails", func() {
			// Arrange
			sw := newSwitcher(&fakeVerifier{ok: false, info: "connection refused"})

			// Act
			err := sw.SwitchTo(ctx, target)

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsConnectivityError(err)).To(BeTrue())
			Expect(opened).To(BeFalse())
			_, loadErr := cfgStore.Load()
			Expect(srvErrors.IsNotConfiguredError(loadErr)).To(BeTrue())
		})

		// Given a reachable but incomplete target that silently ignores
		// collection creation, like a read-only replica
		// When we attempt the switch
		// Then it fails with IncompleteTargetError naming the missing
		// collections and the active configuration stays untouched
		It("should abort when the target stays incomplete after auto-create", func() {
			// Arrange
			fake.readOnly = true
			sw := newSwitcher(&fakeVerifier{ok: true})

			// Act
			err := sw.SwitchTo(ctx, target)

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsIncompleteTargetError(err)).To(BeTrue())
			_, loadErr := cfgStore.Load()
			Expect(srvErrors.IsNotConfiguredError(loadErr)).To(BeTrue())
		})

		// Given a reachable, empty target
		// When we switch to it
		// Then missing collections are provisioned and the configuration
		// commits
		It("should provision collections and commit the configuration", func() {
			// Arrange
			sw := newSwitcher(&fakeVerifier{ok: true})

			// Act
			err := sw.SwitchTo(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			names, err := fake.ListCollections(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ConsistOf(services.RequiredCollections))

			active, err := cfgStore.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(active.Engine).To(Equal(models.EngineMongoDB))
			Expect(active.MongoURI).To(Equal(target.MongoURI))
		})

		// Given an already-active engine configuration
		// When a switch to a new target aborts on verification
		// Then the previously active configuration survives unchanged
		It("should keep the previous configuration on an aborted switch", func() {
			// Arrange
			previous := models.EngineConfig{Engine: models.EngineSQLite, SQLitePath: "/data/crm.db"}
			Expect(cfgStore.Save(previous)).To(Succeed())
			sw := newSwitcher(&fakeVerifier{ok: false, info: "host could not be resolved"})

			// Act
			err := sw.SwitchTo(ctx, target)

			// Assert
			Expect(err).To(HaveOccurred())
			active, loadErr := cfgStore.Load()
			Expect(loadErr).NotTo(HaveOccurred())
			Expect(active).To(Equal(previous))
		})

		// Given a populated target that already carries every collection
		// When we switch to it
		// Then no data is dropped or rewritten
		It("should never touch data on an already-complete target", func() {
			// Arrange
			for _, name := range services.RequiredCollections {
				Expect(fake.CreateCollection(ctx, name)).To(Succeed())
			}
			_, err := fake.InsertMany(ctx, "clients", []store.Record{{"name": "acme"}, {"name": "globex"}})
			Expect(err).NotTo(HaveOccurred())
			sw := newSwitcher(&fakeVerifier{ok: true})

			// Act
			err = sw.SwitchTo(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(fake.records("clients")).To(HaveLen(2))
		})
	})
})
