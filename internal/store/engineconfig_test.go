package store_test

import (
	"fmt"
	"os"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
	srvErrors "github.com/gestiondesk/datastore-agent/pkg/errors"
)

var _ = Describe("EngineConfigStore", func() {
	var (
		dataDir string
		s       *store.EngineConfigStore
	)

	BeforeEach(func() {
		dataDir = GinkgoT().TempDir()
		s = store.NewEngineConfigStore(dataDir)
	})

	Context("Load", func() {
		// Given a data folder with no engine configuration
		// When we load the configuration
		// Then it should return NotConfiguredError
		It("should return NotConfiguredError when no configuration exists", func() {
			// Act
			_, err := s.Load()

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsNotConfiguredError(err)).To(BeTrue())
		})

		// Given an unparseable configuration file on disk
		// When we load the configuration
		// Then corruption degrades to NotConfiguredError, never a crash
		It("should treat a corrupt file as not configured", func() {
			// Arrange
			Expect(os.WriteFile(s.Path(), []byte("{broken"), 0o644)).To(Succeed())

			// Act
			_, err := s.Load()

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsNotConfiguredError(err)).To(BeTrue())
		})

		// Given a parseable file that fails validation
		// When we load the configuration
		// Then it is treated as not configured
		It("should treat an invalid configuration as not configured", func() {
			// Arrange
			Expect(os.WriteFile(s.Path(), []byte(`{"engine":"sqlite"}`), 0o644)).To(Succeed())

			// Act
			_, err := s.Load()

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsNotConfiguredError(err)).To(BeTrue())
		})

		// Given a configuration saved by another store instance
		// When a fresh instance loads from the same folder
		// Then the persisted value round-trips
		It("should round-trip through the filesystem", func() {
			// Arrange
			cfg := models.EngineConfig{
				Engine:   models.EngineMongoDB,
				MongoURI: "mongodb://db.example:27017",
				MongoDB:  "crm",
			}
			Expect(s.Save(cfg)).To(Succeed())

			// Act
			fresh := store.NewEngineConfigStore(dataDir)
			loaded, err := fresh.Load()

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})
	})

	Context("Save", func() {
		// Given a configuration that fails validation
		// When we save it
		// Then it is rejected with WriteError and nothing is persisted
		It("should reject an invalid configuration", func() {
			// Act
			err := s.Save(models.EngineConfig{Engine: models.EngineSQLite})

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsWriteError(err)).To(BeTrue())
			_, loadErr := s.Load()
			Expect(srvErrors.IsNotConfiguredError(loadErr)).To(BeTrue())
		})

		// Given an existing configuration
		// When we save a new one
		// Then the new value replaces the old on the next load
		It("should replace the previous configuration", func() {
			// Arrange
			Expect(s.Save(models.EngineConfig{Engine: models.EngineSQLite, SQLitePath: "/data/crm.db"})).To(Succeed())

			// Act
			next := models.EngineConfig{Engine: models.EngineMongoDB, MongoURI: "mongodb://db:27017", MongoDB: "crm"}
			Expect(s.Save(next)).To(Succeed())

			// Assert
			loaded, err := s.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(next))
		})

		// Given a save that went through the temp-file-plus-rename path
		// When we inspect the data folder
		// Then no temp files are left behind
		It("should leave no temp files after a save", func() {
			// Act
			Expect(s.Save(models.EngineConfig{Engine: models.EngineSQLite, SQLitePath: "/data/crm.db"})).To(Succeed())

			// Assert
			entries, err := os.ReadDir(dataDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("engine.json"))
		})
	})

	Context("Remove", func() {
		// Given a persisted configuration
		// When we remove it
		// Then subsequent loads report not configured
		It("should drop both the file and the cache", func() {
			// Arrange
			Expect(s.Save(models.EngineConfig{Engine: models.EngineSQLite, SQLitePath: "/data/crm.db"})).To(Succeed())

			// Act
			Expect(s.Remove()).To(Succeed())

			// Assert
			_, err := s.Load()
			Expect(srvErrors.IsNotConfiguredError(err)).To(BeTrue())
		})

		// Given no configuration at all
		// When we remove it
		// Then the removal is idempotent
		It("should be idempotent", func() {
			Expect(s.Remove()).To(Succeed())
			Expect(s.Remove()).To(Succeed())
		})
	})

	Context("Concurrent writes", func() {
		// Given multiple goroutines saving different configurations
		// When all saves race
		// Then every save succeeds and the final load observes one of the
		// written values intact, never a torn mix
		It("should serialize concurrent writers", func() {
			const numGoroutines = 20
			var wg sync.WaitGroup
			errs := make(chan error, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					cfg := models.EngineConfig{
						Engine:     models.EngineSQLite,
						SQLitePath: fmt.Sprintf("/data/crm-%d.db", idx),
					}
					if err := s.Save(cfg); err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(errs)

			var failures []error
			for err := range errs {
				failures = append(failures, err)
			}
			Expect(failures).To(BeEmpty())

			loaded, err := s.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Engine).To(Equal(models.EngineSQLite))
			Expect(loaded.SQLitePath).To(HavePrefix("/data/crm-"))
		})
	})
})
