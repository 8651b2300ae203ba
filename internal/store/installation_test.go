package store_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
)

var _ = Describe("InstallationStore", func() {
	var s *store.InstallationStore

	BeforeEach(func() {
		s = store.NewInstallationStore(GinkgoT().TempDir())
	})

	Context("Exists", func() {
		// Given a fresh data folder
		// When we check for the marker
		// Then it is absent
		It("should report absent on a fresh data folder", func() {
			Expect(s.Exists()).To(BeFalse())
		})
	})

	Context("Write and Load", func() {
		// Given an installation record
		// When we write and reload it
		// Then the record round-trips and the marker exists
		It("should round-trip the installation record", func() {
			// Arrange
			rec := models.InstallationRecord{
				InstalledAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				Version:     "1.4.0",
				Environment: "production",
			}

			// Act
			err := s.Write(rec)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Exists()).To(BeTrue())

			loaded, err := s.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(rec))
		})
	})

	Context("Remove", func() {
		// Given a written marker
		// When we remove it
		// Then the marker is gone and removal stays idempotent
		It("should remove the marker idempotently", func() {
			// Arrange
			Expect(s.Write(models.InstallationRecord{Version: "1.4.0"})).To(Succeed())

			// Act & Assert
			Expect(s.Remove()).To(Succeed())
			Expect(s.Exists()).To(BeFalse())
			Expect(s.Remove()).To(Succeed())
		})
	})
})
