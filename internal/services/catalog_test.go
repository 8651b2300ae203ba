package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gestiondesk/datastore-agent/internal/services"
	"github.com/gestiondesk/datastore-agent/internal/store"
)

var _ = Describe("SchemaCatalog", func() {
	var (
		ctx     context.Context
		catalog *services.SchemaCatalog
		target  *fakeRecordStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		catalog = services.NewSchemaCatalog()
		target = newFakeRecordStore()
	})

	Context("CheckCompleteness", func() {
		// Given a target with no collections at all
		// When we check completeness
		// Then every required collection is reported missing
		It("should report all collections missing on an empty target", func() {
			// Act
			report, err := catalog.CheckCompleteness(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Complete).To(BeFalse())
			Expect(report.Total).To(Equal(len(services.RequiredCollections)))
			Expect(report.MissingNames).To(HaveLen(len(services.RequiredCollections)))
			Expect(report.PresentNames).To(BeEmpty())
		})

		// Given a target holding a subset of the required collections
		// When we check completeness
		// Then present and missing lists partition the required set
		It("should partition present and missing collections", func() {
			// Arrange
			Expect(target.CreateCollection(ctx, "clients")).To(Succeed())
			Expect(target.CreateCollection(ctx, "tickets")).To(Succeed())

			// Act
			report, err := catalog.CheckCompleteness(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Complete).To(BeFalse())
			Expect(report.PresentNames).To(ConsistOf("clients", "tickets"))
			Expect(len(report.PresentNames) + len(report.MissingNames)).To(Equal(report.Total))
		})

		// Given a target where a required collection exists but is empty
		// When we check completeness
		// Then the empty collection still counts as present
		It("should count an empty collection as present", func() {
			// Arrange
			Expect(target.CreateCollection(ctx, "payments")).To(Succeed())

			// Act
			report, err := catalog.CheckCompleteness(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(report.PresentNames).To(ContainElement("payments"))
		})

		// Given a target holding extra collections outside the required set
		// When we check completeness
		// Then the extras are ignored entirely
		It("should ignore collections outside the required set", func() {
			// Arrange
			for _, name := range services.RequiredCollections {
				Expect(target.CreateCollection(ctx, name)).To(Succeed())
			}
			Expect(target.CreateCollection(ctx, "legacy_audit_log")).To(Succeed())

			// Act
			report, err := catalog.CheckCompleteness(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Complete).To(BeTrue())
			Expect(report.PresentNames).NotTo(ContainElement("legacy_audit_log"))
		})
	})

	Context("EnsureCollections", func() {
		// Given an empty target
		// When we ensure the required collections
		// Then the target becomes complete
		It("should provision every missing collection", func() {
			// Act
			err := catalog.EnsureCollections(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			report, err := catalog.CheckCompleteness(ctx, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Complete).To(BeTrue())
		})

		// Given a target that is already complete and populated
		// When we ensure the required collections again
		// Then existing data is left untouched
		It("should be idempotent and never touch existing data", func() {
			// Arrange
			Expect(catalog.EnsureCollections(ctx, target)).To(Succeed())
			_, err := target.InsertMany(ctx, "clients", []store.Record{{"name": "acme"}})
			Expect(err).NotTo(HaveOccurred())

			// Act
			err = catalog.EnsureCollections(ctx, target)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(target.records("clients")).To(HaveLen(1))
		})
	})

	Context("MigrationOrder", func() {
		// Given the fixed migration order
		// When we compare it to the required set
		// Then it covers everything except the users table
		It("should exclude users from the migration order", func() {
			Expect(services.MigrationOrder).NotTo(ContainElement("users"))
			Expect(services.RequiredCollections).To(ContainElement("users"))
			Expect(services.MigrationOrder).To(HaveLen(len(services.RequiredCollections) - 1))
		})
	})
})
