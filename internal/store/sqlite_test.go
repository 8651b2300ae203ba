package store_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gestiondesk/datastore-agent/internal/store"
)

var _ = Describe("SQLiteStore", func() {
	var (
		ctx context.Context
		s   *store.SQLiteStore
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		s, err = store.OpenSQLite(ctx, filepath.Join(GinkgoT().TempDir(), "crm.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if s != nil {
			s.Close(ctx)
		}
	})

	Context("Ping", func() {
		// Given a freshly opened database file
		// When we ping it
		// Then the probe succeeds
		It("should succeed on a fresh database", func() {
			Expect(s.Ping(ctx)).To(Succeed())
		})
	})

	Context("CreateCollection", func() {
		// Given an empty database
		// When we create a known table
		// Then it appears in the table listing
		It("should create a table with its schema", func() {
			// Act
			err := s.CreateCollection(ctx, "clients")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			names, err := s.ListCollections(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ContainElement("clients"))
		})

		// Given a table that already exists
		// When we create it again
		// Then the operation is a no-op
		It("should be idempotent", func() {
			// Arrange
			Expect(s.CreateCollection(ctx, "tickets")).To(Succeed())

			// Act & Assert
			Expect(s.CreateCollection(ctx, "tickets")).To(Succeed())
		})

		// Given a name with no predefined schema
		// When we create it
		// Then a minimal table is still created
		It("should fall back to a minimal table for unknown names", func() {
			// Act
			err := s.CreateCollection(ctx, "scratch")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			names, err := s.ListCollections(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ContainElement("scratch"))
		})
	})

	Context("InsertMany and ReadAll", func() {
		BeforeEach(func() {
			Expect(s.CreateCollection(ctx, "clients")).To(Succeed())
		})

		// Given a batch of rows
		// When we insert and read them back
		// Then every row round-trips with text columns as strings
		It("should round-trip rows with normalized text values", func() {
			// Arrange
			batch := []store.Record{
				{"name": "acme", "email": "ops@acme.example"},
				{"name": "globex", "email": "it@globex.example"},
			}

			// Act
			inserted, err := s.InsertMany(ctx, "clients", batch)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(Equal(2))

			records, err := s.ReadAll(ctx, "clients")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			names := []any{records[0]["name"], records[1]["name"]}
			Expect(names).To(ConsistOf("acme", "globex"))
		})

		// Given a batch where one row violates a UNIQUE constraint
		// When we insert the batch
		// Then the rejected row is skipped and the rest still lands
		It("should skip rejected rows without blocking the batch", func() {
			// Arrange
			Expect(s.CreateCollection(ctx, "users")).To(Succeed())
			batch := []store.Record{
				{"username": "admin"},
				{"username": "admin"},
				{"username": "operator"},
			}

			// Act
			inserted, err := s.InsertMany(ctx, "users", batch)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(Equal(2))
		})
	})

	Context("Clear", func() {
		// Given a populated table
		// When we clear it
		// Then the table survives empty
		It("should empty the table but keep it listed", func() {
			// Arrange
			Expect(s.CreateCollection(ctx, "payments")).To(Succeed())
			_, err := s.InsertMany(ctx, "payments", []store.Record{{"amount": 99.90}})
			Expect(err).NotTo(HaveOccurred())

			// Act
			Expect(s.Clear(ctx, "payments")).To(Succeed())

			// Assert
			records, err := s.ReadAll(ctx, "payments")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
			names, err := s.ListCollections(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ContainElement("payments"))
		})
	})

	Context("ReadAll", func() {
		// Given a table that does not exist
		// When we read it
		// Then the error surfaces instead of an empty result
		It("should fail on a missing table", func() {
			// Act
			_, err := s.ReadAll(ctx, "nonexistent")

			// Assert
			Expect(err).To(HaveOccurred())
		})
	})
})
