package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gestiondesk/datastore-agent/internal/config"
)

var _ = Describe("Configuration", func() {
	writeConfig := func(content string) string {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	Context("Load", func() {
		// Given no configuration file at all
		// When we load the configuration
		// Then every default applies
		It("should apply defaults without a file", func() {
			// Act
			cfg, err := config.Load("")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.ServerMode).To(Equal("dev"))
			Expect(cfg.Server.HTTPPort).To(Equal(8000))
			Expect(cfg.Data.DataFolder).To(Equal("data"))
			Expect(cfg.Data.BackupFolder).To(Equal("backups"))
			Expect(cfg.Data.NumWorkers).To(Equal(2))
			Expect(cfg.LogLevel).To(Equal("info"))
			Expect(cfg.Replicas).To(BeEmpty())
		})

		// Given a configuration file overriding some values
		// When we load it
		// Then overrides win and untouched values keep their defaults
		It("should merge file values over defaults", func() {
			// Arrange
			path := writeConfig(`
server:
  mode: prod
  httpPort: 9000
data:
  dataFolder: /var/lib/datastore
`)

			// Act
			cfg, err := config.Load(path)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.ServerMode).To(Equal("prod"))
			Expect(cfg.Server.HTTPPort).To(Equal(9000))
			Expect(cfg.Data.DataFolder).To(Equal("/var/lib/datastore"))
			Expect(cfg.Data.BackupFolder).To(Equal("backups"))
		})

		// Given replica entries without an explicit port
		// When we load the configuration
		// Then each replica receives the standard port
		It("should default the replica port", func() {
			// Arrange
			path := writeConfig(`
replicas:
  - name: replica-a
    host: replica-a.internal
    database: crm
  - name: replica-b
    host: replica-b.internal
    port: 27018
    database: crm
`)

			// Act
			cfg, err := config.Load(path)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Replicas).To(HaveLen(2))
			Expect(cfg.Replicas[0].Port).To(Equal(27017))
			Expect(cfg.Replicas[1].Port).To(Equal(27018))
		})

		// Given an invalid server mode
		// When we load the configuration
		// Then validation rejects it
		It("should reject an unknown server mode", func() {
			// Arrange
			path := writeConfig(`
server:
  mode: staging
`)

			// Act
			_, err := config.Load(path)

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid server mode"))
		})

		// Given a replica entry missing its host
		// When we load the configuration
		// Then validation names the offending replica
		It("should reject a replica without host or database", func() {
			// Arrange
			path := writeConfig(`
replicas:
  - name: broken
    database: crm
`)

			// Act
			_, err := config.Load(path)

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("broken"))
		})

		// Given a file path that does not exist
		// When we load the configuration
		// Then the failure names the path
		It("should fail on a missing configuration file", func() {
			// Act
			_, err := config.Load("/nonexistent/config.yaml")

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("/nonexistent/config.yaml"))
		})
	})
})
