package models

import (
	"fmt"
	"time"
)

type EngineType string

const (
	EngineSQLite  EngineType = "sqlite"
	EngineMongoDB EngineType = "mongodb"
)

func ParseEngineType(s string) (EngineType, error) {
	switch s {
	case "sqlite":
		return EngineSQLite, nil
	case "mongodb":
		return EngineMongoDB, nil
	default:
		return "", fmt.Errorf("invalid engine type: %s", s)
	}
}

// EngineConfig selects the active storage backend and carries its connection
// parameters. Exactly one EngineConfig is active at any time.
type EngineConfig struct {
	Engine     EngineType `json:"engine"`
	SQLitePath string     `json:"sqlitePath,omitempty"`
	MongoURI   string     `json:"mongoUri,omitempty"`
	MongoDB    string     `json:"mongoDb,omitempty"`
}

func (c EngineConfig) Validate() error {
	switch c.Engine {
	case EngineSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite engine requires sqlitePath")
		}
	case EngineMongoDB:
		if c.MongoURI == "" || c.MongoDB == "" {
			return fmt.Errorf("mongodb engine requires mongoUri and mongoDb")
		}
	default:
		return fmt.Errorf("invalid engine type: %s", c.Engine)
	}
	return nil
}

// InstallationRecord is written once at install completion. Its presence is
// the installation predicate.
type InstallationRecord struct {
	InstalledAt time.Time `json:"installedAt"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
}
