package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gestiondesk/datastore-agent/internal/models"
	"github.com/gestiondesk/datastore-agent/internal/store"
)

const verifyTimeout = 5 * time.Second

// Verifier checks whether a candidate engine configuration is usable. It
// has no side effects and is safe to call repeatedly and concurrently.
type Verifier interface {
	Verify(ctx context.Context, cfg models.EngineConfig) (bool, string)
}

// ConnectionVerifier verifies candidate configurations with a real
// round-trip against the target. Failure causes are mapped to stable,
// human-readable messages; callers never need to parse driver errors.
type ConnectionVerifier struct {
	log *zap.SugaredLogger
}

func NewConnectionVerifier() *ConnectionVerifier {
	return &ConnectionVerifier{log: zap.S().Named("verifier")}
}

func (v *ConnectionVerifier) Verify(ctx context.Context, cfg models.EngineConfig) (bool, string) {
	if err := cfg.Validate(); err != nil {
		return false, err.Error()
	}

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	switch cfg.Engine {
	case models.EngineSQLite:
		return v.verifySQLite(ctx, cfg.SQLitePath)
	case models.EngineMongoDB:
		return v.verifyMongo(ctx, cfg)
	}
	return false, fmt.Sprintf("unknown engine type: %s", cfg.Engine)
}

func (v *ConnectionVerifier) verifySQLite(ctx context.Context, path string) (bool, string) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Sprintf("database file is missing: %s", path)
		}
		if os.IsPermission(err) {
			return false, fmt.Sprintf("permission denied accessing database file: %s", path)
		}
		return false, fmt.Sprintf("cannot access database file: %v", err)
	}

	s, err := store.OpenSQLite(ctx, path)
	if err != nil {
		return false, fmt.Sprintf("cannot open database file: %v", err)
	}
	defer s.Close(ctx)

	if err := s.Ping(ctx); err != nil {
		v.log.Debugw("sqlite ping failed", "path", path, "error", err)
		msg := err.Error()
		switch {
		case strings.Contains(msg, "locked") || strings.Contains(msg, "busy"):
			return false, fmt.Sprintf("database file is locked: %s", path)
		case strings.Contains(msg, "permission"):
			return false, fmt.Sprintf("permission denied reading database file: %s", path)
		default:
			return false, fmt.Sprintf("database file is not readable: %v", err)
		}
	}
	return true, "connection verified"
}

func (v *ConnectionVerifier) verifyMongo(ctx context.Context, cfg models.EngineConfig) (bool, string) {
	s, err := store.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return false, classifyMongoError(err)
	}
	defer s.Close(context.Background())

	if err := s.Ping(ctx); err != nil {
		v.log.Debugw("mongo ping failed", "uri", cfg.MongoURI, "error", err)
		return false, classifyMongoError(err)
	}
	return true, "connection verified"
}

// classifyMongoError folds driver and network errors into the small set of
// messages the UI keys on. The mapping is part of the verifier contract.
func classifyMongoError(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("host could not be resolved: %s", dnsErr.Name)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "connection timed out"
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such host"):
		return "host could not be resolved"
	case strings.Contains(msg, "connection refused"):
		return "connection refused by server"
	case strings.Contains(msg, "auth") || strings.Contains(msg, "SASL"):
		return "authentication failed"
	case strings.Contains(msg, "server selection") || strings.Contains(msg, "deadline"):
		return "connection timed out"
	default:
		return fmt.Sprintf("server unreachable: %v", err)
	}
}
