// Package ledger provides the append-only digest registrars used to prove that
// a stored contract has not changed since upload.
package ledger

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
)

const (
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// New returns the ledger named by backend.
func New(backend string, rdb *redis.Client, db *mongo.Database) (ports.Ledger, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendRedis, "":
		if rdb == nil {
			return nil, fmt.Errorf("ledger: redis backend requires a redis client")
		}
		return NewRedisLedger(rdb), nil
	case BackendMongo:
		if db == nil {
			return nil, fmt.Errorf("ledger: mongo backend requires a database")
		}
		return NewMongoLedger(db), nil
	default:
		return nil, fmt.Errorf("ledger: unknown backend %q", backend)
	}
}

// compareDigest resolves a registration against the digest already held for
// recordID.
func compareDigest(recordID, existing, digest string) error {
	if existing != digest {
		return fmt.Errorf("ledger register %s: %w", recordID, domain.ErrLedgerConflict)
	}
	return nil
}
