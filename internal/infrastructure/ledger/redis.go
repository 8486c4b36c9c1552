package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autostock/dealership-api/internal/core/domain"
)

const (
	redisIndexKey  = "ledger:index"
	redisStreamKey = "ledger:entries"
)

// RedisLedger keeps the record id to digest mapping in a hash and appends
// every registration to a stream that serves as the ledger history.
type RedisLedger struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client, now: func() time.Time { return time.Now().UTC() }}
}

// registerScript appends the history entry before writing the index, so every
// indexed record has a stream entry behind it. A failing XADD aborts the
// script before the index is touched. Returns the digest held for the record.
var registerScript = redis.NewScript(`
local existing = redis.call('HGET', KEYS[1], ARGV[1])
if existing then
	return existing
end
redis.call('XADD', KEYS[2], '*', 'record_id', ARGV[1], 'digest', ARGV[2], 'registered_at', ARGV[3])
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return ARGV[2]
`)

// Register records digest for recordID. Repeating the same pair is a no-op; a
// different digest for a known record is domain.ErrLedgerConflict.
func (l *RedisLedger) Register(ctx context.Context, digest, recordID string) error {
	stored, err := registerScript.Run(ctx, l.client,
		[]string{redisIndexKey, redisStreamKey},
		recordID, digest, l.now().Format(time.RFC3339Nano),
	).Text()
	if err != nil {
		return fmt.Errorf("ledger register: %w", err)
	}
	return compareDigest(recordID, stored, digest)
}

// Lookup returns the registered digest for recordID.
func (l *RedisLedger) Lookup(ctx context.Context, recordID string) (string, error) {
	digest, err := l.client.HGet(ctx, redisIndexKey, recordID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrLedgerEntryNotFound
		}
		return "", fmt.Errorf("ledger lookup: %w", err)
	}
	return digest, nil
}
