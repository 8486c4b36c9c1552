package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autostock/dealership-api/internal/core/domain"
)

const (
	collectionLedger = "ledger_entries"
	mongoTimeout     = 10 * time.Second
)

// MongoLedger stores one insert-only document per record in ledger_entries.
// The unique index on record_id makes double registration impossible.
type MongoLedger struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{
		col: db.Collection(collectionLedger),
		now: func() time.Time { return time.Now().UTC() },
	}
}

type entryDocument struct {
	RecordID     string    `bson:"record_id"`
	Digest       string    `bson:"digest"`
	RegisteredAt time.Time `bson:"registered_at"`
}

// Register inserts the entry. A duplicate key is resolved by comparing the
// stored digest.
func (l *MongoLedger) Register(ctx context.Context, digest, recordID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := l.col.InsertOne(ctx, entryDocument{
		RecordID:     recordID,
		Digest:       digest,
		RegisteredAt: l.now(),
	})
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("ledger register: %w", err)
	}

	existing, err := l.Lookup(ctx, recordID)
	if err != nil {
		return err
	}
	return compareDigest(recordID, existing, digest)
}

// Lookup returns the registered digest for recordID.
func (l *MongoLedger) Lookup(ctx context.Context, recordID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var doc entryDocument
	if err := l.col.FindOne(ctx, bson.M{"record_id": recordID}).Decode(&doc); err != nil {
		return "", lookupError(err)
	}
	return doc.Digest, nil
}

func lookupError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrLedgerEntryNotFound
	}
	return fmt.Errorf("ledger lookup: %w", err)
}

// EnsureIndexes creates the unique record_id index.
func (l *MongoLedger) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := l.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "record_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
