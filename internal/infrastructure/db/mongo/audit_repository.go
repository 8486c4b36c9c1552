package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autostock/dealership-api/internal/core/domain"
)

const collectionAuditLogs = "audit_logs"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditLogs)}
}

// Insert persists an audit entry to the audit_logs collection.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	doc := bson.M{
		"actor":       e.Actor,
		"action":      e.Action,
		"entity":      e.Entity,
		"entity_id":   e.EntityID,
		"timestamp":   ts.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if len(e.Details) > 0 {
		doc["details"] = e.Details
	}
	if e.IPAddress != "" {
		doc["ip_address"] = e.IPAddress
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates necessary indexes on the audit_logs collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
