package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
)

const collectionContracts = "contracts"

// ContractRepository implements ports.ContractRepository using MongoDB. The
// file bytes live in the same document as the metadata.
type ContractRepository struct {
	col *mongo.Collection
}

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{col: db.Collection(collectionContracts)}
}

type contractDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	TransactionID string             `bson:"transaction_id"`
	FileName      string             `bson:"file_name"`
	MimeType      string             `bson:"mime_type"`
	FileSize      int64              `bson:"file_size"`
	FileHash      string             `bson:"file_hash"`
	FileContent   []byte             `bson:"file_content,omitempty"`
	UploadDate    time.Time          `bson:"upload_date"`
	UploadedBy    string             `bson:"uploaded_by"`
}

func (d *contractDocument) toDomain() *domain.Contract {
	return &domain.Contract{
		ID:            d.ID.Hex(),
		TransactionID: d.TransactionID,
		FileName:      d.FileName,
		MimeType:      d.MimeType,
		FileSize:      d.FileSize,
		FileHash:      d.FileHash,
		Content:       d.FileContent,
		UploadDate:    d.UploadDate.UTC(),
		UploadedBy:    d.UploadedBy,
	}
}

// metadataProjection leaves the file bytes out of list results.
var metadataProjection = bson.M{"file_content": 0}

// Create inserts the record, bytes and digest in a single write.
func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := contractDocument{
		TransactionID: c.TransactionID,
		FileName:      c.FileName,
		MimeType:      c.MimeType,
		FileSize:      c.FileSize,
		FileHash:      c.FileHash,
		FileContent:   c.Content,
		UploadDate:    c.UploadDate.UTC(),
		UploadedBy:    c.UploadedBy,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert contract: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a contract with its bytes.
func (r *ContractRepository) FindByID(ctx context.Context, id string) (*domain.Contract, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc contractDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of metadata, newest first, and the total match count.
func (r *ContractRepository) List(ctx context.Context, f ports.ListContractsFilter) ([]*domain.Contract, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.TransactionID != "" {
		filter["transaction_id"] = f.TransactionID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count contracts: %w", err)
	}

	opts := options.Find().
		SetProjection(metadataProjection).
		SetSort(bson.D{{Key: "upload_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find contracts: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Contract, 0, f.Limit)
	for cur.Next(ctx) {
		var doc contractDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode contract: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contracts: %w", err)
	}
	return items, total, nil
}

// Delete removes the record. The ledger entry is not touched.
func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the contracts collection.
func (r *ContractRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "transaction_id", Value: 1}, {Key: "upload_date", Value: -1}}},
		{Keys: bson.D{{Key: "file_hash", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
