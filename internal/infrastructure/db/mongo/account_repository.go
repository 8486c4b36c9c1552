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
)

const collectionAccounts = "accounts"

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type accountDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Email               string             `bson:"email"`
	PasswordHash        string             `bson:"password_hash"`
	Name                string             `bson:"name"`
	Role                string             `bson:"role"`
	Roles               []string           `bson:"roles,omitempty"`
	Active              bool               `bson:"active"`
	FailedLoginAttempts int                `bson:"failed_login_attempts"`
	LastLoginAttempt    *time.Time         `bson:"last_login_attempt,omitempty"`
	LastLoginAt         *time.Time         `bson:"last_login_at,omitempty"`
	CreatedAt           time.Time          `bson:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at"`
	DeletedAt           *time.Time         `bson:"deleted_at,omitempty"`
}

func (d *accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:                  d.ID.Hex(),
		Email:               d.Email,
		PasswordHash:        d.PasswordHash,
		Name:                d.Name,
		Role:                d.Role,
		Roles:               d.Roles,
		Active:              d.Active,
		FailedLoginAttempts: d.FailedLoginAttempts,
		LastLoginAttempt:    utcPtr(d.LastLoginAttempt),
		LastLoginAt:         utcPtr(d.LastLoginAt),
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
		DeletedAt:           utcPtr(d.DeletedAt),
	}
}

// FindByEmail returns the live account with the exact email. Soft-deleted
// accounts are reported as domain.ErrAccountNotFound.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	err := r.col.FindOne(ctx, bson.M{"email": email, "deleted_at": nil}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts a new account. A duplicate email yields domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := accountDocument{
		Email:               a.Email,
		PasswordHash:        a.PasswordHash,
		Name:                a.Name,
		Role:                a.Role,
		Roles:               a.Roles,
		Active:              a.Active,
		FailedLoginAttempts: a.FailedLoginAttempts,
		LastLoginAttempt:    a.LastLoginAttempt,
		LastLoginAt:         a.LastLoginAt,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		DeletedAt:           a.DeletedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// RecordFailedLogin counts a failed password check in one atomic update and
// returns the new counter. A streak whose last attempt is older than window
// restarts at 1.
func (r *AccountRepository) RecordFailedLogin(ctx context.Context, id string, at time.Time, window time.Duration) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"failed_login_attempts": 1})

	var doc accountDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, failedLoginPipeline(at.UTC(), window), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, fmt.Errorf("record failed login: %w", err)
	}
	return doc.FailedLoginAttempts, nil
}

// failedLoginPipeline builds the update pipeline used by RecordFailedLogin.
// Stages in a single $set read the pre-update document, so the window check
// sees the previous attempt. Missing and null values sort before any date.
func failedLoginPipeline(at time.Time, window time.Duration) mongo.Pipeline {
	cutoff := at.Add(-window)
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "failed_login_attempts", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$lt", Value: bson.A{"$last_login_attempt", cutoff}}},
				1,
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$failed_login_attempts", 0}}},
					1,
				}}},
			}}}},
			{Key: "last_login_attempt", Value: at},
			{Key: "updated_at", Value: at},
		}}},
	}
}

// ResetFailedLogins clears the failure streak after a successful login.
func (r *AccountRepository) ResetFailedLogins(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	at = at.UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"failed_login_attempts": 0,
		"last_login_attempt":    at,
		"last_login_at":         at,
		"updated_at":            at,
	}})
	if err != nil {
		return fmt.Errorf("reset failed logins: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the accounts collection.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
