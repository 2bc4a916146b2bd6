package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storyweaver/story-weaver-api/internal/model"
)

// OtpRepository defines the interface for one-time code storage. Issuance goes
// through UpsertByEmail so that a re-request atomically replaces the previous
// entry instead of racing a delete against a create.
type OtpRepository interface {
	UpsertByEmail(ctx context.Context, entry *model.OtpEntry) error
	GetByEmail(ctx context.Context, email string) (*model.OtpEntry, error)
	IncrementAttempts(ctx context.Context, email string) error
	MarkVerified(ctx context.Context, email string, verifiedAt, expiresAt time.Time) error
	DeleteByEmail(ctx context.Context, email string) error
}

const otpCollection = "otps"

type otpMongoRepository struct {
	db *mongo.Database
}

// NewOtpMongoRepository creates a new MongoDB repository for OTP entries and
// ensures the unique email index and the expiry TTL index exist.
func NewOtpMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) OtpRepository {
	collection := db.Collection(otpCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create otp indexes")
	}

	return &otpMongoRepository{db: db}
}

func (r *otpMongoRepository) UpsertByEmail(ctx context.Context, entry *model.OtpEntry) error {
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)

	_, err := r.db.Collection(otpCollection).ReplaceOne(ctx, bson.M{"email": entry.Email}, entry, opts)
	return err
}

func (r *otpMongoRepository) GetByEmail(ctx context.Context, email string) (*model.OtpEntry, error) {
	var entry model.OtpEntry
	err := r.db.Collection(otpCollection).FindOne(ctx, bson.M{"email": email}).Decode(&entry)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *otpMongoRepository) IncrementAttempts(ctx context.Context, email string) error {
	update := bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.db.Collection(otpCollection).UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// MarkVerified flags the entry as verified and pushes expires_at out to
// expiresAt. The TTL index purges on expires_at, so the extension keeps the
// verified entry alive through its consumption window.
func (r *otpMongoRepository) MarkVerified(ctx context.Context, email string, verifiedAt, expiresAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"is_verified": true,
			"verified_at": verifiedAt,
			"expires_at":  expiresAt,
			"updated_at":  time.Now(),
		},
	}

	result, err := r.db.Collection(otpCollection).UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *otpMongoRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.Collection(otpCollection).DeleteOne(ctx, bson.M{"email": email})
	return err
}
