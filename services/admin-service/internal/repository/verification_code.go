package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/model"
)

// VerificationCodeRepository defines the interface for one-time code storage.
type VerificationCodeRepository interface {
	// Create stores a freshly issued code.
	Create(ctx context.Context, code *model.VerificationCode) (*model.VerificationCode, error)

	// GetByCode retrieves a code by its value.
	GetByCode(ctx context.Context, code string) (*model.VerificationCode, error)

	// Consume atomically marks an unconsumed code as consumed at the given
	// instant. When the code is missing or already consumed it returns
	// ErrNotFound, so exactly one concurrent caller wins the race.
	Consume(ctx context.Context, code string, now time.Time) (*model.VerificationCode, error)

	// InvalidateActive marks every unconsumed code for (adminUserID, purpose)
	// as consumed, so a freshly issued code is the only active one.
	InvalidateActive(ctx context.Context, adminUserID string, purpose model.CodePurpose, now time.Time) error
}

const verificationCodeCollection = "verification_codes"

type verificationCodeMongoRepository struct {
	db *mongo.Database
}

// NewVerificationCodeMongoRepository creates a MongoDB-backed verification
// code repository. Expired codes are kept on purpose: a confirm attempt must
// be able to tell an expired code apart from one that never existed.
func NewVerificationCodeMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) VerificationCodeRepository {
	collection := db.Collection(verificationCodeCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "admin_user_id", Value: 1},
				{Key: "purpose", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create verification code indexes")
	}

	return &verificationCodeMongoRepository{db: db}
}

func (r *verificationCodeMongoRepository) Create(
	ctx context.Context,
	code *model.VerificationCode,
) (*model.VerificationCode, error) {
	if _, err := r.db.Collection(verificationCodeCollection).InsertOne(ctx, code); err != nil {
		return nil, err
	}

	return code, nil
}

func (r *verificationCodeMongoRepository) GetByCode(ctx context.Context, code string) (*model.VerificationCode, error) {
	var vc model.VerificationCode
	err := r.db.Collection(verificationCodeCollection).FindOne(ctx, bson.M{"_id": code}).Decode(&vc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &vc, nil
}

func (r *verificationCodeMongoRepository) Consume(
	ctx context.Context,
	code string,
	now time.Time,
) (*model.VerificationCode, error) {
	// Filtering on consumed_at makes the update a compare-and-set: a code can
	// only transition to consumed once, no matter how many callers race.
	result := r.db.Collection(verificationCodeCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": code, "consumed_at": nil},
		bson.M{"$set": bson.M{"consumed_at": now}},
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	var vc model.VerificationCode
	if err := result.Decode(&vc); err != nil {
		return nil, err
	}
	vc.ConsumedAt = &now

	return &vc, nil
}

func (r *verificationCodeMongoRepository) InvalidateActive(
	ctx context.Context,
	adminUserID string,
	purpose model.CodePurpose,
	now time.Time,
) error {
	filter := bson.M{
		"admin_user_id": adminUserID,
		"purpose":       purpose,
		"consumed_at":   nil,
	}
	update := bson.M{
		"$set": bson.M{"consumed_at": now},
	}

	_, err := r.db.Collection(verificationCodeCollection).UpdateMany(ctx, filter, update)
	return err
}
