package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/model"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/permission"
)

// Storage-agnostic sentinel errors. Driver-specific failures never cross the
// repository boundary.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email is already in use")
)

// AdminUserRepository defines the interface for admin user database operations.
type AdminUserRepository interface {
	Create(ctx context.Context, user *model.AdminUser) (*model.AdminUser, error)
	GetByID(ctx context.Context, id string) (*model.AdminUser, error)
	GetByEmail(ctx context.Context, email string, activeOnly bool) (*model.AdminUser, error)

	// Activate marks the user active. Activating an already-active user is a
	// no-op success.
	Activate(ctx context.Context, id string) (*model.AdminUser, error)

	// UpdateProfile applies a partial update; only non-nil fields are written.
	UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*model.AdminUser, error)

	// SetPermissions replaces the user's permission set wholesale.
	SetPermissions(ctx context.Context, id string, perms []permission.Permission) (*model.AdminUser, error)

	SetPasswordHash(ctx context.Context, id string, hash string) (*model.AdminUser, error)

	List(ctx context.Context, activeOnly bool) ([]*model.AdminUser, error)

	// ListPaginated returns the 1-based page in registration order together
	// with the total matching count.
	ListPaginated(ctx context.Context, page, pageSize int64, activeOnly bool) ([]*model.AdminUser, int64, error)
}

// UpdateProfileParams defines the optional fields for a profile update.
// Only the fields that are not nil will be updated.
type UpdateProfileParams struct {
	Company     *string
	Department  *string
	FirstName   *string
	LastName    *string
	JobTitle    *string
	PhoneNumber *string
	IsActive    *bool
}

const adminUserCollection = "admin_users"

type adminUserMongoRepository struct {
	db *mongo.Database
}

// NewAdminUserMongoRepository creates a MongoDB-backed admin user repository.
func NewAdminUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) AdminUserRepository {
	collection := db.Collection(adminUserCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_lower", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "registered_at", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create admin user indexes")
	}

	return &adminUserMongoRepository{db: db}
}

func (r *adminUserMongoRepository) Create(ctx context.Context, user *model.AdminUser) (*model.AdminUser, error) {
	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.EmailLower = strings.ToLower(user.Email)
	user.RegisteredAt = now
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Permissions == nil {
		user.Permissions = []permission.Permission{}
	}

	if _, err := r.db.Collection(adminUserCollection).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

func (r *adminUserMongoRepository) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *adminUserMongoRepository) GetByEmail(
	ctx context.Context,
	email string,
	activeOnly bool,
) (*model.AdminUser, error) {
	filter := bson.M{"email_lower": strings.ToLower(email)}
	if activeOnly {
		filter["is_active"] = true
	}
	return r.findOne(ctx, filter)
}

func (r *adminUserMongoRepository) Activate(ctx context.Context, id string) (*model.AdminUser, error) {
	return r.updateOne(ctx, id, bson.M{"is_active": true})
}

func (r *adminUserMongoRepository) UpdateProfile(
	ctx context.Context,
	id string,
	params UpdateProfileParams,
) (*model.AdminUser, error) {
	updateMap := bson.M{}
	if params.Company != nil {
		updateMap["company"] = *params.Company
	}
	if params.Department != nil {
		updateMap["department"] = *params.Department
	}
	if params.FirstName != nil {
		updateMap["first_name"] = *params.FirstName
	}
	if params.LastName != nil {
		updateMap["last_name"] = *params.LastName
	}
	if params.JobTitle != nil {
		updateMap["job_title"] = *params.JobTitle
	}
	if params.PhoneNumber != nil {
		updateMap["phone_number"] = *params.PhoneNumber
	}
	if params.IsActive != nil {
		updateMap["is_active"] = *params.IsActive
	}

	if len(updateMap) == 0 {
		return r.GetByID(ctx, id)
	}

	return r.updateOne(ctx, id, updateMap)
}

func (r *adminUserMongoRepository) SetPermissions(
	ctx context.Context,
	id string,
	perms []permission.Permission,
) (*model.AdminUser, error) {
	if perms == nil {
		perms = []permission.Permission{}
	}
	return r.updateOne(ctx, id, bson.M{"permissions": perms})
}

func (r *adminUserMongoRepository) SetPasswordHash(
	ctx context.Context,
	id string,
	hash string,
) (*model.AdminUser, error) {
	return r.updateOne(ctx, id, bson.M{"password_hash": hash})
}

func (r *adminUserMongoRepository) List(ctx context.Context, activeOnly bool) ([]*model.AdminUser, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "registered_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(adminUserCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeUsers(ctx, cursor)
}

func (r *adminUserMongoRepository) ListPaginated(
	ctx context.Context,
	page, pageSize int64,
	activeOnly bool,
) ([]*model.AdminUser, int64, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	collection := r.db.Collection(adminUserCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	// Registration order with _id as tie-breaker keeps pages deterministic
	// across repeated calls.
	findOptions := options.Find().
		SetSort(bson.D{{Key: "registered_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	users, err := decodeUsers(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *adminUserMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.Collection(adminUserCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *adminUserMongoRepository) updateOne(ctx context.Context, id string, set bson.M) (*model.AdminUser, error) {
	set["updated_at"] = time.Now()

	result := r.db.Collection(adminUserCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	var user model.AdminUser
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func decodeUsers(ctx context.Context, cursor *mongo.Cursor) ([]*model.AdminUser, error) {
	users := []*model.AdminUser{}
	for cursor.Next(ctx) {
		var user model.AdminUser
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
