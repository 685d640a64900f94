package mongodb

import (
	"context"
	"strings"
	"time"

	"corpsuite/internal/auth/domain/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuthRepository implements the AuthRepository interface using MongoDB
type MongoAuthRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

// NewMongoAuthRepository creates a new MongoDB auth repository and ensures
// the indexes it relies on.
func NewMongoAuthRepository(db *mongo.Database) (*MongoAuthRepository, error) {
	repo := &MongoAuthRepository{
		db:    db,
		users: db.Collection("users"),
	}

	ctx := context.Background()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, err
	}

	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	// OAuth identities are looked up as (provider, subject) pairs.
	oauthIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "oauth_provider", Value: 1}, {Key: "oauth_id", Value: 1}},
		Options: options.Index().SetSparse(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, oauthIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateUser inserts a new user. A duplicate email maps to ErrEmailTaken.
func (r *MongoAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (r *MongoAuthRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// GetUserByID retrieves a user by its stable ID.
func (r *MongoAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetUserByOAuth retrieves a user by its linked provider identity.
func (r *MongoAuthRepository) GetUserByOAuth(ctx context.Context, provider, subjectID string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"oauth_provider": provider, "oauth_id": subjectID})
}

// UpdateUser replaces the stored document for the user.
func (r *MongoAuthRepository) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := r.users.ReplaceOne(ctx, bson.M{"id": user.ID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *MongoAuthRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
