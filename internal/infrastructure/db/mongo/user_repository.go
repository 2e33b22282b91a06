package mongo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

const userCollection = "users"

var _ ports.UserRepository = (*MongoUserRepository)(nil)

// MongoUserRepository is the document-store implementation of the user
// repository. Accounts use an application-assigned string key (user_id) so
// the Mongo ObjectID never leaks into the domain.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type userDoc struct {
	UserID         string `bson:"user_id"`
	Username       string `bson:"username"`
	Email          string `bson:"email,omitempty"`
	Role           string `bson:"role"`
	HashedPassword string `bson:"hashed_password"`
	CreatedAt      int64  `bson:"created_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:        d.UserID,
		Username:  d.Username,
		Email:     d.Email,
		Role:      d.Role,
		CreatedAt: time.Unix(d.CreatedAt, 0).UTC(),
	}
}

// newUserID generates an opaque account key, e.g. "us-3f9a1c04be".
func newUserID() string {
	buf := make([]byte, 5)
	_, _ = rand.Read(buf)
	return "us-" + hex.EncodeToString(buf)
}

func (r *MongoUserRepository) Create(ctx context.Context, input domain.NewUserInput, hashedPassword string) (string, error) {
	doc := userDoc{
		UserID:         newUserID(),
		Username:       input.Username,
		Email:          input.Email,
		Role:           input.Role,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC().Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return doc.UserID, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"user_id": id})
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetAuthByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user auth: %w", err)
	}
	return doc.toDomain(), doc.HashedPassword, nil
}

func (r *MongoUserRepository) DeleteByUsername(ctx context.Context, username string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique constraints the service relies on:
// username and user_id always unique, email unique when present (sparse).
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_users_username"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uq_users_email"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_users_user_id"),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}
