package sessions

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository persists refresh sessions. GetByRefresh returns (nil, nil) when
// the token is unknown; errors are reserved for store failures.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByRefresh(ctx context.Context, refresh string) (*Session, error)
	DeleteByRefresh(ctx context.Context, refresh string) error
}

// MongoRepository stores sessions in a collection with a TTL index, so Mongo
// reaps expired rows on its own. Used when Redis is not available.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "refresh_token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, s *Session) error {
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("sessions create: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	var s Session
	err := r.col.FindOne(ctx, bson.M{"refresh_token": refresh}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessions get: %w", err)
	}
	return &s, nil
}

func (r *MongoRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"refresh_token": refresh}); err != nil {
		return fmt.Errorf("sessions delete: %w", err)
	}
	return nil
}
