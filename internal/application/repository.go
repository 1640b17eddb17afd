package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound covers both a genuinely absent row and a row owned by a
// different identity; the two are indistinguishable by design.
var ErrNotFound = errors.New("application not found")

// Repository defines persistence operations for job applications. Every
// operation is scoped to the owning identity; implementations must make a
// foreign-owned id behave exactly like a missing one.
type Repository interface {
	List(ctx context.Context, owner string) ([]JobApplication, error)
	Get(ctx context.Context, owner, id string) (*JobApplication, error)
	Create(ctx context.Context, owner string, f FormData) (*JobApplication, error)
	Update(ctx context.Context, owner, id string, p Patch) (*JobApplication, error)
	Remove(ctx context.Context, owner, id string) error
	AddInterviewNote(ctx context.Context, owner, id string, note InterviewNote) (*JobApplication, error)
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates the repository and ensures the owner/created_at
// index used by List.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context, owner string) ([]JobApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []JobApplication{}
	for cur.Next(ctx) {
		var row applicationRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, fromRow(row))
	}
	return out, cur.Err()
}

func (r *MongoRepository) Get(ctx context.Context, owner, id string) (*JobApplication, error) {
	var row applicationRow
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": owner}).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	app := fromRow(row)
	return &app, nil
}

func (r *MongoRepository) Create(ctx context.Context, owner string, f FormData) (*JobApplication, error) {
	row := toRow(owner, f)
	row.ID = uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)
	row.CreatedAt = now
	row.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, row); err != nil {
		return nil, err
	}
	app := fromRow(row)
	return &app, nil
}

func (r *MongoRepository) Update(ctx context.Context, owner, id string, p Patch) (*JobApplication, error) {
	set := setFields(p)
	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var row applicationRow
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": owner},
		bson.M{"$set": set}, opts).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	app := fromRow(row)
	return &app, nil
}

func (r *MongoRepository) Remove(ctx context.Context, owner, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddInterviewNote appends atomically with $push, so concurrent appends from
// two sessions both land instead of last-writer-wins over the whole list.
func (r *MongoRepository) AddInterviewNote(ctx context.Context, owner, id string, note InterviewNote) (*JobApplication, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var row applicationRow
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": owner},
		bson.M{
			"$push": bson.M{"interview_prep": note},
			"$set":  bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
		}, opts).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	app := fromRow(row)
	return &app, nil
}
