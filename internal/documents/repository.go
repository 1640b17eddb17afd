package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("document not found")

// Repository persists document metadata. Every read and delete is scoped to
// the owning user, so a foreign id is indistinguishable from a missing one.
type Repository interface {
	List(ctx context.Context, owner string) ([]Document, error)
	Get(ctx context.Context, owner, id string) (*Document, error)
	Create(ctx context.Context, owner, fileName, fileURL string) (*Document, error)
	Remove(ctx context.Context, owner, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "uploaded_at", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context, owner string) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("documents list: %w", err)
	}
	defer cur.Close(ctx)
	out := []Document{}
	for cur.Next(ctx) {
		var row documentRow
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("documents decode: %w", err)
		}
		out = append(out, fromRow(row))
	}
	return out, cur.Err()
}

func (r *MongoRepository) Get(ctx context.Context, owner, id string) (*Document, error) {
	var row documentRow
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": owner}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("documents get: %w", err)
	}
	doc := fromRow(row)
	return &doc, nil
}

func (r *MongoRepository) Create(ctx context.Context, owner, fileName, fileURL string) (*Document, error) {
	row := documentRow{
		ID:         uuid.NewString(),
		UserID:     owner,
		FileName:   fileName,
		FileURL:    fileURL,
		UploadedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, row); err != nil {
		return nil, fmt.Errorf("documents create: %w", err)
	}
	doc := fromRow(row)
	return &doc, nil
}

func (r *MongoRepository) Remove(ctx context.Context, owner, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": owner})
	if err != nil {
		return fmt.Errorf("documents remove: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
