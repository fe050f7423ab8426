package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/phylo/pkg/cache"
)

// DefaultDatabase is the database used when none is configured.
const DefaultDatabase = "phylo"

const treesCollection = "trees"

// MongoStore keeps records in the "trees" collection of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and pings the server, retrying transient
// failures with the cache package's backoff.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewMongoStoreFromClient(client, database), nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(treesCollection),
	}
}

func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo put %s: %w", rec.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get %s: %w", id, err)
	}
	return &rec, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
