package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// Collection names.
const (
	LayoutsCollection = "layouts"
	IndexesCollection = "indexes"
)

// MongoOptions configure [NewMongoStore].
type MongoOptions struct {
	URI      string
	Database string // Default "phylolane"
	// TTL expires documents this long after creation. Zero keeps them.
	TTL time.Duration
}

// MongoStore stores documents in MongoDB.
type MongoStore struct {
	client  *mongo.Client
	layouts *mongo.Collection
	indexes *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the TTL indexes exist when opts.TTL is set.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = "phylolane"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(opts.Database)
	s := &MongoStore{
		client:  client,
		layouts: db.Collection(LayoutsCollection),
		indexes: db.Collection(IndexesCollection),
	}
	if opts.TTL > 0 {
		for _, c := range []*mongo.Collection{s.layouts, s.indexes} {
			model := mongo.IndexModel{
				Keys:    bson.D{{Key: "created_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(int32(opts.TTL.Seconds())),
			}
			if _, err := c.Indexes().CreateOne(ctx, model); err != nil {
				_ = client.Disconnect(ctx)
				return nil, fmt.Errorf("create ttl index on %s: %w", c.Name(), err)
			}
		}
	}
	return s, nil
}

func (s *MongoStore) SaveLayout(ctx context.Context, doc *LayoutDoc) error {
	prepare(&doc.ID, &doc.CreatedAt)
	return s.upsert(ctx, s.layouts, doc.ID, doc)
}

func (s *MongoStore) GetLayout(ctx context.Context, id string) (*LayoutDoc, error) {
	var doc LayoutDoc
	if err := s.layouts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, layoutNotFound(id)
		}
		return nil, fmt.Errorf("find layout: %w", err)
	}
	return &doc, nil
}

func (s *MongoStore) DeleteLayout(ctx context.Context, id string) error {
	if _, err := s.layouts.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

func (s *MongoStore) SaveIndex(ctx context.Context, doc *IndexDoc) error {
	prepare(&doc.ID, &doc.CreatedAt)
	return s.upsert(ctx, s.indexes, doc.ID, doc)
}

func (s *MongoStore) GetIndex(ctx context.Context, id string) (*IndexDoc, error) {
	var doc IndexDoc
	if err := s.indexes.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, indexNotFound(id)
		}
		return nil, fmt.Errorf("find index: %w", err)
	}
	return &doc, nil
}

func (s *MongoStore) upsert(ctx context.Context, c *mongo.Collection, id string, doc any) error {
	_, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save to %s: %w", c.Name(), err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
