package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shelfwise/planogram/pkg/observability"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// MongoStore persists planograms in a MongoDB collection, one document
// per planogram keyed by its id. Saves are upserts, so repeated commits
// of the same planogram replace the document in place.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig selects the deployment and namespace.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // defaults to "planogram"
	Collection string // defaults to "planograms"
}

// NewMongoStore connects and pings before returning.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "planogram"
	}
	if cfg.Collection == "" {
		cfg.Collection = "planograms"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, cfg planogram.Config) error {
	start := time.Now()
	err := s.save(ctx, cfg)
	observability.Store().OnSave(ctx, cfg.ID, time.Since(start), err)
	return err
}

func (s *MongoStore) save(ctx context.Context, cfg planogram.Config) error {
	if err := checkShape(cfg); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": cfg.ID}, cfg, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save planogram %s: %w", cfg.ID, err)
	}
	return nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (planogram.Config, error) {
	start := time.Now()
	var cfg planogram.Config
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		err = ErrNotFound
	} else if err != nil {
		err = fmt.Errorf("load planogram %s: %w", id, err)
	}
	observability.Store().OnLoad(ctx, id, time.Since(start), err)
	if err != nil {
		return planogram.Config{}, err
	}
	return cfg, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]Summary, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list planograms: %w", err)
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var cfg planogram.Config
		if err := cur.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode planogram: %w", err)
		}
		out = append(out, summarize(cfg))
	}
	return out, cur.Err()
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete planogram %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
