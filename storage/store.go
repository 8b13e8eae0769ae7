// Package storage persists the unified cluster snapshot in MongoDB. Each
// collection run fully replaces the previous snapshot.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lyric-engineering/fleetscope/telemetry"
	"github.com/lyric-engineering/fleetscope/types"
)

const collectionName = "clusters"

// Store is the MongoDB-backed snapshot store.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *telemetry.Logger
}

// clusterDoc is the stored shape: the record plus the snapshot timestamp.
type clusterDoc struct {
	types.ClusterRecord `bson:",inline"`
	SyncedAt            time.Time `bson:"synced_at"`
}

// NewStore connects to MongoDB and prepares the clusters collection.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	collection := client.Database(database).Collection(collectionName)

	// Names are unique per provider+account scope, not globally, so the
	// index is non-unique.
	_, err = collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "provider", Value: 1}, {Key: "account_type", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &Store{
		client:     client,
		collection: collection,
		logger:     telemetry.NewLogger("storage"),
	}, nil
}

// ReplaceSnapshot replaces the queryable snapshot with the given run's
// records. Creation timestamps are normalized to UTC at storage time.
func (s *Store) ReplaceSnapshot(ctx context.Context, clusters []types.ClusterRecord) error {
	syncedAt := time.Now().UTC()

	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	if len(clusters) == 0 {
		s.logger.WithContext(ctx).Info().Msg("snapshot replaced with empty run")
		return nil
	}

	if _, err := s.collection.InsertMany(ctx, buildDocs(clusters, syncedAt)); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	s.logger.WithContext(ctx).Info().
		Int("clusters", len(clusters)).
		Msg("snapshot replaced")

	return nil
}

// buildDocs wraps records as stored documents, normalizing creation
// timestamps to UTC.
func buildDocs(clusters []types.ClusterRecord, syncedAt time.Time) []interface{} {
	docs := make([]interface{}, 0, len(clusters))
	for _, cluster := range clusters {
		cluster.CreatedAt = cluster.CreatedAt.UTC()
		docs = append(docs, clusterDoc{ClusterRecord: cluster, SyncedAt: syncedAt})
	}
	return docs
}

// ListSummaries returns the summary projection of every stored cluster.
func (s *Store) ListSummaries(ctx context.Context) ([]ClusterSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: 1},
			{Key: "provider", Value: 1},
			{Key: "type", Value: 1},
			{Key: "region", Value: 1},
			{Key: "customer_category", Value: 1},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate summaries: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	summaries := []ClusterSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("read summaries: %w", err)
	}

	return summaries, nil
}

// GetCluster returns the detail projection of one cluster by name, or nil
// when no such cluster is stored.
func (s *Store) GetCluster(ctx context.Context, name string) (*ClusterDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "name", Value: name}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: 1},
			{Key: "provider", Value: 1},
			{Key: "cluster_version", Value: 1},
			{Key: "region", Value: 1},
			{Key: "created_at", Value: 1},
			{Key: "status", Value: 1},
			{Key: "tags", Value: 1},
			{Key: "nodeGroups", Value: 1},
		}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate cluster %s: %w", name, err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var details []ClusterDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("read cluster %s: %w", name, err)
	}
	if len(details) == 0 {
		return nil, nil
	}

	return &details[0], nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
