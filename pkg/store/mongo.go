package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mistaa/flowstudio/pkg/graph"
)

// MongoStore persists graphs in a MongoDB collection, one document per
// operator+graph pair.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// graphDoc is the stored document shape.
type graphDoc struct {
	OperatorID string      `bson:"operatorId"`
	GraphID    string      `bson:"graphId"`
	Graph      graph.Graph `bson:"graph"`
	UpdatedAt  time.Time   `bson:"updatedAt"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Load fetches the stored graph. A missing document yields an empty graph.
func (s *MongoStore) Load(ctx context.Context, operatorID, graphID string) (graph.Graph, error) {
	if err := checkIDs(operatorID, graphID); err != nil {
		return graph.Graph{}, err
	}

	var doc graphDoc
	err := s.coll.FindOne(ctx, s.filter(operatorID, graphID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return graph.Graph{}, nil
	}
	if err != nil {
		return graph.Graph{}, fmt.Errorf("mongo find: %w", err)
	}
	return doc.Graph, nil
}

// Save upserts the graph document. Concurrent saves resolve last-write-wins.
func (s *MongoStore) Save(ctx context.Context, operatorID, graphID string, g graph.Graph) error {
	if err := checkIDs(operatorID, graphID); err != nil {
		return err
	}

	doc := graphDoc{
		OperatorID: operatorID,
		GraphID:    graphID,
		Graph:      g,
		UpdatedAt:  time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, s.filter(operatorID, graphID), doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert: %w", err)
	}
	return nil
}

// Delete removes the graph document. Deleting a missing graph is a no-op.
func (s *MongoStore) Delete(ctx context.Context, operatorID, graphID string) error {
	if err := checkIDs(operatorID, graphID); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, s.filter(operatorID, graphID)); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// List returns the operator's graph IDs.
func (s *MongoStore) List(ctx context.Context, operatorID string) ([]string, error) {
	if err := checkIDs(operatorID); err != nil {
		return nil, err
	}

	cursor, err := s.coll.Find(ctx, bson.M{"operatorId": operatorID},
		options.Find().SetProjection(bson.M{"graphId": 1}).SetSort(bson.M{"graphId": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			GraphID string `bson:"graphId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		ids = append(ids, doc.GraphID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return ids, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) filter(operatorID, graphID string) bson.M {
	return bson.M{"operatorId": operatorID, "graphId": graphID}
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
