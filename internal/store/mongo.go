package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const mongoConnectTimeout = 5 * time.Second

// MongoStore implements RecordStore over a document-store server.
type MongoStore struct {
	client *mongo.Client
	dbName string
}

// OpenMongo connects to the server behind uri. Server selection is bounded
// so an unreachable host fails within mongoConnectTimeout instead of
// stalling the caller.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &MongoStore{client: client, dbName: dbName}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) ListCollections(ctx context.Context) ([]string, error) {
	return s.client.Database(s.dbName).ListCollectionNames(ctx, bson.D{})
}

func (s *MongoStore) CreateCollection(ctx context.Context, name string) error {
	err := s.client.Database(s.dbName).CreateCollection(ctx, name)
	if err != nil {
		// Creating an existing collection is a no-op, matching the sqlite
		// engine's CREATE TABLE IF NOT EXISTS.
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == 48 { // NamespaceExists
			return nil
		}
		return err
	}
	return nil
}

func (s *MongoStore) ReadAll(ctx context.Context, collection string) ([]Record, error) {
	cursor, err := s.client.Database(s.dbName).Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var rec Record
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, cursor.Err()
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]any, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}

	res, err := s.client.Database(s.dbName).Collection(collection).
		InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		// In unordered mode duplicate-key rejections are reported alongside
		// the rows that did go in; count only the successes.
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			inserted := len(records) - len(bulkErr.WriteErrors)
			zap.S().Named("mongo_store").Debugw("partial insert",
				"collection", collection,
				"inserted", inserted,
				"rejected", len(bulkErr.WriteErrors))
			return inserted, nil
		}
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) Clear(ctx context.Context, collection string) error {
	_, err := s.client.Database(s.dbName).Collection(collection).DeleteMany(ctx, bson.D{})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) DatabaseName() string { return s.dbName }
