package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoDbName = "meetbot"
	EventsColName      = "events"
)

// MongoStore keeps one document per event and replaces the whole
// collection on write.
type MongoStore struct {
	mongodbClient *mongo.Client
	dbName        string
}

func NewMongoStore(mongodbClient *mongo.Client, dbName string) *MongoStore {
	if dbName == "" {
		dbName = DefaultMongoDbName
	}
	return &MongoStore{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (ms *MongoStore) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if ms.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return ms.mongodbClient.Database(dbName).Collection(colName), nil
}

func (ms *MongoStore) ReadAll(ctx context.Context) (Events, error) {
	col, err := ms.GetCollection(ctx, ms.dbName, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "dateTime", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := Events{}
	for cursor.Next(ctx) {
		var ev Event
		if err := cursor.Decode(&ev); err != nil {
			return nil, fmt.Errorf("error decoding event: %w", err)
		}
		if ev.Attendees == nil {
			ev.Attendees = []Attendee{}
		}
		events = append(events, &ev)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return events, nil
}

// WriteAll upserts every event by id, then removes the ones no longer in
// the collection. A failed upsert leaves the previous documents in place.
func (ms *MongoStore) WriteAll(ctx context.Context, events Events) error {
	col, err := ms.GetCollection(ctx, ms.dbName, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	ids, writes := upsertModels(events)
	if len(writes) > 0 {
		if _, err := col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("error upserting events: %w", err)
		}
	}
	if _, err := col.DeleteMany(ctx, bson.M{"id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("error removing deleted events: %w", err)
	}
	return nil
}

func upsertModels(events Events) ([]string, []mongo.WriteModel) {
	ids := make([]string, 0, len(events))
	writes := make([]mongo.WriteModel, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": ev.ID}).
			SetReplacement(ev).
			SetUpsert(true))
	}
	return ids, writes
}
