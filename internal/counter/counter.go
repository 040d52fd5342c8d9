// Package counter provides the globally incrementing serial component backing
// asset identifiers. The counter lives in MongoDB so restarts never reuse a
// serial, and the increment is a single findAndModify so two concurrent
// creations can never receive the same value.
package counter

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionName = "counters"
	assetSerialKey = "assetSerial"
)

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Serial hands out asset serial numbers.
type Serial struct {
	DB *mongo.Database
}

// Next atomically increments the global counter and returns the new value.
// The first call on a fresh database returns 1.
func (s *Serial) Next(ctx context.Context) (int64, error) {
	coll := s.DB.Collection(collectionName)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": assetSerialKey},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to increment asset serial counter: %w", err)
	}
	return doc.Seq, nil
}

// Peek returns the serial the next call to Next would hand out, without
// consuming it. The value is advisory only; concurrent creators may take it
// first and the stored identifier always reflects the serial actually
// assigned at insert time.
func (s *Serial) Peek(ctx context.Context) (int64, error) {
	coll := s.DB.Collection(collectionName)

	var doc counterDoc
	err := coll.FindOne(ctx, bson.M{"_id": assetSerialKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read asset serial counter: %w", err)
	}
	return doc.Seq + 1, nil
}
