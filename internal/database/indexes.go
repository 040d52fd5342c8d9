package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the workflows depend on. CreateMany is
// idempotent, so this runs unconditionally at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	itemIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uniqueId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Manufacturer serials are unique when present; sparse so units
			// without one do not collide on the missing key.
			Keys:    bson.D{{Key: "productSerialNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assetCategory", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: 1}}},
		{Keys: bson.D{{Key: "assetName", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := db.Collection("inventory_items").Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create inventory_items indexes: %w", err)
	}

	requestIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "requestID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "employeeID", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "submittedAt", Value: -1}}},
	}
	if _, err := db.Collection("requests").Indexes().CreateMany(ctx, requestIndexes); err != nil {
		return fmt.Errorf("failed to create requests indexes: %w", err)
	}

	returnIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "returnID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "employeeID", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "requestedAt", Value: -1}}},
		{
			// At most one pending return request per item. The handler also
			// checks, but this index is the authoritative guard under
			// concurrent submissions.
			Keys: bson.D{{Key: "inventoryItemID", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
	}
	if _, err := db.Collection("return_requests").Indexes().CreateMany(ctx, returnIndexes); err != nil {
		return fmt.Errorf("failed to create return_requests indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "employeeID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	txnIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "inventoryItemID", Value: 1}}},
		{Keys: bson.D{{Key: "employeeID", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := db.Collection("transactions").Indexes().CreateMany(ctx, txnIndexes); err != nil {
		return fmt.Errorf("failed to create transactions indexes: %w", err)
	}

	return nil
}
