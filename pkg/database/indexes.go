package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. Safe to call
// at every startup; MongoDB treats existing identical indexes as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"drivers": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "current_location", Value: "2dsphere"}},
			},
			{
				Keys: bson.D{{Key: "is_available", Value: 1}, {Key: "ride_type", Value: 1}},
			},
		},
		"rides": {
			{
				Keys:    bson.D{{Key: "ride_number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "rider_id", Value: 1}, {Key: "requested_at", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}},
			},
		},
		"ride_requests": {
			// Backs the one-non-terminal-request-per-(ride, passenger) rule.
			{
				Keys: bson.D{{Key: "ride_id", Value: 1}, {Key: "passenger_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{
						"status": bson.M{"$in": bson.A{"pending", "accepted"}},
					}),
			},
			{
				Keys: bson.D{{Key: "passenger_id", Value: 1}, {Key: "created_at", Value: -1}},
			},
		},
		"notifications": {
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}
