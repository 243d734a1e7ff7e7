package mongodb

import (
	"context"
	"fmt"
	"time"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRequestRepository struct {
	collection *mongo.Collection
}

func NewRideRequestRepository(db *mongo.Database) interfaces.RideRequestRepository {
	return &rideRequestRepository{
		collection: db.Collection("ride_requests"),
	}
}

func (r *rideRequestRepository) Create(ctx context.Context, request *models.RideRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		// The partial unique index on (ride_id, passenger_id) rejects a
		// second non-terminal request from the same passenger.
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create ride request: %w", repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create ride request: %w", err)
	}

	return nil
}

func (r *rideRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	var request models.RideRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("ride request %s: %w", id.Hex(), repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ride request: %w", err)
	}

	return &request, nil
}

func (r *rideRequestRepository) GetActiveByRideAndPassenger(ctx context.Context, rideID, passengerID primitive.ObjectID) (*models.RideRequest, error) {
	var request models.RideRequest
	err := r.collection.FindOne(ctx, bson.M{
		"ride_id":      rideID,
		"passenger_id": passengerID,
		"status":       bson.M{"$in": bson.A{models.RideRequestStatusPending, models.RideRequestStatusAccepted}},
	}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("active ride request: %w", repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active ride request: %w", err)
	}

	return &request, nil
}

func (r *rideRequestRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to models.RideRequestStatus, driverMessage string) (*models.RideRequest, error) {
	now := time.Now()
	updates := bson.M{
		"status":       to,
		"responded_at": now,
		"updated_at":   now,
	}
	if driverMessage != "" {
		updates["driver_message"] = driverMessage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var request models.RideRequest
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": updates},
		opts,
	).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("ride request %s not %s: %w", id.Hex(), from, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update ride request status: %w", err)
	}

	return &request, nil
}

func (r *rideRequestRepository) ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"ride_id": rideID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list ride requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.RideRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode ride requests: %w", err)
	}

	return requests, nil
}

func (r *rideRequestRepository) ListByPassenger(ctx context.Context, passengerID primitive.ObjectID, params utils.PaginationParams) ([]*models.RideRequest, int64, error) {
	filter := bson.M{"passenger_id": passengerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ride requests: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(params.Skip()).
		SetLimit(params.Limit())

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ride requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.RideRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("failed to decode ride requests: %w", err)
	}

	return requests, total, nil
}
