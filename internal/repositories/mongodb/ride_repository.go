package mongodb

import (
	"context"
	"fmt"
	"time"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/internal/services"
	"shareride/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewRideRepository(db *mongo.Database, cache services.CacheService) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("rides"),
		cache:      cache,
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	if ride.RideNumber == "" {
		ride.RideNumber = utils.NewRideNumber()
	}
	ride.RequestedAt = time.Now()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}

	if !ride.Status.IsTerminal() {
		r.cacheRide(ctx, ride)
	}

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	if ride := r.getRideFromCache(ctx, id); ride != nil {
		return ride, nil
	}

	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("ride %s: %w", id.Hex(), repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	if !ride.Status.IsTerminal() {
		r.cacheRide(ctx, &ride)
	}

	return &ride, nil
}

// AssignDriver restates the acceptability precondition in the filter so two
// concurrent accepts resolve to exactly one winner.
func (r *rideRepository) AssignDriver(ctx context.Context, rideID, driverID primitive.ObjectID) (*models.Ride, error) {
	now := time.Now()
	filter := bson.M{
		"_id":       rideID,
		"status":    bson.M{"$in": bson.A{models.RideStatusRequested, models.RideStatusSearchingDriver}},
		"driver_id": nil,
	}
	update := bson.M{"$set": bson.M{
		"driver_id":   driverID,
		"status":      models.RideStatusDriverAssigned,
		"accepted_at": now,
		"updated_at":  now,
	}}

	return r.findOneAndUpdate(ctx, rideID, filter, update)
}

func (r *rideRepository) UpdateStatusIf(ctx context.Context, rideID primitive.ObjectID, from []models.RideStatus, to models.RideStatus, set map[string]interface{}) (*models.Ride, error) {
	statuses := make(bson.A, 0, len(from))
	for _, s := range from {
		statuses = append(statuses, s)
	}

	updates := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range set {
		updates[k] = v
	}

	filter := bson.M{"_id": rideID, "status": bson.M{"$in": statuses}}

	return r.findOneAndUpdate(ctx, rideID, filter, bson.M{"$set": updates})
}

func (r *rideRepository) SetRating(ctx context.Context, rideID primitive.ObjectID, field string, rating *models.RideRating) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": rideID, "status": models.RideStatusCompleted, field: nil},
		bson.M{"$set": bson.M{
			field:        rating,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to set ride rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ride %s not ratable: %w", rideID.Hex(), repositories.ErrNotFound)
	}

	r.invalidateRideCache(ctx, rideID)

	return nil
}

// ReserveSeats is the optimistic seat reservation: the $gte guard plus the
// single $inc make overbooking impossible under concurrent joins.
func (r *rideRepository) ReserveSeats(ctx context.Context, rideID primitive.ObjectID, seats int) (*models.Ride, error) {
	filter := bson.M{
		"_id":             rideID,
		"status":          models.RideStatusOpen,
		"available_seats": bson.M{"$gte": seats},
	}
	update := bson.M{
		"$inc": bson.M{"available_seats": -seats},
		"$set": bson.M{"updated_at": time.Now()},
	}

	return r.findOneAndUpdate(ctx, rideID, filter, update)
}

func (r *rideRepository) RestoreSeats(ctx context.Context, rideID primitive.ObjectID, seats int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": rideID},
		bson.M{
			"$inc": bson.M{"available_seats": seats},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to restore seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ride %s: %w", rideID.Hex(), repositories.ErrNotFound)
	}

	r.invalidateRideCache(ctx, rideID)

	return nil
}

func (r *rideRepository) AppendRequestID(ctx context.Context, rideID, requestID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": rideID},
		bson.M{
			"$addToSet": bson.M{"ride_request_ids": requestID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append ride request: %w", err)
	}

	r.invalidateRideCache(ctx, rideID)

	return nil
}

func (r *rideRepository) ListByRider(ctx context.Context, riderID primitive.ObjectID, params utils.PaginationParams) ([]*models.Ride, int64, error) {
	return r.list(ctx, bson.M{"rider_id": riderID}, params)
}

func (r *rideRepository) ListOpenOffers(ctx context.Context, params utils.PaginationParams) ([]*models.Ride, int64, error) {
	return r.list(ctx, bson.M{
		"status":          models.RideStatusOpen,
		"available_seats": bson.M{"$gt": 0},
	}, params)
}

func (r *rideRepository) list(ctx context.Context, filter bson.M, params utils.PaginationParams) ([]*models.Ride, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rides: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "requested_at", Value: -1}}).
		SetSkip(params.Skip()).
		SetLimit(params.Limit())

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rides: %w", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, 0, fmt.Errorf("failed to decode rides: %w", err)
	}

	return rides, total, nil
}

func (r *rideRepository) findOneAndUpdate(ctx context.Context, rideID primitive.ObjectID, filter, update bson.M) (*models.Ride, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ride models.Ride
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("ride %s precondition not met: %w", rideID.Hex(), repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update ride: %w", err)
	}

	r.invalidateRideCache(ctx, rideID)
	if !ride.Status.IsTerminal() {
		r.cacheRide(ctx, &ride)
	}

	return &ride, nil
}

func (r *rideRepository) cacheRide(ctx context.Context, ride *models.Ride) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, services.RideCacheKey(ride.ID), ride, services.RideCacheTTL)
}

func (r *rideRepository) getRideFromCache(ctx context.Context, id primitive.ObjectID) *models.Ride {
	if r.cache == nil {
		return nil
	}
	var ride models.Ride
	if err := r.cache.Get(ctx, services.RideCacheKey(id), &ride); err != nil {
		return nil
	}
	return &ride
}

func (r *rideRepository) invalidateRideCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, services.RideCacheKey(id))
}
