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

type driverRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewDriverRepository(db *mongo.Database, cache services.CacheService) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection("drivers"),
		cache:      cache,
	}
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, driver)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create driver: %w", repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}

	r.cacheDriver(ctx, driver)

	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	if driver := r.getDriverFromCache(ctx, services.DriverCacheKey(id)); driver != nil {
		return driver, nil
	}

	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("driver %s: %w", id.Hex(), repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	r.cacheDriver(ctx, &driver)

	return &driver, nil
}

func (r *driverRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	if driver := r.getDriverFromCache(ctx, services.DriverByUserCacheKey(userID)); driver != nil {
		return driver, nil
	}

	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("driver for user %s: %w", userID.Hex(), repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get driver by user ID: %w", err)
	}

	r.cacheDriver(ctx, &driver)

	return &driver, nil
}

func (r *driverRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver %s: %w", id.Hex(), repositories.ErrNotFound)
	}

	r.invalidateDriverCache(ctx, id)

	return nil
}

func (r *driverRepository) UpdateLocation(ctx context.Context, id primitive.ObjectID, location *models.Location) error {
	return r.Update(ctx, id, map[string]interface{}{
		"current_location":     location,
		"last_location_update": time.Now(),
	})
}

func (r *driverRepository) CountNearby(ctx context.Context, lng, lat, radiusKM float64, rideType models.RideType) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, r.nearbyFilter(lng, lat, radiusKM, rideType))
	if err != nil {
		return 0, fmt.Errorf("failed to count nearby drivers: %w", err)
	}

	return count, nil
}

func (r *driverRepository) GetNearby(ctx context.Context, lng, lat, radiusKM float64, rideType models.RideType, limit int64) ([]*models.Driver, error) {
	cursor, err := r.collection.Find(ctx, r.nearbyFilter(lng, lat, radiusKM, rideType), options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode nearby drivers: %w", err)
	}

	return drivers, nil
}

func (r *driverRepository) nearbyFilter(lng, lat, radiusKM float64, rideType models.RideType) bson.M {
	filter := bson.M{
		"current_location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": radiusKM * 1000,
			},
		},
		"is_available": true,
		"active_ride_id": nil,
		"last_location_update": bson.M{
			"$gte": time.Now().Add(-utils.StaleDriverLocationTimeout),
		},
	}

	if rideType != "" {
		filter["ride_type"] = rideType
	}

	return filter
}

// ClaimForRide is the driver half of the accept-ride race: the filter
// restates the availability precondition so only one concurrent caller can
// match.
func (r *driverRepository) ClaimForRide(ctx context.Context, driverID, rideID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": driverID, "is_available": true, "active_ride_id": nil},
		bson.M{"$set": bson.M{
			"is_available":   false,
			"active_ride_id": rideID,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to claim driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver %s not available: %w", driverID.Hex(), repositories.ErrNotFound)
	}

	r.invalidateDriverCache(ctx, driverID)

	return nil
}

func (r *driverRepository) ReleaseFromRide(ctx context.Context, driverID, rideID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": driverID, "active_ride_id": rideID},
		bson.M{"$set": bson.M{
			"is_available":   true,
			"active_ride_id": nil,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to release driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver %s has no active ride %s: %w", driverID.Hex(), rideID.Hex(), repositories.ErrNotFound)
	}

	r.invalidateDriverCache(ctx, driverID)

	return nil
}

func (r *driverRepository) CompleteActiveRide(ctx context.Context, driverID, rideID primitive.ObjectID, fare float64) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": driverID, "active_ride_id": rideID},
		bson.M{
			"$set": bson.M{
				"is_available":   true,
				"active_ride_id": nil,
				"updated_at":     time.Now(),
			},
			"$inc": bson.M{
				"completed_rides":        1,
				"earnings.total":         fare,
				"earnings.current_week":  fare,
				"earnings.current_month": fare,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to complete driver ride: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver %s has no active ride %s: %w", driverID.Hex(), rideID.Hex(), repositories.ErrNotFound)
	}

	r.invalidateDriverCache(ctx, driverID)

	return nil
}

func (r *driverRepository) SetAvailability(ctx context.Context, driverID primitive.ObjectID, available bool) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": driverID, "active_ride_id": nil},
		bson.M{"$set": bson.M{
			"is_available": available,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to set driver availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver %s is on an active ride: %w", driverID.Hex(), repositories.ErrNotFound)
	}

	r.invalidateDriverCache(ctx, driverID)

	return nil
}

func (r *driverRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, average float64, count int64) error {
	return r.Update(ctx, id, map[string]interface{}{
		"rating.average": average,
		"rating.count":   count,
	})
}

func (r *driverRepository) cacheDriver(ctx context.Context, driver *models.Driver) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, services.DriverCacheKey(driver.ID), driver, services.DriverCacheTTL)
	r.cache.Set(ctx, services.DriverByUserCacheKey(driver.UserID), driver, services.DriverCacheTTL)
}

func (r *driverRepository) getDriverFromCache(ctx context.Context, key string) *models.Driver {
	if r.cache == nil {
		return nil
	}
	var driver models.Driver
	if err := r.cache.Get(ctx, key, &driver); err != nil {
		return nil
	}
	return &driver
}

func (r *driverRepository) invalidateDriverCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}

	// The user-keyed entry has to go too; look it up before deleting.
	var driver models.Driver
	if err := r.cache.Get(ctx, services.DriverCacheKey(id), &driver); err == nil {
		r.cache.Delete(ctx, services.DriverByUserCacheKey(driver.UserID))
	}
	r.cache.Delete(ctx, services.DriverCacheKey(id))
}
