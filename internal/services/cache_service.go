package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CacheService is the subset of cache operations the repositories use.
// pkg/cache.RedisCache satisfies it; passing nil disables caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

const (
	RideCacheTTL   = 30 * time.Minute
	DriverCacheTTL = 30 * time.Minute
)

func RideCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("ride:%s", id.Hex())
}

func DriverCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("driver:%s", id.Hex())
}

func DriverByUserCacheKey(userID primitive.ObjectID) string {
	return fmt.Sprintf("driver:user:%s", userID.Hex())
}
