package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetDriverAvailability stores driver availability status
func SetDriverAvailability(ctx context.Context, driverID uint, isAvailable bool) error {
	key := fmt.Sprintf("driver:availability:%d", driverID)
	value := "true"
	if !isAvailable {
		value = "false"
	}
	return RedisClient.Set(ctx, key, value, time.Hour).Err()
}

// GetDriverAvailability retrieves driver availability status
func GetDriverAvailability(ctx context.Context, driverID uint) (bool, error) {
	key := fmt.Sprintf("driver:availability:%d", driverID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result == "true", nil
}

// PublishTripConfirmed publishes a confirmed booking to Redis pub/sub so
// other service instances can relay it to their connected drivers.
func PublishTripConfirmed(ctx context.Context, payload TripConfirmedPayload) error {
	data, err := json.Marshal(map[string]interface{}{
		"event":     "trip_confirmed",
		"payload":   payload,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "trip:updates", data).Err()
}

// PublishTripAccepted publishes the winning driver for a booking.
func PublishTripAccepted(ctx context.Context, bookingID, driverID uint) error {
	data, err := json.Marshal(map[string]interface{}{
		"event":     "trip_accepted",
		"bookingId": bookingID,
		"driverId":  driverID,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "trip:updates", data).Err()
}
