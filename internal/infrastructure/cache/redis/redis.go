package redis

import (
	"context"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CreateRedisClient returns nil when Redis is not configured or not reachable;
// callers treat a nil client as caching and rate limiting disabled.
func CreateRedisClient(config *config.Config) *redis.Client {
	if config.RedisConfig.Address == "" {
		log.Warn().Str("component", "CreateRedisClient").Msg("redis address not set, caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisConfig.Address,
		Password: config.RedisConfig.Password,
		DB:       config.RedisConfig.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("component", "CreateRedisClient").Msg("failed to connect to redis, caching disabled")
		client.Close()
		return nil
	}

	return client
}
