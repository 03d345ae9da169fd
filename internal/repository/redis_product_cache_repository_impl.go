package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Aymix/whitecart/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productListKeyPrefix = "products:list:"
	productKeyPrefix     = "product:"
)

type RedisProductCacheRepositoryImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// CreateRedisProductCacheRepository accepts a nil client, in which case every lookup misses.
func CreateRedisProductCacheRepository(client *redis.Client, ttl time.Duration) ProductCacheRepository {
	return &RedisProductCacheRepositoryImpl{client: client, ttl: ttl}
}

func ProductListCacheKey(category string, q string, page int, limit int) string {
	key, _ := json.Marshal([]interface{}{category, q, page, limit})
	return productListKeyPrefix + string(key)
}

func (r *RedisProductCacheRepositoryImpl) GetProducts(ctx context.Context, key string) (data []dto.ProductResponse, found bool) {
	found = r.get(ctx, key, &data)
	return
}

func (r *RedisProductCacheRepositoryImpl) SetProducts(ctx context.Context, key string, data []dto.ProductResponse) {
	r.set(ctx, key, data)
}

func (r *RedisProductCacheRepositoryImpl) GetProduct(ctx context.Context, id string) (data dto.ProductResponse, found bool) {
	found = r.get(ctx, productKeyPrefix+id, &data)
	return
}

func (r *RedisProductCacheRepositoryImpl) SetProduct(ctx context.Context, data dto.ProductResponse) {
	r.set(ctx, productKeyPrefix+data.ID, data)
}

// Invalidate drops the given product entries and every cached list.
func (r *RedisProductCacheRepositoryImpl) Invalidate(ctx context.Context, ids ...string) {
	if r.client == nil {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKeyPrefix+id)
	}

	iter := r.client.Scan(ctx, 0, productListKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Invalidate").Msg("")
	}

	if len(keys) == 0 {
		return
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Invalidate").Msg("")
	}
}

func (r *RedisProductCacheRepositoryImpl) get(ctx context.Context, key string, dest interface{}) bool {
	if r.client == nil {
		return false
	}

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "ProductCache.get").Msg("")
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCache.get").Msg("")
		return false
	}

	return true
}

func (r *RedisProductCacheRepositoryImpl) set(ctx context.Context, key string, value interface{}) {
	if r.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCache.set").Msg("")
		return
	}

	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCache.set").Msg("")
	}
}
