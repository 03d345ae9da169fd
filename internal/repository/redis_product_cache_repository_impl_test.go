package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Aymix/whitecart/internal/dto"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestProductCache_GetSetProduct(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := CreateRedisProductCacheRepository(client, 5*time.Minute)
	ctx := context.Background()

	_, found := cache.GetProduct(ctx, "p1")
	assert.False(t, found)

	cache.SetProduct(ctx, dto.ProductResponse{ID: "p1", Name: "Apples", OfferPrice: 3.99})

	product, found := cache.GetProduct(ctx, "p1")
	require.True(t, found)
	assert.Equal(t, "Apples", product.Name)
	assert.Equal(t, 3.99, product.OfferPrice)

	mr.FastForward(6 * time.Minute)
	_, found = cache.GetProduct(ctx, "p1")
	assert.False(t, found)
}

func TestProductCache_InvalidateDropsListsAndProduct(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := CreateRedisProductCacheRepository(client, time.Minute)
	ctx := context.Background()

	allKey := ProductListCacheKey("", "", 0, 0)
	fruitKey := ProductListCacheKey("Fruits", "", 0, 0)

	cache.SetProducts(ctx, allKey, []dto.ProductResponse{{ID: "p1"}, {ID: "p2"}})
	cache.SetProducts(ctx, fruitKey, []dto.ProductResponse{{ID: "p1"}})
	cache.SetProduct(ctx, dto.ProductResponse{ID: "p1"})
	cache.SetProduct(ctx, dto.ProductResponse{ID: "p2"})

	list, found := cache.GetProducts(ctx, allKey)
	require.True(t, found)
	assert.Len(t, list, 2)

	cache.Invalidate(ctx, "p1")

	assert.False(t, mr.Exists(allKey))
	assert.False(t, mr.Exists(fruitKey))
	assert.False(t, mr.Exists("product:p1"))
	assert.True(t, mr.Exists("product:p2"))
}

func TestProductCache_NilClientAlwaysMisses(t *testing.T) {
	cache := CreateRedisProductCacheRepository(nil, time.Minute)
	ctx := context.Background()

	cache.SetProduct(ctx, dto.ProductResponse{ID: "p1"})
	_, found := cache.GetProduct(ctx, "p1")
	assert.False(t, found)

	cache.Invalidate(ctx, "p1")
}

func TestProductCache_BackendDownIsAMiss(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := CreateRedisProductCacheRepository(client, time.Minute)
	ctx := context.Background()

	cache.SetProduct(ctx, dto.ProductResponse{ID: "p1"})
	mr.Close()

	_, found := cache.GetProduct(ctx, "p1")
	assert.False(t, found)
}
