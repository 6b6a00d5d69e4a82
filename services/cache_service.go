package services

import (
	"context"
	"encoding/json"
	"fmt"
	"oasa_server/config"
	"oasa_server/structs"
	"strconv"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisCtx    = context.Background()
)

// CacheService provides Redis caching for catalog reads and rate limiting.
// Cache failures are never fatal: callers log a warning and fall through to
// the database.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

// getRedisClient returns a singleton Redis client with connection pooling
func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			PoolSize:        cfg.Cache.PoolSize,
			MinIdleConns:    cfg.Cache.MinIdleConns,
			MaxIdleConns:    cfg.Cache.MaxIdleConns,
			PoolTimeout:     cfg.Cache.PoolTimeout,
			ConnMaxIdleTime: cfg.Cache.IdleTimeout,

			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,
		})
	})
	return redisClient
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// Set sets a key with TTL
func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	return cs.client.Set(redisCtx, key, value, ttl).Err()
}

// Get retrieves a key; a missing key returns "" without error
func (cs *CacheService) Get(key string) (string, error) {
	val, err := cs.client.Get(redisCtx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Delete removes a key
func (cs *CacheService) Delete(key string) error {
	return cs.client.Del(redisCtx, key).Err()
}

// Ping tests the Redis connection
func (cs *CacheService) Ping() error {
	return cs.client.Ping(redisCtx).Err()
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// IncrementRateLimit atomically increments a rate limit counter, setting
// the window expiry on the first increment
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	val, err := cs.client.Incr(redisCtx, key).Result()
	if err != nil {
		return 0, err
	}

	if val == 1 {
		if err := cs.client.Expire(redisCtx, key, ttl).Err(); err != nil {
			return int(val), err
		}
	}

	return int(val), nil
}

// GetRateLimit retrieves the current rate limit count for an IP/endpoint
func (cs *CacheService) GetRateLimit(ip, endpoint string) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)
	val, err := cs.Get(key)
	if err != nil {
		return 0, err
	}

	if val == "" {
		return 0, nil
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid rate limit value: %w", err)
	}

	return count, nil
}

// ============================================================================
// Catalog Caching Methods
// ============================================================================

// GetProductByID retrieves a cached shaped product by ID
func (cs *CacheService) GetProductByID(id int64) (*structs.Product, error) {
	key := fmt.Sprintf("product:id:%d", id)

	return getJSON[structs.Product](cs, key)
}

// SetProductByID caches a shaped product by ID
func (cs *CacheService) SetProductByID(product *structs.Product) error {
	key := fmt.Sprintf("product:id:%d", product.ID)

	return setJSON(cs, key, product, cs.getProductTTL())
}

// GetCategoryList retrieves the cached active category listing
func (cs *CacheService) GetCategoryList() ([]structs.Category, error) {
	categories, err := getJSON[[]structs.Category](cs, "categories:active")
	if err != nil || categories == nil {
		return nil, err
	}
	return *categories, nil
}

// SetCategoryList caches the active category listing
func (cs *CacheService) SetCategoryList(categories []structs.Category) error {
	return setJSON(cs, "categories:active", categories, cs.getCategoryTTL())
}

// InvalidateProductCaches removes the cached entry for one product
func (cs *CacheService) InvalidateProductCaches(productID int64) error {
	cs.logger.Info("Invalidating product cache", gecho.Field("product_id", productID))
	return cs.Delete(fmt.Sprintf("product:id:%d", productID))
}

// InvalidateCategoryCaches removes the cached category listing
func (cs *CacheService) InvalidateCategoryCaches() error {
	return cs.Delete("categories:active")
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(pattern string) error {
	var cursor uint64

	for {
		keys, nextCursor, err := cs.client.Scan(redisCtx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := cs.client.Del(redisCtx, keys...).Err(); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

// ============================================================================
// Helper Methods
// ============================================================================

func (cs *CacheService) getProductTTL() time.Duration {
	if cs.config.Cache.ProductTTL > 0 {
		return cs.config.Cache.ProductTTL
	}
	return 5 * time.Minute
}

func (cs *CacheService) getCategoryTTL() time.Duration {
	if cs.config.Cache.CategoryTTL > 0 {
		return cs.config.Cache.CategoryTTL
	}
	return 10 * time.Minute
}

func setJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(key, data, ttl)
}

func getJSON[T any](cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
