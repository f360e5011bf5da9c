package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sellhub/pos-backend/pkg/logger"
)

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL      time.Duration
	CacheableStatus []int
	// Prefixes whose GET responses may be cached. Drawer state and auth
	// endpoints never appear here.
	CacheablePrefixes []string
}

// DefaultCacheConfig returns default cache configuration. The TTL is short
// because stock levels and reports go stale quickly.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:      30 * time.Second,
		CacheableStatus: []int{200, 203, 300, 301, 404, 410},
		CacheablePrefixes: []string{
			"/api/products",
			"/api/customers",
			"/api/vendors",
			"/api/salesmen",
			"/api/invoices",
			"/api/stock",
		},
	}
}

// CacheMiddleware caches GET responses in Redis, keyed per resource so a
// write through the gateway can invalidate exactly the resource it touched.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}

		prefix := matchPrefix(c.Path(), config.CacheablePrefixes)
		if prefix == "" {
			return c.Next()
		}

		// A write flushes the resource's cached reads before the response
		// leaves the gateway.
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			err := c.Next()
			if status := c.Response().StatusCode(); status >= 200 && status < 300 {
				if invErr := InvalidateCache(redisClient, cachePattern(prefix)); invErr != nil {
					logger.Logger.Warn().
						Err(invErr).
						Str("prefix", prefix).
						Msg("Failed to invalidate cache after write")
				}
			}
			return err
		}

		cacheKey := cacheKey(prefix, c)

		ctx := context.Background()
		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cachedResponse) > 0 {
			logger.Logger.Debug().
				Str("path", c.Path()).
				Str("cache_key", cacheKey).
				Msg("Cache hit")

			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cachedResponse)
		}

		err = c.Next()

		statusCode := c.Response().StatusCode()
		if isStatusCacheable(statusCode, config.CacheableStatus) {
			responseBody := c.Response().Body()

			ttl := config.DefaultTTL
			if err := redisClient.Set(ctx, cacheKey, responseBody, ttl).Err(); err != nil {
				logger.Logger.Warn().
					Err(err).
					Str("cache_key", cacheKey).
					Msg("Failed to cache response")
			} else {
				logger.Logger.Debug().
					Str("path", c.Path()).
					Str("cache_key", cacheKey).
					Dur("ttl", ttl).
					Int("size", len(responseBody)).
					Msg("Response cached")
			}

			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// matchPrefix returns the configured prefix covering path, or ""
func matchPrefix(path string, prefixes []string) string {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return prefix
		}
	}
	return ""
}

// cacheKey builds a key scoped under the resource prefix. The auth header
// is part of the hash so users never see each other's responses.
func cacheKey(prefix string, c *fiber.Ctx) string {
	keyComponents := fmt.Sprintf("%s:%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
		c.Get("Authorization"),
	)

	hash := sha256.Sum256([]byte(keyComponents))
	return fmt.Sprintf("cache:%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// cachePattern is the Redis scan pattern covering a resource's cached reads
func cachePattern(prefix string) string {
	return fmt.Sprintf("cache:%s:*", prefix)
}

func isStatusCacheable(status int, cacheableStatus []int) bool {
	for _, s := range cacheableStatus {
		if s == status {
			return true
		}
	}
	return false
}

// InvalidateCache deletes every cached response matching the pattern
func InvalidateCache(redisClient *redis.Client, pattern string) error {
	ctx := context.Background()

	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}

		logger.Logger.Info().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}

	return nil
}
