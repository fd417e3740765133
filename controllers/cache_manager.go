package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Narayandwivedi/abcdmarket/common/logger"
	"github.com/Narayandwivedi/abcdmarket/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	CatalogCachePrefix = "catalog:v:"
	CacheVersionKey    = "catalog:version"
)

// CacheManager caches catalog listing responses in Redis. Every product
// write bumps a version counter, so stale keys are never read again and
// simply expire. A nil client disables caching.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(client *redis.Client, ttl time.Duration) *CacheManager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheManager{
		redis: client,
		ttl:   ttl,
	}
}

// Get returns a cached response for key.
func (cm *CacheManager) Get(ctx context.Context, key string) (map[string]interface{}, bool) {
	if cm == nil || cm.redis == nil {
		return nil, false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cachedData, err := cm.redis.Get(ctx, cm.versionedKey(version, key)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cachedData), &response); err != nil {
		logger.Warn(ctx, "Failed to unmarshal cached catalog response", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetAsync caches response under key without delaying the request.
func (cm *CacheManager) SetAsync(key string, response interface{}) {
	if cm == nil || cm.redis == nil {
		return
	}
	jsonBytes, err := json.Marshal(response)
	if err != nil {
		zap.L().Warn("Failed to marshal catalog response for cache", zap.Error(err))
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}
		if err := cm.redis.Set(bgCtx, cm.versionedKey(version, key), jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache catalog response", zap.Error(err))
		}
	}()
}

// Invalidate drops every cached listing by bumping the version. Failures
// are logged; the TTL bounds how long stale pages can be served.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if cm == nil || cm.redis == nil {
		return
	}
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		zap.L().Error("Failed to invalidate catalog cache", zap.Error(err))
		return
	}
	zap.L().Info("Catalog cache invalidated", zap.Int64("new_version", newVersion))
}

// getCacheVersion retrieves the current cache version with retry logic
func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if errors.Is(err, redis.Nil) {
			if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
				continue
			}
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
		}
	}

	return 0, fmt.Errorf("failed to get cache version after %d retries", maxRetries)
}

func (cm *CacheManager) versionedKey(version int64, key string) string {
	return CatalogCachePrefix + strconv.FormatInt(version, 10) + ":" + key
}

// SearchCacheKey identifies a search by its normalized parameters.
func SearchCacheKey(p services.SearchParams) string {
	page, limit := services.NormalizePage(p.Page, p.Limit, services.DefaultSearchLimit)
	return hashedKey("search", url.Values{
		"q":   {p.Query},
		"c":   {strings.ToLower(p.Category)},
		"sc":  {strings.ToLower(p.SubCategory)},
		"b":   {strings.ToLower(p.Brand)},
		"min": {formatFloatForCache(p.MinPrice)},
		"max": {formatFloatForCache(p.MaxPrice)},
		"s":   {services.NormalizeSort(p.Sort)},
		"p":   {strconv.Itoa(page)},
		"l":   {strconv.Itoa(limit)},
	})
}

// CategorySlugCacheKey identifies a slug-scoped listing.
func CategorySlugCacheKey(p services.CategorySlugParams) string {
	page, limit := services.NormalizePage(p.Page, p.Limit, services.DefaultCategoryLimit)
	return hashedKey("slug", url.Values{
		"c":   {strings.ToLower(p.CategorySlug)},
		"sc":  {strings.ToLower(p.SubCategorySlug)},
		"b":   {strings.ToLower(p.Brand)},
		"min": {formatFloatForCache(p.MinPrice)},
		"max": {formatFloatForCache(p.MaxPrice)},
		"s":   {services.NormalizeSort(p.Sort)},
		"p":   {strconv.Itoa(page)},
		"l":   {strconv.Itoa(limit)},
	})
}

// hashedKey escapes every value through url.Values, so user input cannot
// forge another listing's key.
func hashedKey(kind string, params url.Values) string {
	sum := sha256.Sum256([]byte(params.Encode()))
	return kind + ":" + hex.EncodeToString(sum[:])
}

func formatFloatForCache(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
