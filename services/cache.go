package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"

	DefaultCacheTTL = 5 * time.Minute
)

// CachedProductList is the cache entry shape for paginated listings.
type CachedProductList struct {
	Products      []models.Product `json:"products"`
	ProductsCount int64            `json:"productsCount"`
	FilteredCount int64            `json:"filteredProductsCount"`
}

// CacheManager handles Redis caching for the product catalog. List
// entries are versioned: any write bumps the version key, orphaning
// every list entry at once.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(rdb *redis.Client) *CacheManager {
	return &CacheManager{redis: rdb, ttl: DefaultCacheTTL}
}

// GetProductList retrieves a cached product list for the given page and
// filters, reporting whether the lookup hit.
func (cm *CacheManager) GetProductList(ctx context.Context, page, perPage int, filter repository.ProductFilter) (*CachedProductList, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cacheKey := cm.listCacheKey(version, page, perPage, filter)
	cachedData, err := cm.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		return nil, false
	}

	var entry CachedProductList
	if err := json.Unmarshal([]byte(cachedData), &entry); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return &entry, true
}

// SetProductListAsync caches a product list without blocking the
// request path.
func (cm *CacheManager) SetProductListAsync(page, perPage int, filter repository.ProductFilter, entry *CachedProductList) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		cacheKey := cm.listCacheKey(version, page, perPage, filter)
		jsonBytes, err := json.Marshal(entry)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cacheKey, jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProduct retrieves a cached product detail.
func (cm *CacheManager) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	cachedData, err := cm.redis.Get(ctx, ProductCachePrefix+productID).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(cachedData), &product); err != nil {
		zap.L().Warn("Failed to unmarshal cached product", zap.Error(err), zap.String("product_id", productID))
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a single product without blocking the request
// path.
func (cm *CacheManager) SetProductAsync(productID string, product *models.Product) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		productJSON, err := json.Marshal(product)
		if err != nil {
			zap.L().Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", productID))
			return
		}

		if err := cm.redis.Set(bgCtx, ProductCachePrefix+productID, productJSON, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

// Invalidate orphans every list cache entry by bumping the version key.
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	zap.L().Info("Cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

// InvalidateProduct invalidates both the list caches and the given
// product's detail entry.
func (cm *CacheManager) InvalidateProduct(ctx context.Context, productID string) {
	if err := cm.Invalidate(ctx); err != nil {
		zap.L().Error("Failed to invalidate cache", zap.Error(err), zap.String("product_id", productID))
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cm.redis.Del(bgCtx, ProductCachePrefix+productID).Err(); err != nil {
			zap.L().Warn("Failed to delete product cache", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if err == redis.Nil {
			if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
				return 1, nil
			}
		}

		if i < maxRetries-1 {
			time.Sleep(time.Millisecond * 50)
		}
	}

	return 0, fmt.Errorf("failed to get cache version after %d retries", maxRetries)
}

func (cm *CacheManager) listCacheKey(version int64, page, perPage int, filter repository.ProductFilter) string {
	category := ""
	if filter.Category != nil {
		category = filter.Category.Hex()
	}
	return fmt.Sprintf(
		"%s%d:p:%d:l:%d:k:%s:c:%s:min:%s:max:%s:r:%s",
		ProductListCachePrefix,
		version,
		page,
		perPage,
		filter.Keyword,
		category,
		formatFloatForCache(filter.MinPrice),
		formatFloatForCache(filter.MaxPrice),
		formatFloatForCache(filter.MinRating),
	)
}

func formatFloatForCache(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
