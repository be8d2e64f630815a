package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/cache"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"

	"go.uber.org/zap"
)

// CachedCatalogService wraps CatalogService with Redis read caching. Product
// pages are the hottest endpoints of the storefront; writes invalidate.
type CachedCatalogService struct {
	inner CatalogService
	cache cache.CacheService
}

func NewCachedCatalogService(inner CatalogService, cache cache.CacheService) CatalogService {
	return &CachedCatalogService{inner: inner, cache: cache}
}

const (
	productCacheKeyPrefix  = "product:"
	categoryListCacheKey   = "categories"
	productCacheTTL        = 10 * time.Minute
	categoryCacheTTL       = 30 * time.Minute
)

func (s *CachedCatalogService) productKey(slug string) string {
	return fmt.Sprintf("%s%s", productCacheKeyPrefix, slug)
}

func (s *CachedCatalogService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePattern(ctx, productCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("product cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.Delete(ctx, categoryListCacheKey); err != nil {
		logger.Log.Warn("category cache invalidation failed", zap.Error(err))
	}
}

func (s *CachedCatalogService) GetProduct(slug string) (*model.Product, error) {
	ctx := context.Background()
	key := s.productKey(slug)

	var cached model.Product
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Log.Warn("product cache read failed", zap.String("slug", slug), zap.Error(err))
	}

	product, err := s.inner.GetProduct(slug)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, product, productCacheTTL); err != nil {
		logger.Log.Warn("product cache write failed", zap.String("slug", slug), zap.Error(err))
	}
	return product, nil
}

func (s *CachedCatalogService) GetProductByID(id string) (*model.Product, error) {
	// Id lookups come from checkout, where a stale price would be snapshotted
	// into the order. Always hit the database.
	return s.inner.GetProductByID(id)
}

func (s *CachedCatalogService) SearchProducts(filter model.ProductFilter, page, limit int) ([]model.Product, int64, error) {
	return s.inner.SearchProducts(filter, page, limit)
}

func (s *CachedCatalogService) GetCategories() ([]model.Category, error) {
	ctx := context.Background()

	var cached []model.Category
	if err := s.cache.Get(ctx, categoryListCacheKey, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.inner.GetCategories()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, categoryListCacheKey, categories, categoryCacheTTL); err != nil {
		logger.Log.Warn("category cache write failed", zap.Error(err))
	}
	return categories, nil
}

func (s *CachedCatalogService) CreateProduct(input ProductInput) (*model.Product, error) {
	product, err := s.inner.CreateProduct(input)
	if err != nil {
		return nil, err
	}
	s.invalidate(context.Background())
	return product, nil
}

func (s *CachedCatalogService) UpdateProduct(id string, input ProductInput) (*model.Product, error) {
	product, err := s.inner.UpdateProduct(id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(context.Background())
	return product, nil
}

func (s *CachedCatalogService) DeleteProduct(id string) error {
	if err := s.inner.DeleteProduct(id); err != nil {
		return err
	}
	s.invalidate(context.Background())
	return nil
}

func (s *CachedCatalogService) CreateCategory(name string) (*model.Category, error) {
	category, err := s.inner.CreateCategory(name)
	if err != nil {
		return nil, err
	}
	s.invalidate(context.Background())
	return category, nil
}
