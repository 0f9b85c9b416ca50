// Package sync reconciles locally displayed favourite and lesson-plan state
// against backend records: catalog resolution, optimistic updates with
// rollback, and set-equality favourite matching.
package sync

import (
	"context"
	"errors"
	"time"

	"github.com/learnapp/learn-client/internal/api"
	"github.com/learnapp/learn-client/internal/wire"
	"github.com/learnapp/learn-client/pkg/metrics"
	"github.com/learnapp/learn-client/pkg/retry"
	gocache "github.com/patrickmn/go-cache"
)

const (
	catalogCacheKey  = "activities"
	catalogCacheName = "catalog"
)

// CatalogSource is the slice of the backend API the catalog depends on
type CatalogSource interface {
	ListActivities(ctx context.Context, limit int) (wire.ActivitiesResponse, error)
}

// Catalog fetches the activity catalog with retries and keeps it in a
// short-lived cache. Favourite records only reference activities by ID, so
// nearly every favourites operation needs the catalog for resolution.
type Catalog struct {
	source   CatalogSource
	cache    *gocache.Cache
	pageSize int
}

// NewCatalog creates a catalog. A non-positive ttl disables caching and
// every call hits the backend.
func NewCatalog(source CatalogSource, pageSize int, ttl time.Duration) *Catalog {
	var c *gocache.Cache
	if ttl > 0 {
		c = gocache.New(ttl, 10*time.Minute)
	}
	return &Catalog{
		source:   source,
		cache:    c,
		pageSize: pageSize,
	}
}

// Activities returns the catalog indexed by activity ID
func (c *Catalog) Activities(ctx context.Context) (map[int]wire.Activity, error) {
	if c.cache != nil {
		if cached, found := c.cache.Get(catalogCacheKey); found {
			metrics.CacheHits.WithLabelValues(catalogCacheName).Inc()
			return cached.(map[int]wire.Activity), nil
		}
		metrics.CacheMisses.WithLabelValues(catalogCacheName).Inc()
	}

	cfg := retry.CatalogConfig()
	cfg.RetryableErrors = retryableAPIError

	res, err := retry.DoWithResult(ctx, cfg, "listActivities", func() (wire.ActivitiesResponse, error) {
		return c.source.ListActivities(ctx, c.pageSize)
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[int]wire.Activity, len(res.Activities))
	for _, activity := range res.Activities {
		byID[activity.ID] = activity
	}

	if c.cache != nil {
		c.cache.Set(catalogCacheKey, byID, gocache.DefaultExpiration)
		metrics.CacheSize.WithLabelValues(catalogCacheName).Set(float64(len(byID)))
	}

	return byID, nil
}

// Invalidate drops the cached catalog
func (c *Catalog) Invalidate() {
	if c.cache != nil {
		c.cache.Delete(catalogCacheKey)
		metrics.CacheSize.WithLabelValues(catalogCacheName).Set(0)
	}
}

// retryableAPIError retries transport failures and server errors but not
// client errors, which will not get better on a second attempt
func retryableAPIError(err error) bool {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsTransport() {
			return true
		}
		return apiErr.Status >= 500
	}
	return true
}
