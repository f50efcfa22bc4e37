// Package cache fronts the read-only exercise catalog with an in-memory cache.
package cache

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

const listKey = "exercises:all"

// CatalogCache is a read-through repository.ExerciseCatalog. Exercises are
// reference data, so entries are only evicted by expiry.
type CatalogCache struct {
	next  repository.ExerciseCatalog
	cache *gocache.Cache
}

var _ repository.ExerciseCatalog = (*CatalogCache)(nil)

// NewCatalogCache wraps next. A non-positive ttl falls back to DefaultExpiration.
func NewCatalogCache(next repository.ExerciseCatalog, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &CatalogCache{
		next:  next,
		cache: gocache.New(ttl, DefaultCleanupInterval),
	}
}

func exerciseKey(id int64) string {
	return "exercise:" + strconv.FormatInt(id, 10)
}

// ExercisesByIDs serves hits from memory and asks the backing catalog for the rest in one call.
func (c *CatalogCache) ExercisesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Exercise, error) {
	out := make(map[int64]domain.Exercise, len(ids))
	var missing []int64
	for _, id := range ids {
		if v, found := c.cache.Get(exerciseKey(id)); found {
			if e, ok := v.(domain.Exercise); ok {
				out[id] = e
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	logrus.WithFields(logrus.Fields{"hits": len(out), "misses": len(missing)}).Debug("exercise catalog cache miss")
	fetched, err := c.next.ExercisesByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, e := range fetched {
		c.cache.SetDefault(exerciseKey(id), e)
		out[id] = e
	}
	return out, nil
}

func (c *CatalogCache) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	if v, found := c.cache.Get(listKey); found {
		if list, ok := v.([]domain.Exercise); ok {
			return list, nil
		}
	}

	list, err := c.next.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(listKey, list)
	for _, e := range list {
		c.cache.SetDefault(exerciseKey(e.ID), e)
	}
	return list, nil
}

// Flush drops every cached entry.
func (c *CatalogCache) Flush() {
	c.cache.Flush()
}
