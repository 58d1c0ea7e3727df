package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/workoutzones/internal/gymstats/load"
	"github.com/2beens/workoutzones/internal/telemetry/metrics"
	"github.com/2beens/workoutzones/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	megabyte       = 1024 * 1024
	zonesCacheKey  = "catalog::zones"
	exerciseKeyFmt = "catalog::exercise::%s"
)

//go:generate mockgen -source=$GOFILE -destination=cache_mocks_test.go -package=catalog_test

type catalogSource interface {
	FetchMany(ctx context.Context, ids []string) (load.Catalog, error)
	KnownZones(ctx context.Context) ([]string, error)
}

// CachedCatalog keeps exercise descriptors in an in-process cache for ttl
// seconds. Catalog edits become visible to load computations once the entry expires.
type CachedCatalog struct {
	source         catalogSource
	cache          *freecache.Cache
	ttlSeconds     int
	metricsManager *metrics.Manager
}

func NewCachedCatalog(source catalogSource, sizeMB, ttlSeconds int, metricsManager *metrics.Manager) *CachedCatalog {
	return &CachedCatalog{
		source:         source,
		cache:          freecache.NewCache(sizeMB * megabyte),
		ttlSeconds:     ttlSeconds,
		metricsManager: metricsManager,
	}
}

func (c *CachedCatalog) countLookup(result string, n int) {
	if c.metricsManager == nil || n == 0 {
		return
	}
	c.metricsManager.CounterCatalogCache.WithLabelValues(result).Add(float64(n))
}

// FetchMany serves cached descriptors and resolves all misses with one call to the source.
func (c *CachedCatalog) FetchMany(ctx context.Context, ids []string) (_ load.Catalog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.cached.fetchmany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	result := make(load.Catalog, len(ids))
	seen := make(map[string]bool, len(ids))
	var misses []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		raw, err := c.cache.Get([]byte(fmt.Sprintf(exerciseKeyFmt, id)))
		if err != nil {
			if !errors.Is(err, freecache.ErrNotFound) {
				log.Errorf("catalog cache get [%s]: %s", id, err)
			}
			misses = append(misses, id)
			continue
		}
		var descriptor load.ExerciseDescriptor
		if err := json.Unmarshal(raw, &descriptor); err != nil {
			log.Errorf("catalog cache, unmarshal [%s]: %s", id, err)
			misses = append(misses, id)
			continue
		}
		result[id] = descriptor
	}

	span.SetAttributes(
		attribute.Int("cache.hits", len(result)),
		attribute.Int("cache.misses", len(misses)),
	)
	c.countLookup("hit", len(result))
	c.countLookup("miss", len(misses))

	if len(misses) == 0 {
		return result, nil
	}

	fetched, err := c.source.FetchMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	for id, descriptor := range fetched {
		result[id] = descriptor
		raw, err := json.Marshal(descriptor)
		if err != nil {
			log.Errorf("catalog cache, marshal [%s]: %s", id, err)
			continue
		}
		if err := c.cache.Set([]byte(fmt.Sprintf(exerciseKeyFmt, id)), raw, c.ttlSeconds); err != nil {
			log.Errorf("catalog cache set [%s]: %s", id, err)
		}
	}

	return result, nil
}

func (c *CachedCatalog) KnownZones(ctx context.Context) ([]string, error) {
	if raw, err := c.cache.Get([]byte(zonesCacheKey)); err == nil {
		var zones []string
		if err := json.Unmarshal(raw, &zones); err == nil {
			c.countLookup("hit", 1)
			return zones, nil
		}
	}
	c.countLookup("miss", 1)

	zones, err := c.source.KnownZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("known zones: %w", err)
	}

	if raw, err := json.Marshal(zones); err == nil {
		if err := c.cache.Set([]byte(zonesCacheKey), raw, c.ttlSeconds); err != nil {
			log.Errorf("catalog cache set zones: %s", err)
		}
	}
	return zones, nil
}

// Invalidate drops every cached entry.
func (c *CachedCatalog) Invalidate() {
	c.cache.Clear()
}
