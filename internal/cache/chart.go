// Package cache stores rendered trend charts so repeated queries skip the
// table scan. A failing backend is tripped out by a circuit breaker and the
// caller falls back to computing the chart.
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/internal/trends"
	"github.com/babyname-machine/backend/pkg/logger"
	"github.com/babyname-machine/backend/pkg/utils"
)

const cacheType = "trend_chart"

// Store is the byte-level backend, implemented by the redis client.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

type lookup struct {
	data  []byte
	found bool
}

type ChartCache struct {
	store   Store
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[lookup]
	log     *zap.Logger
}

// NewChartCache wraps store. A nil store gives a cache that always misses.
func NewChartCache(store Store, ttl time.Duration) *ChartCache {
	log := logger.Named("cache")
	settings := gobreaker.Settings{
		Name:        "chart-cache",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &ChartCache{
		store:   store,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker[lookup](settings),
		log:     log,
	}
}

// Key derives the cache key of q. Name order and duplicates are significant
// because they determine colours.
func Key(q trends.Query) string {
	return utils.HashString(strings.Join([]string{
		string(q.Metric),
		strconv.Itoa(q.StartYear),
		strconv.Itoa(q.EndYear),
		strings.Join(q.Names, "\x1f"),
	}, "\x1e"))
}

func (c *ChartCache) Enabled() bool {
	return c != nil && c.store != nil
}

func (c *ChartCache) Get(ctx context.Context, q trends.Query) (*trends.Chart, bool) {
	if !c.Enabled() {
		return nil, false
	}

	res, err := c.breaker.Execute(func() (lookup, error) {
		data, found, err := c.store.Get(ctx, Key(q))
		return lookup{data: data, found: found}, err
	})
	if err != nil {
		c.log.Debug("Chart cache lookup failed", zap.Error(err))
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return nil, false
	}
	if !res.found {
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return nil, false
	}

	var chart trends.Chart
	if err := json.Unmarshal(res.data, &chart); err != nil {
		c.log.Warn("Discarding undecodable cached chart", zap.Error(err))
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(cacheType).Inc()
	return &chart, true
}

// Put stores chart. Failures are logged and otherwise ignored.
func (c *ChartCache) Put(ctx context.Context, q trends.Query, chart *trends.Chart) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(chart)
	if err != nil {
		c.log.Warn("Failed to encode chart for cache", zap.Error(err))
		return
	}

	_, err = c.breaker.Execute(func() (lookup, error) {
		return lookup{}, c.store.Set(ctx, Key(q), data, c.ttl)
	})
	if err != nil {
		c.log.Debug("Chart cache write failed", zap.Error(err))
	}
}

func (c *ChartCache) State() gobreaker.State {
	return c.breaker.State()
}
