package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babyname-machine/backend/internal/dataset"
	"github.com/babyname-machine/backend/internal/trends"
)

type memoryStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	err   error
	calls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, false, m.err
	}
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.data[key] = data
	return nil
}

func sampleQuery() trends.Query {
	return trends.Query{Names: []string{"Bill", "Elon"}, Metric: trends.MetricCount, StartYear: 1990, EndYear: 2000}
}

func sampleChart() *trends.Chart {
	return &trends.Chart{
		Title:     "Trends from 1990 to 2000",
		XLabel:    "Year",
		YLabel:    "Count",
		Metric:    trends.MetricCount,
		StartYear: 1990,
		EndYear:   2000,
		Series: []trends.Series{{
			Name:   "Bill",
			Gender: dataset.Male,
			Label:  "Bill (M)",
			Style:  trends.Style{Color: trends.Palette[0], Marker: "o", LineStyle: "-", MarkerSize: 10},
			Points: []trends.Point{{Year: 1990, Value: 2000}},
		}},
	}
}

func TestChartCache_RoundTrip(t *testing.T) {
	c := NewChartCache(newMemoryStore(), time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, sampleQuery())
	assert.False(t, ok)

	c.Put(ctx, sampleQuery(), sampleChart())

	got, ok := c.Get(ctx, sampleQuery())
	require.True(t, ok)
	assert.Equal(t, sampleChart(), got)
}

func TestChartCache_NilStoreAlwaysMisses(t *testing.T) {
	c := NewChartCache(nil, time.Minute)
	assert.False(t, c.Enabled())

	c.Put(context.Background(), sampleQuery(), sampleChart())
	_, ok := c.Get(context.Background(), sampleQuery())
	assert.False(t, ok)
}

func TestChartCache_BreakerOpensOnFailures(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	c := NewChartCache(store, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, ok := c.Get(ctx, sampleQuery())
		assert.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	calls := store.calls
	_, ok := c.Get(ctx, sampleQuery())
	assert.False(t, ok)
	assert.Equal(t, calls, store.calls, "open breaker must not reach the store")
}

func TestChartCache_CorruptPayloadIsMiss(t *testing.T) {
	store := newMemoryStore()
	store.data[Key(sampleQuery())] = []byte("{not json")
	c := NewChartCache(store, time.Minute)

	_, ok := c.Get(context.Background(), sampleQuery())
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	q := sampleQuery()
	assert.Equal(t, Key(q), Key(q))

	reordered := q
	reordered.Names = []string{"Elon", "Bill"}
	assert.NotEqual(t, Key(q), Key(reordered))

	otherMetric := q
	otherMetric.Metric = trends.MetricNameRatio
	assert.NotEqual(t, Key(q), Key(otherMetric))
}
