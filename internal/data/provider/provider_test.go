package provider

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var criteria = filter.Defaults(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))

func TestMockProvider(t *testing.T) {
	p := New("")
	assert.Equal(t, MockSource, p.Source())

	samples, err := p.Load(context.Background(), criteria)
	require.NoError(t, err)
	require.NotEmpty(t, samples)
	assert.Equal(t, model.Position{Lon: 2.4, Lat: 51.5}, samples[0].Position)

	var low, high bool
	for _, s := range samples {
		low = low || s.Power < 50
		high = high || s.Power >= 100
	}
	assert.True(t, low && high, "demo feed covers the color buckets")
}

func TestMockProviderIsolatesCallers(t *testing.T) {
	p := NewMockProvider()
	first, err := p.Load(context.Background(), criteria)
	require.NoError(t, err)
	first[0].Power = -1

	second, err := p.Load(context.Background(), criteria)
	require.NoError(t, err)
	assert.NotEqual(t, -1.0, second[0].Power)
}

func TestFileProviderLoadsFeed(t *testing.T) {
	gen := fixtures.NewFeedGenerator(t.TempDir())
	want := fixtures.WithPowers(10, 60, 120)
	path, err := gen.WriteFeed("feed.json", want)
	require.NoError(t, err)

	p := New(path)
	assert.Equal(t, path, p.Source())

	got, err := p.Load(context.Background(), criteria)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileProviderAppliesPredicate(t *testing.T) {
	gen := fixtures.NewFeedGenerator(t.TempDir())
	path, err := gen.WriteFeed("feed.json", fixtures.WithPowers(10, 60, 120))
	require.NoError(t, err)

	p := NewFileProvider(path, WithPredicate(func(s model.Sample) bool { return s.Power > 50 }))
	got, err := p.Load(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 60.0, got[0].Power)
}

func TestFileProviderDirectoryConcatenatesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	gen := fixtures.NewFeedGenerator(dir)
	_, err := gen.WriteJSONL("leg-2.jsonl", fixtures.WithPowers(200))
	require.NoError(t, err)
	_, err = gen.WriteFeed("leg-1.json", fixtures.WithPowers(1, 2))
	require.NoError(t, err)

	got, err := NewFileProvider(dir, WithConcurrency(2)).Load(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 2, 200}, []float64{got[0].Power, got[1].Power, got[2].Power})
}

func TestFileProviderDirectorySkipsBrokenFeeds(t *testing.T) {
	dir := t.TempDir()
	gen := fixtures.NewFeedGenerator(dir)
	_, err := gen.WriteFeed("a.json", fixtures.WithPowers(5))
	require.NoError(t, err)
	_, err = gen.WriteRaw("b.json", "{{{")
	require.NoError(t, err)

	got, err := NewFileProvider(dir).Load(context.Background(), criteria)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileProviderErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.json")).Load(context.Background(), criteria)
	assert.Error(t, err)

	_, err = New(dir).Load(context.Background(), criteria)
	assert.ErrorIs(t, err, ErrNoFeeds)

	gen := fixtures.NewFeedGenerator(dir)
	bad, err := gen.WriteRaw("bad.json", "not json")
	require.NoError(t, err)
	_, err = New(bad).Load(context.Background(), criteria)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New("").Load(ctx, criteria)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVoyageFixtureRoundTrips(t *testing.T) {
	gen := fixtures.NewFeedGenerator(t.TempDir())
	voyage := fixtures.Voyage(model.Position{Lon: 3, Lat: 51}, 12, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	path, err := gen.WriteFeed("voyage.json", voyage)
	require.NoError(t, err)

	got, err := New(path).Load(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, got, 12)
	assert.Equal(t, "2025-01-01T00:10:00Z", got[1].Timestamp)
	assert.InDelta(t, voyage[5].Position.Lat, got[5].Position.Lat, 1e-12)
}
