package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/data/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedDocument(t *testing.T) {
	data := []byte(`{"Data":[
		{"position":[4.5,52.1],"power":42.5,"consumption":10,"timestamp":"2025-03-01T06:00:00Z"},
		{"position":{"lon":4.6,"lat":52.2},"power":120,"consumption":30}
	]}`)

	samples, err := ParseFeed(data)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, model.Position{Lon: 4.5, Lat: 52.1}, samples[0].Position)
	assert.Equal(t, 42.5, samples[0].Power)
	assert.Equal(t, "2025-03-01T06:00:00Z", samples[0].Timestamp)
	assert.Equal(t, model.Position{Lon: 4.6, Lat: 52.2}, samples[1].Position)
	assert.Nil(t, samples[1].Timestamp)
}

func TestParseFeedEmptyDocument(t *testing.T) {
	samples, err := ParseFeed([]byte(`{"Data":[]}`))
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestParseFeedJSONLines(t *testing.T) {
	data := []byte(`{"position":[1,2],"power":10,"consumption":1}

not json
{"position":[3,4],"power":60,"consumption":2}
`)
	samples, err := ParseFeed(data)
	require.NoError(t, err)
	require.Len(t, samples, 2, "the undecodable line is skipped")
	assert.Equal(t, 60.0, samples[1].Power)
}

func TestParseFeedErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "   ",
		"garbage":      "this is not a feed",
		"bad document": `{"Data":[{"position":[1],"power":1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFeed([]byte(input))
			assert.ErrorIs(t, err, ErrInvalidFeed)
		})
	}
}

func TestParseFileCachesUntilChanged(t *testing.T) {
	p := NewParser(2, nil)
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Data":[{"position":[1,1],"power":5,"consumption":1}]}`), 0o644))

	first, err := p.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, p.CacheSize())

	again, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Same(t, &first[0], &again[0], "unchanged file comes from cache")

	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte(`{"Data":[{"position":[1,1],"power":5,"consumption":1},{"position":[2,2],"power":80,"consumption":2}]}`), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, changed, 2)
}

func TestParseFileReusesSnapshotAcrossParsers(t *testing.T) {
	cacheDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Data":[{"position":[1,1],"power":5,"consumption":1}]}`), 0o644))

	first, err := cache.NewFileCache(cacheDir)
	require.NoError(t, err)
	_, err = NewParser(1, first).ParseFile(path)
	require.NoError(t, err)

	// a fresh cache over the same directory finds the snapshot
	second, err := cache.NewFileCache(cacheDir)
	require.NoError(t, err)
	samples, err := NewParser(1, second).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 5.0, samples[0].Power)
	assert.Equal(t, int64(1), second.Stats().Hits)
}

func TestParseFileMissing(t *testing.T) {
	_, err := NewParser(1, nil).ParseFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.json")
	bad := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"Data":[{"position":[0,0],"power":1,"consumption":1}]}`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`???`), 0o644))

	results := map[string]ParseResult{}
	for r := range NewParser(2, nil).ParseFiles([]string{good, bad}) {
		results[r.File] = r
	}

	require.Len(t, results, 2)
	assert.NoError(t, results[good].Error)
	assert.Len(t, results[good].Samples, 1)
	assert.ErrorIs(t, results[bad].Error, ErrInvalidFeed)
}

func TestNewParserClampsConcurrency(t *testing.T) {
	assert.Equal(t, 1, NewParser(0, nil).concurrency)
	assert.Equal(t, 8, NewParser(8, nil).concurrency)
}
