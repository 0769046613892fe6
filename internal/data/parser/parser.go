package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/data/cache"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// ErrInvalidFeed is returned when a feed holds no decodable sample at all.
var ErrInvalidFeed = errors.New("invalid data feed")

// Parser decodes sample feeds. Parsed files are cached until they change on disk.
type Parser struct {
	concurrency int
	cache       cache.Cache
}

// ParseResult is the outcome for one file of ParseFiles.
type ParseResult struct {
	File    string
	Samples []model.Sample
	Error   error
}

// NewParser creates a Parser that parses up to concurrency files at once.
// A nil cache means an in-memory one.
func NewParser(concurrency int, c cache.Cache) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return &Parser{
		concurrency: concurrency,
		cache:       c,
	}
}

// ParseFeed decodes a feed. Two layouts are accepted: a document
// {"Data":[...]} and newline-delimited samples. Undecodable lines of the
// second layout are skipped.
func ParseFeed(data []byte) ([]model.Sample, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidFeed)
	}

	if _, err := sonic.Get(trimmed, "Data"); err == nil {
		var feed model.Feed
		if err := sonic.Unmarshal(trimmed, &feed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
		}
		return feed.Data, nil
	}

	var samples []model.Sample
	skipped := 0
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var s model.Sample
		if err := sonic.Unmarshal(raw, &s); err != nil {
			util.LogDebugf("Skip invalid sample line %d: %v", line, err)
			skipped++
			continue
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan feed: %w", err)
	}
	if len(samples) == 0 && skipped > 0 {
		return nil, fmt.Errorf("%w: no decodable samples in %d lines", ErrInvalidFeed, skipped)
	}
	if skipped > 0 {
		util.LogWarnf("Skipped %d undecodable sample lines", skipped)
	}
	return samples, nil
}

// ParseFile parses the feed at path, reusing the cached result while the
// file is unchanged.
func (p *Parser) ParseFile(path string) ([]model.Sample, error) {
	stamp, err := util.StatFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat feed %s: %w", path, err)
	}

	if result := p.cache.Get(path, stamp); result.Found {
		util.LogDebugf("Feed cache hit: %s", path)
		return result.Samples, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed %s: %w", path, err)
	}
	samples, err := ParseFeed(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", path, err)
	}

	if err := p.cache.Set(path, stamp, samples); err != nil {
		util.LogWarnf("Failed to cache feed %s: %v", path, err)
	}

	util.LogDebugf("Parsed feed %s: %d samples", path, len(samples))
	return samples, nil
}

// ParseFiles parses files concurrently. Results arrive in completion order.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	semaphore := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			samples, err := p.ParseFile(f)
			results <- ParseResult{File: f, Samples: samples, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Parsed %d feeds in %v", len(files), time.Since(start))
	}()
	return results
}

// CacheSize returns the number of cached files.
func (p *Parser) CacheSize() int {
	return p.cache.Len()
}
