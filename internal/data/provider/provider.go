package provider

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/data/cache"
	"github.com/penwyp/go-vessel-trail/internal/data/parser"
	"github.com/penwyp/go-vessel-trail/internal/data/scanner"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

//go:embed mockdata.json
var mockFeed []byte

// MockSource names the embedded demo feed.
const MockSource = "embedded:mockdata.json"

// ErrNoFeeds is returned when a data directory holds no feed files.
var ErrNoFeeds = errors.New("no feed files found")

// Provider supplies the sample sequence for a filter selection.
type Provider interface {
	Load(ctx context.Context, criteria filter.Criteria) ([]model.Sample, error)
	Source() string
}

// Option customises a provider.
type Option func(*options)

type options struct {
	predicate   filter.Predicate
	concurrency int
	cache       cache.Cache
}

// WithPredicate sets the sample predicate. The default accepts everything.
func WithPredicate(p filter.Predicate) Option {
	return func(o *options) { o.predicate = p }
}

// WithConcurrency bounds how many feed files are parsed at once.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithCache sets the parsed-feed cache. The default is an in-memory cache.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

func buildOptions(opts []Option) options {
	o := options{predicate: filter.AcceptAll, concurrency: 4}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns a provider for path: the embedded demo feed when path is
// empty, otherwise a file or directory provider.
func New(path string, opts ...Option) Provider {
	if path == "" {
		return NewMockProvider(opts...)
	}
	return NewFileProvider(path, opts...)
}

// FileProvider reads a feed file, or every feed below a directory.
type FileProvider struct {
	path   string
	opts   options
	parser *parser.Parser
}

// NewFileProvider creates a provider reading from path.
func NewFileProvider(path string, opts ...Option) *FileProvider {
	o := buildOptions(opts)
	return &FileProvider{
		path:   path,
		opts:   o,
		parser: parser.NewParser(o.concurrency, o.cache),
	}
}

// Source returns the configured path.
func (p *FileProvider) Source() string {
	return p.path
}

// Load parses the feed and returns the samples the predicate accepts.
// Directory feeds are concatenated in file-name order.
func (p *FileProvider) Load(ctx context.Context, criteria filter.Criteria) ([]model.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source: %w", err)
	}

	var samples []model.Sample
	if info.IsDir() {
		samples, err = p.loadDir(ctx)
	} else {
		samples, err = p.parser.ParseFile(p.path)
	}
	if err != nil {
		return nil, err
	}

	out := filter.Apply(samples, p.opts.predicate)
	util.LogCtx(ctx).Debug("Samples loaded",
		util.F("source", p.path), util.F("total", len(samples)), util.F("kept", len(out)), util.F("criteria", criteria.String()))
	return out, nil
}

func (p *FileProvider) loadDir(ctx context.Context) ([]model.Sample, error) {
	files, err := scanner.NewFeedScanner(p.path).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFeeds, p.path)
	}

	byFile := make(map[string][]model.Sample, len(files))
	var errs []error
	for result := range p.parser.ParseFiles(files) {
		if result.Error != nil {
			errs = append(errs, result.Error)
			continue
		}
		byFile[result.File] = result.Samples
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(byFile) == 0 {
		return nil, errors.Join(errs...)
	}
	for _, err := range errs {
		util.LogWarnf("Skipping feed: %v", err)
	}

	sort.Strings(files)
	var samples []model.Sample
	for _, f := range files {
		samples = append(samples, byFile[f]...)
	}
	return samples, nil
}

// MockProvider serves the embedded demo feed.
type MockProvider struct {
	opts    options
	samples []model.Sample
	err     error
}

// NewMockProvider creates a provider over the embedded demo feed.
func NewMockProvider(opts ...Option) *MockProvider {
	samples, err := parser.ParseFeed(mockFeed)
	return &MockProvider{opts: buildOptions(opts), samples: samples, err: err}
}

// Source returns MockSource.
func (p *MockProvider) Source() string {
	return MockSource
}

// Load returns a copy of the demo samples the predicate accepts.
func (p *MockProvider) Load(ctx context.Context, _ filter.Criteria) ([]model.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, fmt.Errorf("failed to decode embedded feed: %w", p.err)
	}
	return filter.Apply(p.samples, p.opts.predicate), nil
}
