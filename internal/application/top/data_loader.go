package top

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/data/provider"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// DataLoader loads samples from the configured provider
type DataLoader struct {
	provider provider.Provider
	criteria filter.Criteria
}

// NewDataLoader creates a new DataLoader instance
func NewDataLoader(config *TopConfig) *DataLoader {
	return &DataLoader{
		provider: provider.New(config.DataPath,
			provider.WithConcurrency(config.Concurrency), provider.WithCache(config.Cache)),
		criteria: config.Criteria,
	}
}

// NewDataLoaderFrom wraps an existing provider.
func NewDataLoaderFrom(p provider.Provider, criteria filter.Criteria) *DataLoader {
	return &DataLoader{provider: p, criteria: criteria}
}

// Load returns the samples for the configured criteria
func (dl *DataLoader) Load(ctx context.Context) ([]model.Sample, error) {
	start := time.Now()
	samples, err := dl.provider.Load(ctx, dl.criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples from %s: %w", dl.provider.Source(), err)
	}
	util.LogCtx(ctx).Info("Samples loaded",
		util.F("source", dl.provider.Source()),
		util.F("count", len(samples)),
		util.F("elapsed", time.Since(start).String()))
	return samples, nil
}

// Source names where the samples come from
func (dl *DataLoader) Source() string {
	return dl.provider.Source()
}

// Criteria returns the filter the loader applies
func (dl *DataLoader) Criteria() filter.Criteria {
	return dl.criteria
}
