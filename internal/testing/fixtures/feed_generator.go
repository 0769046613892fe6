package fixtures

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
)

// FeedGenerator writes sample feeds for tests.
type FeedGenerator struct {
	baseDir string
}

// NewFeedGenerator creates a generator writing below baseDir.
func NewFeedGenerator(baseDir string) *FeedGenerator {
	return &FeedGenerator{baseDir: baseDir}
}

// BaseDir returns the output directory.
func (g *FeedGenerator) BaseDir() string {
	return g.baseDir
}

// Voyage returns n samples heading north-east from start, one every ten
// minutes. Power sweeps through all three color buckets.
func Voyage(start model.Position, n int, at time.Time) []model.Sample {
	samples := make([]model.Sample, n)
	for i := range samples {
		phase := float64(i) / 4
		samples[i] = model.Sample{
			Position: model.Position{
				Lon: start.Lon + 0.05*float64(i),
				Lat: start.Lat + 0.03*float64(i) + 0.01*math.Sin(phase),
			},
			Power:       math.Round((75+70*math.Sin(phase))*100) / 100,
			Consumption: math.Round((20+8*math.Cos(phase))*100) / 100,
			Timestamp:   at.Add(time.Duration(i) * 10 * time.Minute).UTC().Format(time.RFC3339),
		}
	}
	return samples
}

// WithPowers returns samples on a straight line carrying the given powers.
func WithPowers(powers ...float64) []model.Sample {
	samples := make([]model.Sample, len(powers))
	for i, p := range powers {
		samples[i] = model.Sample{
			Position:    model.Position{Lon: float64(i), Lat: float64(i)},
			Power:       p,
			Consumption: p / 4,
		}
	}
	return samples
}

// WriteFeed writes samples as a {"Data":[...]} document and returns its path.
func (g *FeedGenerator) WriteFeed(name string, samples []model.Sample) (string, error) {
	data, err := sonic.Marshal(model.Feed{Data: samples})
	if err != nil {
		return "", err
	}
	return g.write(name, data)
}

// WriteJSONL writes one sample per line and returns the path.
func (g *FeedGenerator) WriteJSONL(name string, samples []model.Sample) (string, error) {
	var b strings.Builder
	for _, s := range samples {
		line, err := sonic.Marshal(s)
		if err != nil {
			return "", err
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return g.write(name, []byte(b.String()))
}

// WriteRaw writes arbitrary content, for malformed feeds.
func (g *FeedGenerator) WriteRaw(name, content string) (string, error) {
	return g.write(name, []byte(content))
}

func (g *FeedGenerator) write(name string, data []byte) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create fixture directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write fixture %s: %w", name, err)
	}
	return path, nil
}
