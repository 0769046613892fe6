package trail

import (
	"math"
	"testing"

	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleSamples() []model.Sample {
	return []model.Sample{
		{Position: model.Position{Lon: 0, Lat: 0}, Power: 10, Consumption: 5},
		{Position: model.Position{Lon: 1, Lat: 1}, Power: 75, Consumption: 20},
		{Position: model.Position{Lon: 2, Lat: 2}, Power: 150, Consumption: 40},
	}
}

func TestColorBucketFor(t *testing.T) {
	tests := []struct {
		name  string
		power float64
		want  ColorBucket
	}{
		{"zero", 0, BucketLow},
		{"negative_is_low", -25, BucketLow},
		{"just_below_medium", 49.999, BucketLow},
		{"medium_lower_bound", 50, BucketMedium},
		{"medium_middle", 75, BucketMedium},
		{"just_below_high", 99.999, BucketMedium},
		{"high_lower_bound", 100, BucketHigh},
		{"very_high", 1e9, BucketHigh},
		{"negative_infinity", math.Inf(-1), BucketLow},
		{"positive_infinity", math.Inf(1), BucketHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorBucketFor(tt.power))
		})
	}
}

func TestColorBucketColors(t *testing.T) {
	assert.Equal(t, ColorGreen, BucketLow.Color())
	assert.Equal(t, ColorOrange, BucketMedium.Color())
	assert.Equal(t, ColorRed, BucketHigh.Color())
	assert.Equal(t, "medium", BucketMedium.String())
}

func TestBuildCounts(t *testing.T) {
	for n := 1; n <= 12; n++ {
		samples := make([]model.Sample, n)
		for i := range samples {
			samples[i] = model.Sample{
				Position: model.Position{Lon: float64(i), Lat: float64(i) / 2},
				Power:    float64(i * 17),
			}
		}

		m := Build(samples, model.ModeLight)
		assert.Len(t, m.Segments, n-1, "n=%d", n)
		assert.Len(t, m.Markers, n, "n=%d", n)
		assert.Len(t, m.Features(), 2*n-1, "n=%d", n)
	}
}

func TestBuildEmpty(t *testing.T) {
	for _, samples := range [][]model.Sample{nil, {}} {
		m := Build(samples, model.ModeDark)
		require.NotNil(t, m)
		assert.Empty(t, m.Segments)
		assert.Empty(t, m.Markers)
		assert.Empty(t, m.Features())
		assert.True(t, m.IsEmpty())
		assert.False(t, m.View.HasCenter, "empty trail must not suggest an anchor")
		assert.Equal(t, constants.DefaultZoom, m.View.Zoom)
	}
}

func TestBuildSingleSample(t *testing.T) {
	samples := []model.Sample{{Position: model.Position{Lon: 4.5, Lat: 52.1}, Power: 50, Consumption: 1}}

	m := Build(samples, model.ModeLight)

	assert.Empty(t, m.Segments)
	require.Len(t, m.Markers, 1)
	assert.Equal(t, BucketMedium, m.Markers[0].Bucket)
	assert.True(t, m.View.HasCenter)
	assert.Equal(t, samples[0].Position, m.View.Center)
}

func TestBuildExample(t *testing.T) {
	m := Build(exampleSamples(), model.ModeLight)

	require.Len(t, m.Markers, 3)
	assert.Equal(t, []ColorBucket{BucketLow, BucketMedium, BucketHigh},
		[]ColorBucket{m.Markers[0].Bucket, m.Markers[1].Bucket, m.Markers[2].Bucket})

	require.Len(t, m.Segments, 2)
	assert.Equal(t, BucketMedium, m.Segments[0].Bucket, "segment colored by sample[1].power=75")
	assert.Equal(t, BucketHigh, m.Segments[1].Bucket, "segment colored by sample[2].power=150")
	assert.Equal(t, ColorOrange, m.Segments[0].StrokeColor)
	assert.Equal(t, ColorRed, m.Segments[1].StrokeColor)

	assert.Equal(t, model.Position{Lon: 0, Lat: 0}, m.Segments[0].From)
	assert.Equal(t, model.Position{Lon: 1, Lat: 1}, m.Segments[0].To)
	assert.Equal(t, model.Position{Lon: 0, Lat: 0}, m.View.Center)
}

func TestBuildStyling(t *testing.T) {
	m := Build(exampleSamples(), model.ModeLight)

	for _, seg := range m.Segments {
		assert.Equal(t, 3.0, seg.StrokeWidth)
	}
	for i, mk := range m.Markers {
		assert.Equal(t, 4.0, mk.Radius)
		assert.Equal(t, ColorWhite, mk.StrokeColor)
		assert.Equal(t, 1.0, mk.StrokeWidth)
		assert.Equal(t, mk.Bucket.Color(), mk.FillColor)
		assert.Equal(t, exampleSamples()[i].Power, mk.Data.Power)
		assert.Equal(t, exampleSamples()[i].Consumption, mk.Data.Consumption)
	}
}

func TestBuildDrawOrder(t *testing.T) {
	m := Build(exampleSamples(), model.ModeLight)

	kinds := make([]FeatureKind, 0, len(m.Features()))
	for _, f := range m.Features() {
		kinds = append(kinds, f.Kind())
	}
	// every marker is painted above every segment
	assert.Equal(t, []FeatureKind{KindSegment, KindSegment, KindMarker, KindMarker, KindMarker}, kinds)

	// draw order points into the model's own slices
	assert.Same(t, &m.Segments[0], m.Features()[0])
	assert.Same(t, &m.Segments[1], m.Features()[1])
	assert.Same(t, &m.Markers[0], m.Features()[2])
	assert.Same(t, &m.Markers[2], m.Features()[4])
}

func TestBuildDeterministic(t *testing.T) {
	samples := exampleSamples()

	first := Build(samples, model.ModeLight)
	second := Build(samples, model.ModeLight)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
	assert.NotSame(t, &first.Markers[0], &second.Markers[0])
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	samples := exampleSamples()
	m := Build(samples, model.ModeLight)

	samples[0].Power = 500
	samples[1].Position.Lon = 99

	assert.Equal(t, 10.0, m.Markers[0].Data.Power)
	assert.Equal(t, 1.0, m.Markers[1].At.Lon)
	assert.Equal(t, BucketLow, m.Markers[0].Bucket)
}

func TestModeDoesNotAffectColors(t *testing.T) {
	light := Build(exampleSamples(), model.ModeLight)
	dark := Build(exampleSamples(), model.ModeDark)

	assert.Equal(t, light.Segments, dark.Segments)
	assert.Equal(t, light.Markers, dark.Markers)
	assert.NotEqual(t, light.Mode, dark.Mode)
}

func TestBuildPassesMalformedValuesThrough(t *testing.T) {
	samples := []model.Sample{
		{Position: model.Position{Lon: math.NaN(), Lat: 0}, Power: math.NaN(), Consumption: math.Inf(1)},
		{Position: model.Position{Lon: 1, Lat: math.Inf(-1)}, Power: 20, Consumption: 0},
	}

	m := Build(samples, model.ModeLight)

	require.Len(t, m.Markers, 2)
	assert.True(t, math.IsNaN(m.Markers[0].Data.Power))
	assert.True(t, math.IsInf(m.Markers[0].Data.Consumption, 1))
	assert.True(t, math.IsNaN(m.Segments[0].From.Lon))
	assert.Equal(t, BucketHigh, m.Markers[0].Bucket)
}
