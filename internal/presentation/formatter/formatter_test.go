package formatter

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var testCriteria = filter.Defaults(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))

func sampleReport() Report {
	samples := fixtures.WithPowers(10, 60, 120)
	samples[0].Timestamp = "2025-03-01T06:00:00Z"
	return NewReport("feed.json", testCriteria, samples, model.ModeLight)
}

func render(t *testing.T, f Formatter, r Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, r))
	return buf.String()
}

func TestNew(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	f, err := New("TABLE")
	require.NoError(t, err)
	assert.IsType(t, &TableFormatter{}, f)

	_, err = New("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTableFormatter(t *testing.T) {
	out := render(t, NewTableFormatter(), sampleReport())

	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "Consumption")
	assert.Contains(t, out, "2025-03-01T06:00:00Z")
	assert.Contains(t, out, "120.00")
	assert.Contains(t, out, "medium")
	assert.Contains(t, out, "3 markers, 2 segments from feed.json")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// top, header, separator, 3 rows, bottom, footer
	assert.Len(t, lines, 8)
}

func TestTableFormatterEmpty(t *testing.T) {
	out := render(t, NewTableFormatter(), NewReport("", testCriteria, nil, model.ModeDark))
	assert.Contains(t, out, "no samples")
	assert.Contains(t, out, "0 markers, 0 segments")
}

func TestJSONFormatter(t *testing.T) {
	out := render(t, NewJSONFormatter(), sampleReport())

	var doc struct {
		Source   string `json:"source"`
		Mode     string `json:"mode"`
		View     struct {
			Center    []float64 `json:"center"`
			HasCenter bool      `json:"hasCenter"`
			Zoom      float64   `json:"zoom"`
		} `json:"view"`
		Segments []struct {
			From        []float64 `json:"from"`
			Bucket      string    `json:"bucket"`
			StrokeColor string    `json:"strokeColor"`
			StrokeWidth float64   `json:"strokeWidth"`
		} `json:"segments"`
		Markers []struct {
			FillColor string `json:"fillColor"`
			Payload   struct {
				Power float64 `json:"power"`
			} `json:"payload"`
		} `json:"markers"`
	}
	require.NoError(t, sonic.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "feed.json", doc.Source)
	assert.Equal(t, "light", doc.Mode)
	assert.Equal(t, []float64{0, 0}, doc.View.Center)
	assert.True(t, doc.View.HasCenter)
	assert.Equal(t, 6.0, doc.View.Zoom)

	require.Len(t, doc.Segments, 2)
	assert.Equal(t, "medium", doc.Segments[0].Bucket, "segment takes its end sample's color")
	assert.Equal(t, "orange", doc.Segments[0].StrokeColor)
	assert.Equal(t, 3.0, doc.Segments[0].StrokeWidth)

	require.Len(t, doc.Markers, 3)
	assert.Equal(t, "green", doc.Markers[0].FillColor)
	assert.Equal(t, 120.0, doc.Markers[2].Payload.Power)
}

func TestJSONFormatterEmptyHasArrays(t *testing.T) {
	out := render(t, NewJSONFormatter(), NewReport("", testCriteria, nil, model.ModeLight))
	assert.Contains(t, out, `"segments": []`)
	assert.Contains(t, out, `"markers": []`)
}

func TestCSVFormatter(t *testing.T) {
	out := render(t, NewCSVFormatter(), sampleReport())

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"index", "timestamp", "lon", "lat", "power", "consumption", "bucket", "color"}, records[0])
	assert.Equal(t, []string{"0", "2025-03-01T06:00:00Z", "0.000000", "0.000000", "10.00", "2.50", "low", "green"}, records[1])
	assert.Equal(t, "", records[2][1])
	assert.Equal(t, "red", records[3][7])
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(fixtures.WithPowers(10, 60, 120, 40))

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 3, s.Segments)
	assert.InDelta(t, 57.5, s.PowerMean, 1e-9)
	assert.Equal(t, 10.0, s.PowerMin)
	assert.Equal(t, 120.0, s.PowerMax)
	assert.Equal(t, 2, s.Buckets[trail.BucketLow])
	assert.Equal(t, 1, s.Buckets[trail.BucketMedium])
	assert.Equal(t, 1, s.Buckets[trail.BucketHigh])
	assert.InDelta(t, 57.5, s.ConsumptionTotal, 1e-9)
	// consumption is exactly power/4
	assert.InDelta(t, 1, s.Correlation, 1e-9)
	assert.InDelta(t, 0.25, s.Slope, 1e-9)
	assert.Greater(t, s.DistanceNM, 0.0)
}

func TestComputeStatsSmallInputs(t *testing.T) {
	empty := ComputeStats(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Correlation))

	one := ComputeStats(fixtures.WithPowers(75))
	assert.Equal(t, 0, one.Segments)
	assert.Equal(t, 75.0, one.PowerMedian)
	assert.Equal(t, 0.0, one.DistanceNM)
	assert.True(t, math.IsNaN(one.Slope))
}

func TestHaversine(t *testing.T) {
	// One degree of latitude is sixty nautical miles.
	d := haversineNM(model.Position{Lon: 0, Lat: 0}, model.Position{Lon: 0, Lat: 1})
	assert.InDelta(t, 60, d, 0.1)
}

func TestSummaryFormatter(t *testing.T) {
	out := render(t, NewSummaryFormatter(), sampleReport())

	assert.Contains(t, out, "Vessel Trail Summary")
	assert.Contains(t, out, "Source: feed.json")
	assert.Contains(t, out, "Filters: 2021-10-14..2026-10-14 | Company 1")
	assert.Contains(t, out, "Samples: 3")
	assert.Contains(t, out, "Range: 10.00 to 120.00")
	assert.Contains(t, out, "high")

	empty := render(t, NewSummaryFormatter(), NewReport("", testCriteria, nil, model.ModeLight))
	assert.Contains(t, empty, "No samples to summarize")
}

func TestGeoJSONFormatter(t *testing.T) {
	out := render(t, NewGeoJSONFormatter(), sampleReport())

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, sonic.Unmarshal([]byte(out), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 5)

	kinds := make([]string, len(fc.Features))
	for i, f := range fc.Features {
		kinds[i] = f.Geometry.Type
	}
	assert.Equal(t, []string{"LineString", "LineString", "Point", "Point", "Point"}, kinds)

	_, hasPower := fc.Features[1].Properties["power"]
	assert.False(t, hasPower, "segments carry no metrics")
	assert.Equal(t, 10.0, fc.Features[2].Properties["power"])
	assert.Equal(t, 60.0, fc.Features[3].Properties["power"])
}

func TestMsgPackFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMsgPackFormatter().Format(&buf, sampleReport()))

	var doc map[string]any
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "feed.json", doc["source"])

	markers, ok := doc["markers"].([]any)
	require.True(t, ok)
	assert.Len(t, markers, 3)
}
