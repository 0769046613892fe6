package formatter

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/util"
	"gonum.org/v1/gonum/stat"
)

const earthRadiusNM = 3440.065

// Stats summarises a sample sequence.
type Stats struct {
	Count            int
	Segments         int
	PowerMean        float64
	PowerStdDev      float64
	PowerMedian      float64
	PowerP95         float64
	PowerMin         float64
	PowerMax         float64
	ConsumptionMean  float64
	ConsumptionTotal float64
	// Correlation and Slope relate consumption to power; NaN with fewer than two samples.
	Correlation float64
	Slope       float64
	Buckets     map[trail.ColorBucket]int
	DistanceNM  float64
}

// ComputeStats derives Stats from samples.
func ComputeStats(samples []model.Sample) Stats {
	s := Stats{
		Count:       len(samples),
		Buckets:     map[trail.ColorBucket]int{},
		Correlation: math.NaN(),
		Slope:       math.NaN(),
	}
	if len(samples) == 0 {
		return s
	}
	s.Segments = len(samples) - 1

	power := make([]float64, len(samples))
	consumption := make([]float64, len(samples))
	for i, smp := range samples {
		power[i] = smp.Power
		consumption[i] = smp.Consumption
		s.ConsumptionTotal += smp.Consumption
		s.Buckets[trail.ColorBucketFor(smp.Power)]++
		if i > 0 {
			s.DistanceNM += haversineNM(samples[i-1].Position, smp.Position)
		}
	}

	s.PowerMean = stat.Mean(power, nil)
	s.ConsumptionMean = stat.Mean(consumption, nil)
	if len(samples) > 1 {
		s.PowerStdDev = stat.StdDev(power, nil)
		s.Correlation = stat.Correlation(power, consumption, nil)
		_, s.Slope = stat.LinearRegression(power, consumption, nil, false)
	}

	sorted := append([]float64(nil), power...)
	sort.Float64s(sorted)
	s.PowerMin = sorted[0]
	s.PowerMax = sorted[len(sorted)-1]
	s.PowerMedian = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.PowerP95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return s
}

func haversineNM(a, b model.Position) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusNM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// SummaryFormatter writes a human-readable voyage summary.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, r Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString("Vessel Trail Summary\n")
	b.WriteString(rule + "\n\n")

	if r.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", r.Source)
	}
	fmt.Fprintf(&b, "Filters: %s\n\n", r.Criteria.String())

	if len(r.Samples) == 0 {
		b.WriteString("No samples to summarize\n\n")
		b.WriteString(rule + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	s := ComputeStats(r.Samples)
	first, last := r.Samples[0], r.Samples[len(r.Samples)-1]

	b.WriteString("Track:\n")
	fmt.Fprintf(&b, "  Samples: %s\n", util.FormatCount(s.Count))
	fmt.Fprintf(&b, "  Segments: %s\n", util.FormatCount(s.Segments))
	fmt.Fprintf(&b, "  Start: %s\n", util.FormatLonLat(first.Position.Lon, first.Position.Lat))
	fmt.Fprintf(&b, "  End: %s\n", util.FormatLonLat(last.Position.Lon, last.Position.Lat))
	fmt.Fprintf(&b, "  Distance: %.1f nm\n\n", s.DistanceNM)

	b.WriteString("Power:\n")
	fmt.Fprintf(&b, "  Mean: %s (std dev %s)\n", util.FormatMetric(s.PowerMean), util.FormatMetric(s.PowerStdDev))
	fmt.Fprintf(&b, "  Median: %s  P95: %s\n", util.FormatMetric(s.PowerMedian), util.FormatMetric(s.PowerP95))
	fmt.Fprintf(&b, "  Range: %s to %s\n\n", util.FormatMetric(s.PowerMin), util.FormatMetric(s.PowerMax))

	b.WriteString("Consumption:\n")
	fmt.Fprintf(&b, "  Mean: %s\n", util.FormatMetric(s.ConsumptionMean))
	fmt.Fprintf(&b, "  Total: %s\n", util.FormatMetric(s.ConsumptionTotal))
	if !math.IsNaN(s.Correlation) {
		fmt.Fprintf(&b, "  Correlation with power: %.3f\n", s.Correlation)
	}
	if !math.IsNaN(s.Slope) {
		fmt.Fprintf(&b, "  Per unit of power: %.4f\n", s.Slope)
	}
	b.WriteString("\n")

	b.WriteString("Power Buckets:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, bucket := range []trail.ColorBucket{trail.BucketLow, trail.BucketMedium, trail.BucketHigh} {
		n := s.Buckets[bucket]
		share := float64(n) / float64(s.Count) * 100
		fmt.Fprintf(&b, "  %-7s %-7s %5d  (%.1f%%)\n", bucket.String(), bucket.Color(), n, share)
	}
	b.WriteString("\n" + rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
