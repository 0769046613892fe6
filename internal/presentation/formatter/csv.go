package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/penwyp/go-vessel-trail/internal/core/trail"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format writes one row per marker.
func (f *CSVFormatter) Format(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	header := []string{"index", "timestamp", "lon", "lat", "power", "consumption", "bucket", "color"}
	if err := cw.Write(header); err != nil {
		return err
	}

	var markers []trail.Marker
	if r.Trail != nil {
		markers = r.Trail.Markers
	}
	for _, m := range markers {
		var ts any
		if m.Index < len(r.Samples) {
			ts = r.Samples[m.Index].Timestamp
		}
		tsStr := ""
		if ts != nil {
			tsStr = formatTimestamp(ts)
		}
		row := []string{
			fmt.Sprintf("%d", m.Index),
			tsStr,
			fmt.Sprintf("%.6f", m.At.Lon),
			fmt.Sprintf("%.6f", m.At.Lat),
			fmt.Sprintf("%.2f", m.Data.Power),
			fmt.Sprintf("%.2f", m.Data.Consumption),
			m.Bucket.String(),
			string(m.FillColor),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
