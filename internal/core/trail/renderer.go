package trail

import (
	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
)

// Build turns an ordered sample sequence into a drawable trail. It is pure:
// the same input always yields a structurally equal model, and the result
// shares no memory with the input or with any earlier model.
func Build(samples []model.Sample, mode model.DisplayMode) *Model {
	m := &Model{
		Mode:     mode,
		Segments: make([]Segment, 0, max(len(samples)-1, 0)),
		Markers:  make([]Marker, 0, len(samples)),
		View:     View{Zoom: constants.DefaultZoom},
	}
	if len(samples) == 0 {
		return m
	}

	m.View.Center = samples[0].Position
	m.View.HasCenter = true

	for i, s := range samples {
		bucket := ColorBucketFor(s.Power)
		if i > 0 {
			m.Segments = append(m.Segments, Segment{
				Index:       i - 1,
				From:        samples[i-1].Position,
				To:          s.Position,
				Bucket:      bucket,
				StrokeColor: bucket.Color(),
				StrokeWidth: SegmentStrokeWidth,
			})
		}
		m.Markers = append(m.Markers, Marker{
			Index:       i,
			At:          s.Position,
			Bucket:      bucket,
			Radius:      MarkerRadius,
			FillColor:   bucket.Color(),
			StrokeColor: MarkerStrokeColor,
			StrokeWidth: MarkerStrokeWidth,
			Data: Payload{
				Power:       s.Power,
				Consumption: s.Consumption,
			},
		})
	}

	// Pointers are taken only after both slices are complete so appends can't move them.
	m.drawOrder = make([]Feature, 0, len(m.Segments)+len(m.Markers))
	// All segments first, then all markers: every marker paints above every line.
	for i := range m.Segments {
		m.drawOrder = append(m.drawOrder, &m.Segments[i])
	}
	for i := range m.Markers {
		m.drawOrder = append(m.drawOrder, &m.Markers[i])
	}

	return m
}
