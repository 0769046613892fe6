package trail

import (
	"github.com/penwyp/go-vessel-trail/internal/core/model"
)

// Fixed feature styling, in display units.
const (
	SegmentStrokeWidth = 3.0
	MarkerRadius       = 4.0
	MarkerStrokeWidth  = 1.0
	MarkerStrokeColor  = ColorWhite
)

// FeatureKind distinguishes line segments from point markers.
type FeatureKind int

const (
	KindSegment FeatureKind = iota
	KindMarker
)

func (k FeatureKind) String() string {
	if k == KindMarker {
		return "marker"
	}
	return "segment"
}

// Payload is the metric pair a feature exposes to hover queries.
type Payload struct {
	Power       float64 `json:"power"`
	Consumption float64 `json:"consumption"`
}

// Feature is anything the trail asks a map host to draw.
type Feature interface {
	Kind() FeatureKind
	// Payload returns the hover payload, if the feature carries one.
	Payload() (Payload, bool)
}

// Segment connects two consecutive samples.
type Segment struct {
	Index       int            `json:"index"`
	From        model.Position `json:"from"`
	To          model.Position `json:"to"`
	Bucket      ColorBucket    `json:"bucket"`
	StrokeColor Color          `json:"strokeColor"`
	StrokeWidth float64        `json:"strokeWidth"`
}

func (s *Segment) Kind() FeatureKind { return KindSegment }

// Payload reports nothing: segments are drawn without metric properties.
func (s *Segment) Payload() (Payload, bool) { return Payload{}, false }

// Marker is the point drawn at each sample.
type Marker struct {
	Index       int            `json:"index"`
	At          model.Position `json:"at"`
	Bucket      ColorBucket    `json:"bucket"`
	Radius      float64        `json:"radius"`
	FillColor   Color          `json:"fillColor"`
	StrokeColor Color          `json:"strokeColor"`
	StrokeWidth float64        `json:"strokeWidth"`
	Data        Payload        `json:"payload"`
}

func (m *Marker) Kind() FeatureKind { return KindMarker }

func (m *Marker) Payload() (Payload, bool) { return m.Data, true }

// View is the initial view a trail suggests to its host.
type View struct {
	Center    model.Position `json:"center"`
	HasCenter bool           `json:"hasCenter"`
	Zoom      float64        `json:"zoom"`
}

// Model is the complete drawable trail derived from one sample sequence.
type Model struct {
	Mode     model.DisplayMode `json:"mode"`
	Segments []Segment         `json:"segments"`
	Markers  []Marker          `json:"markers"`
	View     View              `json:"view"`

	drawOrder []Feature
}

// Features returns every feature in draw order: all segments, then all markers.
// Later features are painted on top of earlier ones.
func (m *Model) Features() []Feature {
	if m == nil {
		return nil
	}
	return m.drawOrder
}

// IsEmpty reports whether the trail has nothing to draw.
func (m *Model) IsEmpty() bool {
	return m == nil || len(m.Markers) == 0
}

// HoverResult is the answer to a hover query. OK is false when nothing with a
// payload is under the pointer.
type HoverResult struct {
	Power       float64 `json:"power"`
	Consumption float64 `json:"consumption"`
	OK          bool    `json:"ok"`
}

// NoHover is the empty hover result.
var NoHover = HoverResult{}
