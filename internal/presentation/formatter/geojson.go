package formatter

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
)

type geoGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type geoFeature struct {
	Type       string         `json:"type"`
	Geometry   geoGeometry    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

// GeoJSONFormatter writes the trail as a FeatureCollection in draw order.
// Segments become LineStrings with stroke styling only; markers become
// Points carrying power and consumption.
type GeoJSONFormatter struct{}

func NewGeoJSONFormatter() *GeoJSONFormatter {
	return &GeoJSONFormatter{}
}

func (f *GeoJSONFormatter) Format(w io.Writer, r Report) error {
	data, err := sonic.MarshalIndent(BuildGeoJSON(r.Trail), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode trail as GeoJSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// BuildGeoJSON converts a trail model into a GeoJSON FeatureCollection.
func BuildGeoJSON(m *trail.Model) any {
	fc := geoCollection{Type: "FeatureCollection", Features: []geoFeature{}}
	for _, feature := range m.Features() {
		switch v := feature.(type) {
		case *trail.Segment:
			fc.Features = append(fc.Features, geoFeature{
				Type: "Feature",
				Geometry: geoGeometry{
					Type:        "LineString",
					Coordinates: [][2]float64{{v.From.Lon, v.From.Lat}, {v.To.Lon, v.To.Lat}},
				},
				Properties: map[string]any{
					"kind":        "segment",
					"bucket":      v.Bucket.String(),
					"stroke":      string(v.StrokeColor),
					"strokeWidth": v.StrokeWidth,
				},
			})
		case *trail.Marker:
			fc.Features = append(fc.Features, geoFeature{
				Type: "Feature",
				Geometry: geoGeometry{
					Type:        "Point",
					Coordinates: [2]float64{v.At.Lon, v.At.Lat},
				},
				Properties: map[string]any{
					"kind":        "marker",
					"bucket":      v.Bucket.String(),
					"fill":        string(v.FillColor),
					"stroke":      string(v.StrokeColor),
					"strokeWidth": v.StrokeWidth,
					"radius":      v.Radius,
					"power":       v.Data.Power,
					"consumption": v.Data.Consumption,
				},
			})
		}
	}
	return fc
}
