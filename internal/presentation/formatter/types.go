package formatter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
)

// ErrUnknownFormat is returned by New for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Report is everything a formatter renders: the loaded samples and the trail built from them.
type Report struct {
	Source   string
	Criteria filter.Criteria
	Samples  []model.Sample
	Trail    *trail.Model
}

// NewReport builds the trail for samples in the given mode.
func NewReport(source string, criteria filter.Criteria, samples []model.Sample, mode model.DisplayMode) Report {
	return Report{
		Source:   source,
		Criteria: criteria,
		Samples:  samples,
		Trail:    trail.Build(samples, mode),
	}
}

// Formatter writes a report.
type Formatter interface {
	Format(w io.Writer, r Report) error
}

// Formats lists every supported format name.
var Formats = []string{
	model.FormatTable,
	model.FormatJSON,
	model.FormatCSV,
	model.FormatSummary,
	model.FormatGeoJSON,
	model.FormatMsgPack,
}

// New returns the formatter for name.
func New(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case model.FormatTable:
		return NewTableFormatter(), nil
	case model.FormatJSON:
		return NewJSONFormatter(), nil
	case model.FormatCSV:
		return NewCSVFormatter(), nil
	case model.FormatSummary:
		return NewSummaryFormatter(), nil
	case model.FormatGeoJSON:
		return NewGeoJSONFormatter(), nil
	case model.FormatMsgPack:
		return NewMsgPackFormatter(), nil
	default:
		return nil, fmt.Errorf("%w '%s': must be one of %s", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// TrailDocument is the serialised shape shared by the json and msgpack formats.
type TrailDocument struct {
	Source   string            `json:"source"`
	Criteria filter.Criteria   `json:"criteria"`
	Mode     model.DisplayMode `json:"mode"`
	View     trail.View        `json:"view"`
	Segments []trail.Segment   `json:"segments"`
	Markers  []trail.Marker    `json:"markers"`
}

func NewTrailDocument(r Report) TrailDocument {
	doc := TrailDocument{
		Source:   r.Source,
		Criteria: r.Criteria,
		Segments: []trail.Segment{},
		Markers:  []trail.Marker{},
	}
	if r.Trail != nil {
		doc.Mode = r.Trail.Mode
		doc.View = r.Trail.View
		if r.Trail.Segments != nil {
			doc.Segments = r.Trail.Segments
		}
		if r.Trail.Markers != nil {
			doc.Markers = r.Trail.Markers
		}
	}
	return doc
}

func formatTimestamp(ts any) string {
	if ts == nil {
		return "-"
	}
	return fmt.Sprint(ts)
}
