package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-vessel-trail/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"#", "Timestamp", "Longitude", "Latitude", "Power", "Consumption", "Bucket"},
	}
}

// Format writes one row per marker followed by the segment count.
func (f *TableFormatter) Format(w io.Writer, r Report) error {
	rows := f.rows(r)
	widths := f.columnWidths(rows)

	var b strings.Builder
	f.border(&b, widths, "top")
	f.row(&b, f.headers, widths)
	f.border(&b, widths, "middle")
	for _, row := range rows {
		f.row(&b, row, widths)
	}
	if len(rows) == 0 {
		f.row(&b, append([]string{"", "no samples"}, make([]string, len(f.headers)-2)...), widths)
	}
	f.border(&b, widths, "bottom")

	segments := 0
	if r.Trail != nil {
		segments = len(r.Trail.Segments)
	}
	fmt.Fprintf(&b, "%d markers, %d segments", len(rows), segments)
	if r.Source != "" {
		fmt.Fprintf(&b, " from %s", r.Source)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) rows(r Report) [][]string {
	if r.Trail == nil {
		return nil
	}
	rows := make([][]string, 0, len(r.Trail.Markers))
	for _, m := range r.Trail.Markers {
		var ts any
		if m.Index < len(r.Samples) {
			ts = r.Samples[m.Index].Timestamp
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.Index),
			formatTimestamp(ts),
			fmt.Sprintf("%.5f", m.At.Lon),
			fmt.Sprintf("%.5f", m.At.Lat),
			util.FormatMetric(m.Data.Power),
			util.FormatMetric(m.Data.Consumption),
			m.Bucket.String(),
		})
	}
	return rows
}

func (f *TableFormatter) columnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, h := range f.headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range rows {
		for i, v := range row {
			if w := util.GetDisplayWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	if widths[1] < len("no samples") {
		widths[1] = len("no samples")
	}
	return widths
}

func (f *TableFormatter) border(b *strings.Builder, widths []int, kind string) {
	var left, middle, right string
	switch kind {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

// row writes a row. Numeric columns are right-aligned.
func (f *TableFormatter) row(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, v := range values {
		pad := strings.Repeat(" ", widths[i]-util.GetDisplayWidth(v))
		switch i {
		case 1, 6:
			b.WriteString(" " + v + pad + " │")
		default:
			b.WriteString(" " + pad + v + " │")
		}
	}
	b.WriteByte('\n')
}
