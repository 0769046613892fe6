package tooltip

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// Lines returns the tooltip as label/value lines, or nil for an empty hover.
func Lines(r trail.HoverResult) []string {
	if !r.OK {
		return nil
	}
	return []string{
		"Power: " + util.FormatMetric(r.Power),
		"Consumption: " + util.FormatMetric(r.Consumption),
	}
}

// Format renders the tooltip as plain text. It returns "" when nothing is hovered.
func Format(r trail.HoverResult) string {
	return strings.Join(Lines(r), "\n")
}

// FormatHTML renders the tooltip markup used by the browser map.
func FormatHTML(r trail.HoverResult) string {
	if !r.OK {
		return ""
	}
	return fmt.Sprintf("<div><strong>Power:</strong> %s<br/><strong>Consumption:</strong> %s</div>",
		util.FormatMetric(r.Power), util.FormatMetric(r.Consumption))
}
