package util

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FormatMetric renders a power or consumption value with two decimals.
func FormatMetric(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatLonLat renders a position as "lat, lon" with hemisphere letters.
func FormatLonLat(lon, lat float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns = "S"
	}
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f°%s, %.4f°%s", math.Abs(lat), ns, math.Abs(lon), ew)
}

// FormatCount abbreviates large counts: 1500 becomes 1.5K.
func FormatCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1000000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatAge renders how long ago something happened, coarsely.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh %dm ago", int(d.Hours()), int(d.Minutes())%60)
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
