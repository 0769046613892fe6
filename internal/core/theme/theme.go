// Package theme holds the design tokens for light and dark presentation.
// Feature colors are not part of the theme: they depend on power only.
package theme

import "github.com/penwyp/go-vessel-trail/internal/core/model"

// Tile sources for the base map.
const (
	LightTileURL = "https://{a-c}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DarkTileURL  = "https://{a-c}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"
)

// Tokens is the full style set for one display mode.
type Tokens struct {
	Mode              model.DisplayMode `json:"mode"`
	Primary           string            `json:"primary"`
	BackgroundDefault string            `json:"backgroundDefault"`
	BackgroundPaper   string            `json:"backgroundPaper"`
	MapBackground     string            `json:"mapBackground"`
	TileURL           string            `json:"tileUrl"`
	TooltipBackground string            `json:"tooltipBackground"`
	TooltipText       string            `json:"tooltipText"`
	FontFamily        string            `json:"fontFamily"`
}

// For returns the tokens of the given mode.
func For(mode model.DisplayMode) Tokens {
	t := Tokens{
		Mode:              mode,
		TooltipBackground: "rgba(0,0,0,0.7)",
		TooltipText:       "#fff",
		FontFamily:        "Neutraface2TextGreek, Arial, sans-serif",
	}
	if mode == model.ModeDark {
		t.Primary = "#90caf9"
		t.BackgroundDefault = "#121212"
		t.BackgroundPaper = "#1e1e1e"
		t.MapBackground = "#121212"
		t.TileURL = DarkTileURL
		return t
	}
	t.Primary = "#1976d2"
	t.BackgroundDefault = "#f5f5f5"
	t.BackgroundPaper = "#fff"
	t.MapBackground = "#ffffff"
	t.TileURL = LightTileURL
	return t
}
