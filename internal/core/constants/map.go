package constants

const (
	// DefaultZoom is the zoom level every trail view opens with.
	DefaultZoom = 6.0

	// Web Mercator tiling
	TileSize     = 256
	EarthRadius  = 6378137.0
	MinZoomLevel = 0.0
	MaxZoomLevel = 22.0

	// Tooltip overlay placement, in pixels from the pointer
	TooltipOffsetX = 10
	TooltipOffsetY = 0
)
