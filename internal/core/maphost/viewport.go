package maphost

import (
	"math"

	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
)

// Viewport maps projected coordinates to pixels of a fixed-size screen.
type Viewport struct {
	Center Coordinate
	Zoom   float64
	Width  int
	Height int

	resolution float64
}

// NewViewport creates a viewport centred on center.
func NewViewport(center model.Position, zoom float64, width, height int) Viewport {
	v := Viewport{
		Center: FromLonLat(center),
		Width:  width,
		Height: height,
	}
	v.SetZoom(zoom)
	return v
}

// SetZoom changes the zoom level, clamped to the supported range.
func (v *Viewport) SetZoom(zoom float64) {
	v.Zoom = math.Max(constants.MinZoomLevel, math.Min(zoom, constants.MaxZoomLevel))
	v.resolution = Resolution(v.Zoom)
}

// Resolution returns metres per pixel.
func (v *Viewport) Resolution() float64 {
	if v.resolution == 0 {
		return Resolution(v.Zoom)
	}
	return v.resolution
}

// ToPixel converts a projected coordinate to a screen pixel. Y grows downwards.
func (v *Viewport) ToPixel(c Coordinate) model.Pixel {
	res := v.Resolution()
	return model.Pixel{
		X: float64(v.Width)/2 + (c.X-v.Center.X)/res,
		Y: float64(v.Height)/2 - (c.Y-v.Center.Y)/res,
	}
}

// ToCoordinate converts a screen pixel back to a projected coordinate.
func (v *Viewport) ToCoordinate(p model.Pixel) Coordinate {
	res := v.Resolution()
	return Coordinate{
		X: v.Center.X + (p.X-float64(v.Width)/2)*res,
		Y: v.Center.Y - (p.Y-float64(v.Height)/2)*res,
	}
}

// Pan moves the view by a pixel offset.
func (v *Viewport) Pan(dx, dy float64) {
	res := v.Resolution()
	v.Center.X += dx * res
	v.Center.Y -= dy * res
}
