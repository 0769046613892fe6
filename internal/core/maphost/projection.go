package maphost

import (
	"math"

	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
)

// maxLat is the latitude where Web Mercator reaches the edge of the square world.
const maxLat = 85.05112878

// Coordinate is a projected Web Mercator (EPSG:3857) coordinate in metres.
type Coordinate struct {
	X float64
	Y float64
}

// FromLonLat projects a geographic position to Web Mercator.
// Latitudes beyond the projection limit are clamped; NaN passes through.
func FromLonLat(p model.Position) Coordinate {
	lat := math.Max(math.Min(p.Lat, maxLat), -maxLat)
	x := constants.EarthRadius * p.Lon * math.Pi / 180
	y := constants.EarthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return Coordinate{X: x, Y: y}
}

// ToLonLat is the inverse of FromLonLat.
func ToLonLat(c Coordinate) model.Position {
	lon := c.X / constants.EarthRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(c.Y/constants.EarthRadius)) - math.Pi/2) * 180 / math.Pi
	return model.Position{Lon: lon, Lat: lat}
}

// Resolution returns metres per pixel at the given zoom level.
func Resolution(zoom float64) float64 {
	return 2 * math.Pi * constants.EarthRadius / (constants.TileSize * math.Pow(2, zoom))
}
