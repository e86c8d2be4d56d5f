package geo

import "math"

const (
	// MaxMercatorLatitude is the latitude at which web maps cut off.
	MaxMercatorLatitude = 85.05112878

	// earthRadius is the sphere radius used by EPSG:3857.
	earthRadius = 6378137.0
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// ClampLatitude limits lat to the range a web map can display.
func ClampLatitude(lat float64) float64 {
	if lat > MaxMercatorLatitude {
		return MaxMercatorLatitude
	} else if lat < -MaxMercatorLatitude {
		return -MaxMercatorLatitude
	}
	return lat
}

// WebMercatorToLonLat converts spherical Mercator metres (EPSG:3857)
// to WGS84 longitude and latitude in degrees.
func WebMercatorToLonLat(x, y float64) (lon, lat float64) {
	lon = RadToDeg(x / earthRadius)

	// Inverse Mercator projection
	latRad := (2.0 * math.Atan(math.Exp(y/earthRadius))) - (math.Pi * 0.5)
	lat = ClampLatitude(RadToDeg(latRad))

	return lon, lat
}

// LonLatToWebMercator is the forward counterpart of WebMercatorToLonLat.
func LonLatToWebMercator(lon, lat float64) (x, y float64) {
	lat = ClampLatitude(lat)
	x = earthRadius * DegToRad(lon)
	y = earthRadius * math.Log(math.Tan(math.Pi/4+DegToRad(lat)/2))
	return x, y
}
