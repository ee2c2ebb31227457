package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MetersPerMile converts orb's metric distances
const MetersPerMile = 1609.344

// Point builds an orb point from latitude and longitude
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// DistanceMiles returns the great-circle (Haversine) distance in miles
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	return geo.DistanceHaversine(Point(lat1, lng1), Point(lat2, lng2)) / MetersPerMile
}

// BoundAround returns the lat/lng box containing every point within
// radiusMiles of the center. Used to prefilter rows before exact distance.
func BoundAround(lat, lng, radiusMiles float64) orb.Bound {
	return geo.NewBoundAroundPoint(Point(lat, lng), radiusMiles*MetersPerMile)
}
