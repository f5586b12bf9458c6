package geo

import "math"

// kmPerDegree is the surface distance covered by one degree of latitude.
// The same factor applies to longitude before the cosine correction.
const kmPerDegree = 111.0

// AreaKm2 returns the approximate surface area of b in square kilometers,
// rounded to two decimals. This is a planar approximation with a cosine
// correction at the rectangle's center latitude: fine at AOI scale, not
// geodesic.
func AreaKm2(b Bounds) float64 {
	dLatKm := math.Abs(b.North-b.South) * kmPerDegree
	centerLat := (b.North + b.South) / 2
	dLngKm := math.Abs(b.East-b.West) * kmPerDegree * math.Cos(centerLat*math.Pi/180)
	return math.Round(dLatKm*dLngKm*100) / 100
}
