package geo

import "github.com/paulmach/orb"

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a rectangular region given by its four edges in degrees.
// Edges are stored exactly as drawn: West may exceed East (and South exceed
// North) when the user drags right-to-left or top-to-bottom. Consumers work
// with absolute spans, so no normalization happens anywhere.
type Bounds struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Span returns the rectangle spanned by two opposite corners.
func Span(a, b LatLng) Bounds {
	return Bounds{West: a.Lng, South: a.Lat, East: b.Lng, North: b.Lat}
}

// IsDegenerate reports whether the rectangle has zero width or zero height.
// Degenerate rectangles are discarded by the draw controller and never
// reach the analysis pipeline.
func (b Bounds) IsDegenerate() bool {
	return b.West == b.East || b.South == b.North
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.North + b.South) / 2,
		Lng: (b.West + b.East) / 2,
	}
}

// Ring returns the rectangle outline as a closed orb ring, in the
// (lon, lat) order orb uses.
func (b Bounds) Ring() orb.Ring {
	return orb.Ring{
		{b.West, b.South},
		{b.East, b.South},
		{b.East, b.North},
		{b.West, b.North},
		{b.West, b.South},
	}
}
