package mapcanvas

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"changescope-desktop/internal/geo"
)

// Style controls how the frontend renders an overlay shape.
type Style struct {
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillColor   string  `json:"fillColor,omitempty"`
	FillOpacity float64 `json:"fillOpacity"`
	Dashed      bool    `json:"dashed"`
}

// Shape is an overlay delivered to the map frontend as GeoJSON.
type Shape struct {
	ID      string           `json:"id"`
	Feature *geojson.Feature `json:"feature"`
	Style   Style            `json:"style"`
}

// Canvas is the capability surface the core needs from the map rendering
// engine. The core never depends on a concrete map library; the app layer
// provides an implementation that forwards each call to the frontend.
//
// Adding a shape whose ID is already present replaces it, so callers can
// update the draw preview without a remove/add pair.
type Canvas interface {
	AddOverlay(shape Shape)
	RemoveOverlay(id string)
	SetPanningEnabled(enabled bool)
	SetView(center geo.LatLng, zoom float64)
	SetAreaLabel(label string)
}

// RectShape builds a rectangular overlay from bounds.
func RectShape(id string, b geo.Bounds, style Style) Shape {
	f := geojson.NewFeature(orb.Polygon{b.Ring()})
	f.ID = id
	return Shape{ID: id, Feature: f, Style: style}
}
