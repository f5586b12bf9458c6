package main

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"changescope-desktop/internal/geo"
	"changescope-desktop/internal/mapcanvas"
)

// eventsCanvas implements mapcanvas.Canvas by forwarding each call to the
// frontend map as a Wails event. Before startup completes there is no
// context and events are dropped; nothing draws that early.
type eventsCanvas struct {
	app *App
}

func (c *eventsCanvas) emit(event string, data ...interface{}) {
	if c.app.ctx != nil {
		wailsRuntime.EventsEmit(c.app.ctx, event, data...)
	}
}

func (c *eventsCanvas) AddOverlay(shape mapcanvas.Shape) {
	c.emit("overlay-add", shape)
}

func (c *eventsCanvas) RemoveOverlay(id string) {
	c.emit("overlay-remove", id)
}

func (c *eventsCanvas) SetPanningEnabled(enabled bool) {
	c.emit("panning-enabled", enabled)
}

func (c *eventsCanvas) SetView(center geo.LatLng, zoom float64) {
	c.emit("map-set-view", map[string]interface{}{
		"center": center,
		"zoom":   zoom,
	})
}

func (c *eventsCanvas) SetAreaLabel(label string) {
	c.emit("area-label", label)
}
