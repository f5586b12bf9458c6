package draw

import (
	"fmt"
	"log"
	"sync"

	"changescope-desktop/internal/geo"
	"changescope-desktop/internal/mapcanvas"
)

// Phase identifies where the drawing state machine currently is.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseDrawing Phase = "drawing"
	PhaseDrawn   Phase = "drawn"
)

// Overlay IDs owned by the controller on the canvas.
const (
	previewOverlayID   = "aoi-preview"
	committedOverlayID = "aoi-committed"
)

var (
	previewStyle = mapcanvas.Style{
		Color:       "#2d7ff9",
		Weight:      2,
		FillColor:   "#2d7ff9",
		FillOpacity: 0.08,
	}
	committedStyle = mapcanvas.Style{
		Color:       "#2d7ff9",
		Weight:      2,
		FillColor:   "#2d7ff9",
		FillOpacity: 0.15,
	}
)

// SelectionListener receives AOISelected events. A nil bounds clears the
// current selection; callers get it synchronously from the pointer handler
// that produced it.
type SelectionListener func(bounds *geo.Bounds)

// State is a snapshot of the controller for the view layer.
type State struct {
	Phase   Phase       `json:"phase"`
	Bounds  *geo.Bounds `json:"bounds,omitempty"`
	AreaKm2 float64     `json:"areaKm2,omitempty"`
}

// Controller turns raw pointer events from the map into a single committed
// AOI rectangle. It owns all drawing state; nothing else writes it. Map
// panning is suspended for the whole drawing gesture so that dragging out a
// rectangle does not also pan the view, and released on every exit from the
// drawing phase, commit or discard alike.
type Controller struct {
	canvas   mapcanvas.Canvas
	onSelect SelectionListener

	mu      sync.Mutex
	phase   Phase
	start   geo.LatLng
	current geo.Bounds
	bounds  geo.Bounds
	areaKm2 float64
}

// NewController wires a controller to the canvas it draws on. listener may
// be nil when nothing downstream cares about selections.
func NewController(canvas mapcanvas.Canvas, listener SelectionListener) *Controller {
	if listener == nil {
		listener = func(*geo.Bounds) {}
	}
	return &Controller{
		canvas:   canvas,
		onSelect: listener,
		phase:    PhaseIdle,
	}
}

// PointerDown starts a new drawing gesture from any state. Whatever was on
// screen before, preview or committed rectangle, is removed first, and a
// nil selection is emitted so downstream consumers drop any prior result or
// error immediately. Starting a new draw always preempts the previous AOI,
// even if a request for it is still in flight.
func (c *Controller) PointerDown(p geo.LatLng) {
	c.mu.Lock()
	c.canvas.SetPanningEnabled(false)
	c.canvas.RemoveOverlay(previewOverlayID)
	c.canvas.RemoveOverlay(committedOverlayID)
	c.canvas.SetAreaLabel("")
	c.phase = PhaseDrawing
	c.start = p
	c.current = geo.Span(p, p)
	c.mu.Unlock()

	c.onSelect(nil)
}

// PointerMove respans the preview rectangle while a gesture is active.
// Outside the drawing phase it is a no-op.
func (c *Controller) PointerMove(p geo.LatLng) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseDrawing {
		return
	}
	c.current = geo.Span(c.start, p)
	c.canvas.AddOverlay(mapcanvas.RectShape(previewOverlayID, c.current, previewStyle))
}

// PointerUp finishes the gesture. A zero-width or zero-height rectangle is
// discarded silently: a stray click is not an error. Otherwise the AOI is
// committed, its area shown, and the selection emitted.
func (c *Controller) PointerUp(p geo.LatLng) {
	c.mu.Lock()
	if c.phase != PhaseDrawing {
		c.mu.Unlock()
		return
	}

	c.canvas.SetPanningEnabled(true)

	b := geo.Span(c.start, p)
	if b.IsDegenerate() {
		c.canvas.RemoveOverlay(previewOverlayID)
		c.phase = PhaseIdle
		c.mu.Unlock()
		return
	}

	area := geo.AreaKm2(b)
	c.bounds = b
	c.areaKm2 = area
	c.phase = PhaseDrawn

	c.canvas.RemoveOverlay(previewOverlayID)
	c.canvas.AddOverlay(mapcanvas.RectShape(committedOverlayID, b, committedStyle))
	c.canvas.SetAreaLabel(fmt.Sprintf("%.2f km²", area))
	c.mu.Unlock()

	log.Printf("[Draw] AOI committed: W=%.4f S=%.4f E=%.4f N=%.4f (%.2f km²)",
		b.West, b.South, b.East, b.North, area)
	c.onSelect(&b)
}

// Clear removes a committed AOI and returns to idle. It only does anything
// from the drawn phase.
func (c *Controller) Clear() {
	c.mu.Lock()
	if c.phase != PhaseDrawn {
		c.mu.Unlock()
		return
	}
	c.canvas.RemoveOverlay(committedOverlayID)
	c.canvas.SetAreaLabel("")
	c.phase = PhaseIdle
	c.mu.Unlock()

	c.onSelect(nil)
}

// State returns a snapshot of the current drawing state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{Phase: c.phase}
	if c.phase == PhaseDrawn {
		b := c.bounds
		s.Bounds = &b
		s.AreaKm2 = c.areaKm2
	}
	return s
}
