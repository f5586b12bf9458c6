package analysis

import "fmt"

// Tab identifies which panel the user is looking at.
type Tab string

const (
	TabAOI       Tab = "aoi"
	TabImagery   Tab = "imagery"
	TabDetection Tab = "detection"
)

// ParseTab validates a tab name coming from the frontend.
func ParseTab(name string) (Tab, error) {
	switch Tab(name) {
	case TabAOI, TabImagery, TabDetection:
		return Tab(name), nil
	}
	return "", fmt.Errorf("unknown tab: %q", name)
}

// ViewKind names the panel content a renderer should show.
type ViewKind string

const (
	ViewAOI       ViewKind = "aoi"
	ViewImagery   ViewKind = "imagery"
	ViewDetection ViewKind = "detection"
	ViewLoading   ViewKind = "loading"
	ViewError     ViewKind = "error"
)

// View tells the renderers what to show for a given tab/state pair.
// Result is nil until an analysis has succeeded.
type View struct {
	Kind    ViewKind `json:"kind"`
	Message string   `json:"message,omitempty"`
	Result  *Result  `json:"result,omitempty"`
}

// ResolveView applies the display rule shared by every panel: any non-AOI
// tab shows the error or loading view while a request has failed or is in
// flight; otherwise the tab's own renderer is dispatched with the current
// result, or nil when there is none. The AOI tab always shows the drawing
// surface.
func ResolveView(tab Tab, s State) View {
	if tab != TabAOI {
		switch s.Phase {
		case PhaseError:
			return View{Kind: ViewError, Message: s.Message}
		case PhaseLoading:
			return View{Kind: ViewLoading}
		}
	}

	switch tab {
	case TabImagery:
		return View{Kind: ViewImagery, Result: s.Result}
	case TabDetection:
		return View{Kind: ViewDetection, Result: s.Result}
	default:
		return View{Kind: ViewAOI}
	}
}
