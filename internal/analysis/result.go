package analysis

// Categories breaks changed pixels down by predicted class.
type Categories struct {
	Deforestation float64 `json:"Deforestation"`
	Water         float64 `json:"Water"`
	Urban         float64 `json:"Urban"`
	Agriculture   float64 `json:"Agriculture"`
}

// Summary carries the headline statistics for an analysis run.
type Summary struct {
	JobID         string     `json:"job_id,omitempty"`
	PercentChange float64    `json:"percent_change"`
	ConfidencePct float64    `json:"confidence_pct"`
	Categories    Categories `json:"categories"`
}

// Overlays holds renderable artifacts produced by the analysis service.
// ClassPNG is a URL for the per-pixel change classification image used by
// the detection overlay.
type Overlays struct {
	ClassPNG string `json:"class_png,omitempty"`
}

// Result is the payload returned by the analysis endpoint. It is never
// mutated after receipt; the comparison slider, detection overlay and
// statistics panel all read it through the orchestrator state.
type Result struct {
	Summary     Summary  `json:"summary"`
	Overlays    Overlays `json:"overlays"`
	BeforeImage string   `json:"beforeImage,omitempty"`
	AfterImage  string   `json:"afterImage,omitempty"`
}
