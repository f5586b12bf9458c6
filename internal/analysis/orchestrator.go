package analysis

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"changescope-desktop/internal/geo"
)

// Requester is the outbound half of the orchestrator, implemented by Client.
type Requester interface {
	Analyze(bounds geo.Bounds) (*Result, error)
}

// Snapshot is what the view layer reads: the active tab and the current
// analysis state together.
type Snapshot struct {
	ActiveTab Tab   `json:"activeTab"`
	State     State `json:"analysisState"`
}

// Listener is notified after every snapshot change.
type Listener func(Snapshot)

// Orchestrator owns the analysis request lifecycle. There is exactly one
// state slot and no request-identity bookkeeping: a late response from a
// superseded request still lands in the slot. That race is inherited from
// the service contract and kept (see DESIGN.md).
type Orchestrator struct {
	client   Requester
	listener Listener

	mu        sync.Mutex
	activeTab Tab
	state     State
}

// NewOrchestrator starts in the idle state on the AOI tab. listener may be
// nil when nothing consumes snapshots.
func NewOrchestrator(client Requester, listener Listener) *Orchestrator {
	if listener == nil {
		listener = func(Snapshot) {}
	}
	return &Orchestrator{
		client:    client,
		listener:  listener,
		activeTab: TabAOI,
		state:     Idle(),
	}
}

// Select consumes an AOISelected event. A nil bounds clears any previous
// result or error unconditionally and does not touch the active tab. A
// non-nil bounds switches to the imagery tab so the user immediately sees
// the loading view, then issues exactly one request.
func (o *Orchestrator) Select(bounds *geo.Bounds) {
	if bounds == nil {
		o.mu.Lock()
		o.state = Idle()
		snap := o.snapshotLocked()
		o.mu.Unlock()
		o.listener(snap)
		return
	}

	b := *bounds
	jobID := uuid.NewString()[:8]

	o.mu.Lock()
	o.activeTab = TabImagery
	o.state = Loading()
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.listener(snap)

	log.Printf("[Analysis] %s: requesting analysis for W=%.4f S=%.4f E=%.4f N=%.4f",
		jobID, b.West, b.South, b.East, b.North)

	go func() {
		result, err := o.client.Analyze(b)

		o.mu.Lock()
		if err != nil {
			log.Printf("[Analysis] %s: request failed: %v", jobID, err)
			o.state = Errored(err.Error())
		} else {
			log.Printf("[Analysis] %s: %.3f%% change detected", jobID, result.Summary.PercentChange)
			o.state = Succeeded(result)
		}
		snap := o.snapshotLocked()
		o.mu.Unlock()
		o.listener(snap)
	}()
}

// SetActiveTab records a user tab click. It never triggers network
// activity and is independent of the analysis state.
func (o *Orchestrator) SetActiveTab(tab Tab) {
	o.mu.Lock()
	o.activeTab = tab
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.listener(snap)
}

// Snapshot returns the current tab and analysis state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{ActiveTab: o.activeTab, State: o.state}
}
