package analysis

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"changescope-desktop/internal/geo"
)

// --- Fake requester ---

type fakeRequester struct {
	analyzeFn func(bounds geo.Bounds) (*Result, error)
	calls     atomic.Int64
}

func (f *fakeRequester) Analyze(bounds geo.Bounds) (*Result, error) {
	f.calls.Add(1)
	if f.analyzeFn != nil {
		return f.analyzeFn(bounds)
	}
	return &Result{}, nil
}

// snapshotSink collects listener notifications for deterministic waiting.
type snapshotSink struct {
	ch chan Snapshot
}

func newSnapshotSink() *snapshotSink {
	return &snapshotSink{ch: make(chan Snapshot, 16)}
}

func (s *snapshotSink) listener(snap Snapshot) { s.ch <- snap }

func (s *snapshotSink) next(t *testing.T) Snapshot {
	t.Helper()
	select {
	case snap := <-s.ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func (s *snapshotSink) nextWithPhase(t *testing.T, phase Phase) Snapshot {
	t.Helper()
	for {
		snap := s.next(t)
		if snap.State.Phase == phase {
			return snap
		}
	}
}

var orchBounds = geo.Bounds{West: 73.80, South: 18.50, East: 73.82, North: 18.52}

// --- Tests ---

func TestOrchestrator_SelectRunsRequestLifecycle(t *testing.T) {
	result := &Result{Summary: Summary{PercentChange: 7.4}}
	requester := &fakeRequester{
		analyzeFn: func(bounds geo.Bounds) (*Result, error) {
			if bounds != orchBounds {
				t.Errorf("unexpected bounds: %+v", bounds)
			}
			return result, nil
		},
	}
	sink := newSnapshotSink()
	o := NewOrchestrator(requester, sink.listener)

	o.Select(&orchBounds)

	loading := sink.next(t)
	if loading.State.Phase != PhaseLoading {
		t.Fatalf("expected loading first, got %v", loading.State.Phase)
	}
	if loading.ActiveTab != TabImagery {
		t.Fatal("selection must auto-switch to the imagery tab")
	}

	success := sink.nextWithPhase(t, PhaseSuccess)
	if success.State.Result != result {
		t.Fatal("success state must carry the response result")
	}
	if requester.calls.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", requester.calls.Load())
	}
}

func TestOrchestrator_SelectNilAlwaysYieldsIdle(t *testing.T) {
	states := []State{
		Idle(),
		Loading(),
		Errored("model unavailable"),
		Succeeded(&Result{}),
	}

	for _, prior := range states {
		sink := newSnapshotSink()
		o := NewOrchestrator(&fakeRequester{}, sink.listener)
		o.state = prior

		o.Select(nil)

		snap := sink.next(t)
		if snap.State.Phase != PhaseIdle {
			t.Errorf("Select(nil) from %v: got %v, want idle", prior.Phase, snap.State.Phase)
		}
		// No auto-switch for a cleared selection
		if snap.ActiveTab != TabAOI {
			t.Errorf("Select(nil) must not touch the active tab, got %v", snap.ActiveTab)
		}
	}
}

func TestOrchestrator_ErrorMessageSurfacesDetail(t *testing.T) {
	requester := &fakeRequester{
		analyzeFn: func(geo.Bounds) (*Result, error) {
			return nil, errors.New("model unavailable")
		},
	}
	sink := newSnapshotSink()
	o := NewOrchestrator(requester, sink.listener)

	o.Select(&orchBounds)

	failed := sink.nextWithPhase(t, PhaseError)
	if failed.State.Message != "model unavailable" {
		t.Fatalf("unexpected error message: %q", failed.State.Message)
	}
	// The imagery tab renders the error view with that exact message
	view := ResolveView(failed.ActiveTab, failed.State)
	if view.Kind != ViewError || view.Message != "model unavailable" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestOrchestrator_ExactlyOneAutoSwitchPerSelection(t *testing.T) {
	block := make(chan struct{})
	requester := &fakeRequester{
		analyzeFn: func(geo.Bounds) (*Result, error) {
			<-block
			return &Result{}, nil
		},
	}
	sink := newSnapshotSink()
	o := NewOrchestrator(requester, sink.listener)

	// User returns to the AOI tab while the request is in flight
	o.Select(&orchBounds)
	sink.next(t)
	o.SetActiveTab(TabAOI)
	sink.next(t)

	// The resolution must not switch tabs again
	close(block)
	done := sink.nextWithPhase(t, PhaseSuccess)
	if done.ActiveTab != TabAOI {
		t.Fatalf("request resolution switched tabs to %v", done.ActiveTab)
	}
}

func TestOrchestrator_SetActiveTabNeverIssuesRequests(t *testing.T) {
	requester := &fakeRequester{}
	sink := newSnapshotSink()
	o := NewOrchestrator(requester, sink.listener)

	o.SetActiveTab(TabDetection)
	o.SetActiveTab(TabImagery)
	o.SetActiveTab(TabAOI)

	if requester.calls.Load() != 0 {
		t.Fatalf("tab clicks must not hit the network, got %d calls", requester.calls.Load())
	}
	if snap := o.Snapshot(); snap.ActiveTab != TabAOI {
		t.Fatalf("unexpected tab: %v", snap.ActiveTab)
	}
}

func TestOrchestrator_SupersededResponseStillLands(t *testing.T) {
	// A new draw clears state while the first request is in flight; the
	// late response overwrites the fresher idle state. That race is part
	// of the contract, so pin it down rather than fix it silently.
	block := make(chan struct{})
	staleResult := &Result{Summary: Summary{JobID: "stale"}}
	requester := &fakeRequester{
		analyzeFn: func(geo.Bounds) (*Result, error) {
			<-block
			return staleResult, nil
		},
	}
	sink := newSnapshotSink()
	o := NewOrchestrator(requester, sink.listener)

	o.Select(&orchBounds)
	sink.next(t) // loading

	// Fresh pointer-down preempts the selection
	o.Select(nil)
	if snap := sink.next(t); snap.State.Phase != PhaseIdle {
		t.Fatalf("expected idle after preemption, got %v", snap.State.Phase)
	}

	// Superseded request resolves late and still wins the slot
	close(block)
	late := sink.nextWithPhase(t, PhaseSuccess)
	if late.State.Result != staleResult {
		t.Fatal("late response should have overwritten the idle state")
	}
}

func TestOrchestrator_SuccessAcceptedFromAnyState(t *testing.T) {
	// No request-identity check: a resolving request lands its result even
	// if the state slot has moved on from loading.
	block := make(chan struct{})
	requester := &fakeRequester{
		analyzeFn: func(geo.Bounds) (*Result, error) {
			<-block
			return &Result{}, nil
		},
	}
	sink := newSnapshotSink()
	o := NewOrchestrator(requester, sink.listener)

	o.Select(&orchBounds)
	sink.next(t)

	o.mu.Lock()
	o.state = Errored("overwritten meanwhile")
	o.mu.Unlock()

	close(block)
	if snap := sink.nextWithPhase(t, PhaseSuccess); snap.State.Result == nil {
		t.Fatal("resolution must accept the result regardless of prior state")
	}
}
