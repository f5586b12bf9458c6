package analysis

import "testing"

func TestResolveView(t *testing.T) {
	result := &Result{Summary: Summary{PercentChange: 12.5}}

	tests := []struct {
		name  string
		tab   Tab
		state State
		want  View
	}{
		{
			name:  "error shadows imagery tab",
			tab:   TabImagery,
			state: Errored("model unavailable"),
			want:  View{Kind: ViewError, Message: "model unavailable"},
		},
		{
			name:  "error shadows detection tab",
			tab:   TabDetection,
			state: Errored("model unavailable"),
			want:  View{Kind: ViewError, Message: "model unavailable"},
		},
		{
			name:  "loading shadows imagery tab",
			tab:   TabImagery,
			state: Loading(),
			want:  View{Kind: ViewLoading},
		},
		{
			name:  "loading shadows detection tab",
			tab:   TabDetection,
			state: Loading(),
			want:  View{Kind: ViewLoading},
		},
		{
			name:  "aoi tab always shows the drawing surface",
			tab:   TabAOI,
			state: Errored("model unavailable"),
			want:  View{Kind: ViewAOI},
		},
		{
			name:  "aoi tab while loading",
			tab:   TabAOI,
			state: Loading(),
			want:  View{Kind: ViewAOI},
		},
		{
			name:  "imagery with result",
			tab:   TabImagery,
			state: Succeeded(result),
			want:  View{Kind: ViewImagery, Result: result},
		},
		{
			name:  "detection with result",
			tab:   TabDetection,
			state: Succeeded(result),
			want:  View{Kind: ViewDetection, Result: result},
		},
		{
			name:  "imagery with no result yet",
			tab:   TabImagery,
			state: Idle(),
			want:  View{Kind: ViewImagery},
		},
		{
			name:  "detection with no result yet",
			tab:   TabDetection,
			state: Idle(),
			want:  View{Kind: ViewDetection},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveView(tt.tab, tt.state)
			if got != tt.want {
				t.Errorf("ResolveView(%v, %v) = %+v, want %+v", tt.tab, tt.state.Phase, got, tt.want)
			}
		})
	}
}

func TestParseTab(t *testing.T) {
	for _, name := range []string{"aoi", "imagery", "detection"} {
		if _, err := ParseTab(name); err != nil {
			t.Errorf("ParseTab(%q) returned error: %v", name, err)
		}
	}
	if _, err := ParseTab("settings"); err == nil {
		t.Error("ParseTab must reject unknown tabs")
	}
}
