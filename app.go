package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	goruntime "runtime"
	"sync"

	"github.com/posthog/posthog-go"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"changescope-desktop/internal/analysis"
	"changescope-desktop/internal/config"
	"changescope-desktop/internal/draw"
	"changescope-desktop/internal/geo"
	"changescope-desktop/internal/mapcanvas"
	"changescope-desktop/internal/tileproxy"
)

// Linker flags
var (
	PostHogKey  string
	PostHogHost string
	AppVersion  string = "0.0.0-dev"
)

// coverageOverlayID marks the static dashed rectangle showing where the
// analysis service has imagery. Drawn once at startup, never interactive.
const coverageOverlayID = "coverage-extent"

var coverageStyle = mapcanvas.Style{
	Color:  "#f9a825",
	Weight: 1,
	Dashed: true,
}

// App struct
type App struct {
	ctx      context.Context
	mu       sync.Mutex
	settings *config.UserSettings
	devMode  bool // Enable verbose logging in dev mode only
	phClient posthog.Client

	drawCtl      *draw.Controller
	orchestrator *analysis.Orchestrator
	tileProxy    *tileproxy.Server
}

// MapConfig is everything the frontend needs to bring up the base map.
type MapConfig struct {
	TileURL     string     `json:"tileURL"`
	Attribution string     `json:"attribution"`
	Center      geo.LatLng `json:"center"`
	Zoom        float64    `json:"zoom"`
	Coverage    geo.Bounds `json:"coverage"`
}

// ViewState is pushed to the frontend whenever the active tab or the
// analysis state changes, with the panel dispatch already resolved.
type ViewState struct {
	ActiveTab analysis.Tab   `json:"activeTab"`
	State     analysis.State `json:"analysisState"`
	View      analysis.View  `json:"view"`
	Draw      draw.State     `json:"drawState"`
}

// NewApp creates a new App application struct
func NewApp() *App {
	// Load user settings
	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
		settings = config.DefaultSettings()
	}
	log.Printf("Settings loaded from: %s", config.GetSettingsPath())

	// .env / environment override for the analysis endpoint in development
	if endpoint := os.Getenv("CHANGESCOPE_ANALYSIS_ENDPOINT"); endpoint != "" {
		log.Printf("Analysis endpoint overridden from environment: %s", endpoint)
		settings.AnalysisEndpoint = endpoint
	}

	a := &App{settings: settings}

	// Initialize PostHog
	if PostHogKey != "" {
		phConfig := posthog.Config{
			Endpoint: PostHogHost,
		}
		client, err := posthog.NewWithConfig(PostHogKey, phConfig)
		if err != nil {
			log.Printf("Failed to initialize PostHog: %v", err)
		} else {
			a.phClient = client
		}
	}

	// Local proxy keeps the webview off third-party tile origins and gives
	// the base map a disk cache
	tileCache, err := tileproxy.NewCache(getTileCacheDir(), settings.CacheMaxSizeMB)
	if err != nil {
		log.Printf("Failed to initialize tile cache: %v", err)
		tileCache = nil // Continue without cache
	}
	a.tileProxy = tileproxy.NewServer(settings.TileTemplateURL, tileCache)

	// Orchestrator pushes every snapshot change to the frontend
	client := analysis.NewClient(settings.AnalysisEndpoint)
	a.orchestrator = analysis.NewOrchestrator(client, func(snap analysis.Snapshot) {
		a.emitViewState(snap)
	})

	// The draw controller renders through the frontend map and feeds
	// selections straight into the orchestrator
	a.drawCtl = draw.NewController(&eventsCanvas{app: a}, func(bounds *geo.Bounds) {
		if bounds != nil {
			a.TrackEvent("aoi_selected", map[string]interface{}{
				"area_km2": geo.AreaKm2(*bounds),
			})
		}
		a.orchestrator.Select(bounds)
	})

	return a
}

// getTileCacheDir returns the OS-specific tile cache directory
func getTileCacheDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".changescope", "desktop", "tilecache")
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	// Start local tile proxy
	go func() {
		if err := a.tileProxy.Start(); err != nil {
			wailsRuntime.LogError(ctx, "Tile proxy stopped: "+err.Error())
		}
	}()

	// Draw the static data-coverage reference rectangle once
	canvas := &eventsCanvas{app: a}
	canvas.AddOverlay(mapcanvas.RectShape(coverageOverlayID, a.settings.CoverageBounds, coverageStyle))

	a.emitViewState(a.orchestrator.Snapshot())

	// Track app start
	a.TrackEvent("app_started", map[string]interface{}{
		"version": a.GetAppVersion(),
		"os":      goruntime.GOOS,
		"arch":    goruntime.GOARCH,
	})
}

// Shutdown cleans up resources
func (a *App) Shutdown(ctx context.Context) {
	if a.phClient != nil {
		a.phClient.Close()
	}
}

// emitViewState resolves the panel dispatch and pushes it to the frontend.
func (a *App) emitViewState(snap analysis.Snapshot) {
	if a.ctx == nil {
		return
	}
	a.emitLog("view-state: " + string(snap.State.Phase))
	wailsRuntime.EventsEmit(a.ctx, "view-state", ViewState{
		ActiveTab: snap.ActiveTab,
		State:     snap.State,
		View:      analysis.ResolveView(snap.ActiveTab, snap.State),
		Draw:      a.drawCtl.State(),
	})
}

// PointerDown forwards a map pointer-down at the given coordinate.
func (a *App) PointerDown(lat, lng float64) {
	a.drawCtl.PointerDown(geo.LatLng{Lat: lat, Lng: lng})
}

// PointerMove forwards a map pointer-move at the given coordinate.
func (a *App) PointerMove(lat, lng float64) {
	a.drawCtl.PointerMove(geo.LatLng{Lat: lat, Lng: lng})
}

// PointerUp forwards a map pointer-up at the given coordinate.
func (a *App) PointerUp(lat, lng float64) {
	a.drawCtl.PointerUp(geo.LatLng{Lat: lat, Lng: lng})
}

// ClearAOI removes the committed AOI rectangle, if any.
func (a *App) ClearAOI() {
	a.drawCtl.Clear()
}

// SetActiveTab records a tab click from the frontend.
func (a *App) SetActiveTab(name string) error {
	tab, err := analysis.ParseTab(name)
	if err != nil {
		return err
	}
	a.orchestrator.SetActiveTab(tab)
	return nil
}

// GetViewState returns the current tab, analysis state and resolved view.
// The frontend calls this once on load; afterwards it listens for the
// view-state event.
func (a *App) GetViewState() ViewState {
	snap := a.orchestrator.Snapshot()
	return ViewState{
		ActiveTab: snap.ActiveTab,
		State:     snap.State,
		View:      analysis.ResolveView(snap.ActiveTab, snap.State),
		Draw:      a.drawCtl.State(),
	}
}

// GetMapConfig returns base map configuration for the frontend.
func (a *App) GetMapConfig() MapConfig {
	a.mu.Lock()
	defer a.mu.Unlock()

	tileURL := a.settings.TileTemplateURL
	if a.tileProxy.URL() != "" {
		tileURL = a.tileProxy.TemplateURL()
	}

	return MapConfig{
		TileURL:     tileURL,
		Attribution: a.settings.TileAttribution,
		Center:      a.settings.DefaultCenter,
		Zoom:        a.settings.DefaultZoom,
		Coverage:    a.settings.CoverageBounds,
	}
}

// GetAppVersion returns the current application version
func (a *App) GetAppVersion() string {
	return AppVersion
}

// TrackEvent sends an event to PostHog
func (a *App) TrackEvent(event string, props map[string]interface{}) {
	if a.phClient != nil {
		a.phClient.Enqueue(posthog.Capture{
			DistinctId: "backend_user",
			Event:      event,
			Properties: props,
		})
	}
}

// emitLog sends a log message to the frontend (only in dev mode)
func (a *App) emitLog(message string) {
	if a.devMode && a.ctx != nil {
		wailsRuntime.EventsEmit(a.ctx, "log", message)
	}
}
