package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"changescope-desktop/internal/geo"
)

// UserSettings represents persistent user preferences
type UserSettings struct {
	// Analysis service
	AnalysisEndpoint string `json:"analysisEndpoint"`

	// Base map
	TileTemplateURL string     `json:"tileTemplateURL"` // XYZ template with {z}/{x}/{y}
	TileAttribution string     `json:"tileAttribution"`
	DefaultZoom     float64    `json:"defaultZoom"`
	DefaultCenter   geo.LatLng `json:"defaultCenter"`

	// Known data-coverage bounds, drawn once as a dashed reference rectangle
	CoverageBounds geo.Bounds `json:"coverageBounds"`

	// Tile cache settings
	CacheMaxSizeMB int `json:"cacheMaxSizeMB"`

	// UI preferences
	Theme string `json:"theme"` // "light", "dark", "system"
}

// DefaultSettings returns default user settings. The defaults target the
// local change-detection service and its Pune LISS test scene.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		AnalysisEndpoint: "http://127.0.0.1:8000/api/analyze-aoi",
		TileTemplateURL:  "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		TileAttribution:  "© OpenStreetMap contributors",
		DefaultZoom:      12,
		DefaultCenter:    geo.LatLng{Lat: 18.5204, Lng: 73.8567},
		CoverageBounds:   geo.Bounds{West: 73.60, South: 18.30, East: 74.10, North: 18.80},
		CacheMaxSizeMB:   250,
		Theme:            "system",
	}
}

// GetSettingsPath returns the OS-specific settings file path
func GetSettingsPath() string {
	homeDir, _ := os.UserHomeDir()

	baseDir := filepath.Join(homeDir, ".changescope", "desktop", "settings")

	// Ensure directory exists
	os.MkdirAll(baseDir, 0755)

	return filepath.Join(baseDir, "settings.json")
}

// LoadSettings loads user settings from disk
func LoadSettings() (*UserSettings, error) {
	settingsPath := GetSettingsPath()

	// If file doesn't exist, return defaults
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	// Merge with defaults for any missing fields
	defaults := DefaultSettings()
	if settings.AnalysisEndpoint == "" {
		settings.AnalysisEndpoint = defaults.AnalysisEndpoint
	}
	if settings.TileTemplateURL == "" {
		settings.TileTemplateURL = defaults.TileTemplateURL
	}
	if settings.TileAttribution == "" {
		settings.TileAttribution = defaults.TileAttribution
	}
	if settings.DefaultZoom == 0 {
		settings.DefaultZoom = defaults.DefaultZoom
	}
	if settings.DefaultCenter == (geo.LatLng{}) {
		settings.DefaultCenter = defaults.DefaultCenter
	}
	if settings.CoverageBounds == (geo.Bounds{}) {
		settings.CoverageBounds = defaults.CoverageBounds
	}
	if settings.CacheMaxSizeMB == 0 {
		settings.CacheMaxSizeMB = defaults.CacheMaxSizeMB
	}
	if settings.Theme == "" {
		settings.Theme = defaults.Theme
	}

	return &settings, nil
}

// SaveSettings saves user settings to disk
func SaveSettings(settings *UserSettings) error {
	settingsPath := GetSettingsPath()

	// Ensure directory exists
	dir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(settingsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// ValidateSettings checks a settings payload before it is applied.
func ValidateSettings(settings *UserSettings) error {
	if settings.AnalysisEndpoint == "" {
		return fmt.Errorf("analysis endpoint cannot be empty")
	}
	if settings.TileTemplateURL == "" {
		return fmt.Errorf("tile template URL cannot be empty")
	}
	if settings.CacheMaxSizeMB <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	return nil
}
