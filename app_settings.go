package main

import (
	"log"

	"changescope-desktop/internal/config"
)

// ===================
// Settings Management
// ===================

// GetSettings returns current user settings
func (a *App) GetSettings() (*config.UserSettings, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Return a copy to prevent external modifications
	settingsCopy := *a.settings
	return &settingsCopy, nil
}

// SaveSettings saves user settings to disk and updates app state
func (a *App) SaveSettings(settings *config.UserSettings) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := config.ValidateSettings(settings); err != nil {
		return err
	}

	if err := config.SaveSettings(settings); err != nil {
		return err
	}

	a.settings = settings

	// Note: endpoint, tile template and cache settings require an app
	// restart to take effect
	log.Printf("Settings saved. Endpoint and cache settings will apply on next restart.")

	return nil
}

// GetSettingsPath returns the OS-specific settings file path
func (a *App) GetSettingsPath() string {
	return config.GetSettingsPath()
}
