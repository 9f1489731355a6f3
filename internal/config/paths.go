package config

import (
	"os"
	"path/filepath"
	"runtime"
)

func defaultConfigPath() (string, error) {
	if path := os.Getenv("CLIPMAN_CONFIG"); path != "" {
		return path, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(configDir, "Clipman", "config.yaml"), nil
	case "darwin":
		return filepath.Join(configDir, "com.berrythewa.clipman", "config.yaml"), nil
	default:
		return filepath.Join(configDir, "clipman", "config.yaml"), nil
	}
}

func defaultDataDir() (string, error) {
	if path := os.Getenv("CLIPMAN_DATA_DIR"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "windows":
		if appData, err := os.UserConfigDir(); err == nil {
			return filepath.Join(appData, "Clipman", "Data"), nil
		}
		return filepath.Join(homeDir, "AppData", "Local", "Clipman"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "Clipman"), nil
	default:
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "clipman"), nil
		}
		return filepath.Join(homeDir, ".clipman"), nil
	}
}
