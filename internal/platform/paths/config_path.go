package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const AppName = "offer-export"

// AppDir is the per-user directory holding the config, log and run metadata.
func AppDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, AppName), nil
	case "linux", "darwin", "freebsd":
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	default:
		return "", errors.New("unsupported OS for per-user app data")
	}
}

func ConfigFilePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
