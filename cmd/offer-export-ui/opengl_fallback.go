package main

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"offer-export/internal/platform/desktop"
)

const cliName = "offer-export"

var openGLFallbackOnce sync.Once

// handleOpenGLFailure replaces the window with the console exporter and
// exits.
func handleOpenGLFailure() {
	openGLFallbackOnce.Do(func() {
		msg := "OpenGL is not available on this machine, so the export window cannot start.\n"
		if err := launchConsoleExporter(); err != nil {
			msg += "Run " + cliName + " from a terminal to export the spreadsheet."
		} else {
			msg += "The export will run in a console window instead."
		}
		desktop.Alert(appTitle, msg)
		os.Exit(1)
	})
}

func launchConsoleExporter() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	name := cliName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	cli := filepath.Join(filepath.Dir(filepath.Clean(exe)), name)
	if _, err := os.Stat(cli); err != nil {
		return err
	}
	return desktop.LaunchConsole(cli)
}
