//go:build !windows

package desktop

import (
	"fmt"
	"os"
	"runtime"
)

// IsInteractive reports whether a display server is reachable. macOS always
// has one.
func IsInteractive() (bool, error) {
	if runtime.GOOS == "darwin" {
		return true, nil
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "", nil
}

func Alert(title, msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", title, msg)
}

func LaunchConsole(string, ...string) error {
	return ErrUnsupported
}
