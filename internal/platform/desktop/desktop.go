// Package desktop holds the OS-specific bits of the desktop front end:
// session detection, native alerts and launching a console.
package desktop

import "errors"

var ErrUnsupported = errors.New("not supported on this OS")

// ErrNoSession reports that no interactive desktop is available.
var ErrNoSession = errors.New("no interactive desktop session")

// StartupGuard returns ErrNoSession when the GUI cannot be shown.
func StartupGuard() error {
	ok, err := IsInteractive()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoSession
	}
	return nil
}
