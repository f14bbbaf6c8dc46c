// Package query loads the fixed export query from disk.
package query

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var ErrNotFound = errors.New("query file not found")

// Load returns the file contents verbatim. The text is never parsed or
// templated; it goes to the database as-is.
func Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("read query file %s: %w", path, err)
	}
	return string(b), nil
}
