package paths

import "path/filepath"

func LoggerFilePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "export.log"), nil
}
