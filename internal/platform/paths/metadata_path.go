package paths

import "path/filepath"

const MetadataFileName = "last_extraction.json"

func MetadataFilePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, MetadataFileName), nil
}
