package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFile is the optional per-directory configuration file.
const ConfigFile = "pph.yaml"

// ErrRootNotFound is returned by FindRoot when no marker is found.
var ErrRootNotFound = errors.New("root not found")

// FindRoot looks upwards from startDir for a data directory: one holding a
// .pph directory or a pph.yaml file. It returns the absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".pph") || hasFile(dir, ConfigFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
