// pattern: Imperative Shell

package gitfiles

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoRepo is returned when no enclosing git repository exists.
var ErrNoRepo = errors.New("no git repo found")

// FindRoot walks up from dir until it finds a directory containing .git.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRepo
		}
		dir = parent
	}
}
