package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates base/name (and parents) if missing and returns its
// absolute path. An empty base means the current working directory.
func EnsureDir(base, name string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = cwd
	}

	dir, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// SafeName reduces a server-supplied file name to its base name so it
// cannot escape the target directory.
func SafeName(name string) string {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return "download"
	}
	return base
}
