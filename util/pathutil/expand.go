// Package pathutil expands user-supplied paths.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand replaces a leading ~ with the home directory and expands environment
// variables. It does not make the path absolute.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// Abs expands path and makes it absolute relative to base. An empty base
// means the current directory.
func Abs(path, base string) (string, error) {
	expanded, err := Expand(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	if base == "" {
		return filepath.Abs(expanded)
	}
	return filepath.Join(base, expanded), nil
}
