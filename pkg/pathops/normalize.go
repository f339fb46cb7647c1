package pathops

import (
	"runtime"

	"golang.org/x/text/unicode/norm"
)

// NormalizeNFC returns path in Unicode NFC on darwin, where the filesystem
// reports decomposed names. Elsewhere the path is returned unchanged.
func NormalizeNFC(path string) string {
	if runtime.GOOS != "darwin" {
		return path
	}
	return norm.NFC.String(path)
}

func normalizeNames(names []string) []string {
	if runtime.GOOS != "darwin" {
		return names
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = norm.NFC.String(n)
	}
	return out
}
