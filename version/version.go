// Package version exposes build metadata stamped in by the linker:
//
//	go build -ldflags "-X github.com/grovetools/scaffolder/version.Version=v0.3.0"
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the stamped metadata.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Release reports whether Version is a semantic version rather than a dev build.
func (i Info) Release() bool {
	_, err := semver.NewVersion(i.Version)
	return err == nil
}

func (i Info) String() string {
	return fmt.Sprintf("Commit:\t\t%s\nBuild Date:\t%s\nGo Version:\t%s\nPlatform:\t%s",
		i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
