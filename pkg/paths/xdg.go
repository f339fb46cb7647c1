// Package paths resolves where the scaffolder keeps configuration, state,
// logs and the panel host pid file.
//
// SCAFFOLDER_HOME, when set, roots everything in one portable directory
// ($SCAFFOLDER_HOME/{config,state,run}). Otherwise the XDG base directory
// variables apply, then the platform defaults under the user's home.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "scaffolder"

// location describes one kind of directory.
type location struct {
	portable string   // subdirectory of SCAFFOLDER_HOME
	xdgVar   string   // XDG variable naming the base directory
	fallback []string // base directory below the user's home
}

var (
	configLocation  = location{portable: filepath.Join("config", appName), xdgVar: "XDG_CONFIG_HOME", fallback: []string{".config"}}
	stateLocation   = location{portable: filepath.Join("state", appName), xdgVar: "XDG_STATE_HOME", fallback: []string{".local", "state"}}
	runtimeLocation = location{portable: "run", xdgVar: "XDG_RUNTIME_DIR"}
)

// resolve returns the scaffolder directory for l, or "" when no base can be
// determined.
func (l location) resolve() string {
	if home := os.Getenv("SCAFFOLDER_HOME"); home != "" {
		return filepath.Join(home, l.portable)
	}
	if base := os.Getenv(l.xdgVar); base != "" {
		return filepath.Join(base, appName)
	}
	if len(l.fallback) == 0 {
		return ""
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{homeDir}, l.fallback...), appName)...)
}

// ConfigDir holds the global scaffolder.yml.
func ConfigDir() string {
	return configLocation.resolve()
}

// StateDir holds the workspace state file and logs.
func StateDir() string {
	return stateLocation.resolve()
}

// LogDir is where the file log sink writes <component>-<date>.log by default.
func LogDir() string {
	if state := StateDir(); state != "" {
		return filepath.Join(state, "logs")
	}
	return ""
}

// RuntimeDir holds the pid file. Without XDG_RUNTIME_DIR (macOS) it is the
// state directory.
func RuntimeDir() string {
	if dir := runtimeLocation.resolve(); dir != "" {
		return dir
	}
	return StateDir()
}

// PidFilePath is the pid file written by `scaffolder serve`.
func PidFilePath() string {
	return filepath.Join(RuntimeDir(), appName+".pid")
}

// EnsureDirs creates the config, state, log and runtime directories.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), LogDir(), RuntimeDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
