// Package logutil locates the files written by the file log sink.
package logutil

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/grovetools/scaffolder/config"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/paths"
	"github.com/grovetools/scaffolder/util/pathutil"
)

// fileName matches sink files: <component>-<date>.log.
var fileName = regexp.MustCompile(`^(.+)-(\d{4}-\d{2}-\d{2})\.log$`)

// LogFile is one file written by the file sink.
type LogFile struct {
	Component string
	Date      string
	Path      string
}

// FindLogFiles lists the sink files in dir, oldest date first. A non-empty
// component keeps only that component's files. A missing dir is not an error.
func FindLogFiles(dir, component string) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pathops.Normalize(err, dir)
	}
	var files []LogFile
	for _, e := range entries {
		m := fileName.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		if component != "" && m[1] != component {
			continue
		}
		files = append(files, LogFile{Component: m[1], Date: m[2], Path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Date != files[j].Date {
			return files[i].Date < files[j].Date
		}
		return files[i].Component < files[j].Component
	})
	return files, nil
}

// Latest maps each component to its newest file.
func Latest(files []LogFile) map[string]string {
	latest := make(map[string]string, len(files))
	for _, f := range files {
		latest[f.Component] = f.Path
	}
	return latest
}

// FilesFor returns the newest sink file of every component for cfg. When
// logging.file.path names a single file, that file is returned under the
// name of its base without extension.
func FilesFor(cfg *config.Config, component string) (map[string]string, error) {
	var logCfg logging.Config
	if cfg != nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			return nil, err
		}
	}
	if logCfg.File.Path != "" {
		path, err := pathutil.Expand(logCfg.File.Path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if !pathops.ExistsSync(path) {
			return map[string]string{}, nil
		}
		return map[string]string{name: path}, nil
	}

	files, err := FindLogFiles(paths.LogDir(), component)
	if err != nil {
		return nil, err
	}
	return Latest(files), nil
}
