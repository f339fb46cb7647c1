package command

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	scaffolderrors "github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/logging"
	"github.com/sirupsen/logrus"
)

// StartPlaceholder in a configured picker command is replaced by the folder
// the dialog opens in.
const StartPlaceholder = "{start}"

// pickerCandidates are tried in order when no picker is configured.
var pickerCandidates = map[string][][]string{
	"darwin": {
		{"osascript", "-e", `POSIX path of (choose folder with prompt "Select project location")`},
	},
	"linux": {
		{"zenity", "--file-selection", "--directory", "--title=Select project location", "--filename=" + StartPlaceholder + "/"},
		{"kdialog", "--getexistingdirectory", StartPlaceholder},
	},
}

// FolderPicker asks the user for a directory through a native dialog program.
type FolderPicker struct {
	builder  *SafeBuilder
	executor Executor
	argv     []string
	goos     string
	logger   *logrus.Entry
}

// NewFolderPicker returns a picker running argv, or the first dialog program
// found on PATH when argv is empty.
func NewFolderPicker(argv []string) *FolderPicker {
	return NewFolderPickerWithExecutor(argv, &RealExecutor{})
}

// NewFolderPickerWithExecutor is NewFolderPicker with a custom Executor.
func NewFolderPickerWithExecutor(argv []string, exec Executor) *FolderPicker {
	return &FolderPicker{
		builder:  NewSafeBuilderWithExecutor(exec).withTimeout(MaxTimeout),
		executor: exec,
		argv:     argv,
		goos:     runtime.GOOS,
		logger:   logging.NewLogger("command"),
	}
}

// PickFolder shows the dialog starting at start. A cancelled dialog returns "".
func (p *FolderPicker) PickFolder(ctx context.Context, start string) (string, error) {
	argv, err := p.resolve()
	if err != nil {
		return "", err
	}
	args := make([]string, 0, len(argv)-1)
	for _, a := range argv[1:] {
		args = append(args, strings.ReplaceAll(a, StartPlaceholder, start))
	}

	cmd, err := p.builder.Build(ctx, argv[0], args...)
	if err != nil {
		return "", scaffolderrors.Wrap(err, scaffolderrors.ErrCodeConfigInvalid, "invalid folder picker")
	}
	p.logger.WithField("command", cmd.String()).Debug("Opening folder dialog")

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			p.logger.Debug("Folder dialog cancelled")
			return "", nil
		}
		return "", scaffolderrors.Wrap(err, scaffolderrors.ErrCodeUnknown, "folder dialog failed")
	}

	folder := strings.TrimSpace(string(out))
	if len(folder) > 1 {
		folder = strings.TrimRight(folder, "/")
	}
	if folder == "" {
		return "", nil
	}
	return filepath.Clean(folder), nil
}

// resolve picks the configured command or the first candidate on PATH.
func (p *FolderPicker) resolve() ([]string, error) {
	if len(p.argv) > 0 {
		return p.argv, nil
	}
	for _, candidate := range pickerCandidates[p.goos] {
		if _, err := p.executor.LookPath(candidate[0]); err == nil {
			return candidate, nil
		}
	}
	return nil, scaffolderrors.New(scaffolderrors.ErrCodeNotFound,
		"no folder dialog program found; install zenity or kdialog, or set server.folder_picker")
}
