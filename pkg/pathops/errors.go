package pathops

import (
	stderrors "errors"
	"io/fs"
	"syscall"

	"github.com/grovetools/scaffolder/errors"
)

// Normalize maps an OS error for path onto the filesystem error codes.
// Errors that already carry a code are returned unchanged.
func Normalize(err error, path string) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return err
	}

	var se *errors.ScaffoldError
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		se = errors.FileNotFound(path)
	case stderrors.Is(err, syscall.EISDIR):
		se = errors.FileIsADirectory(path)
	case stderrors.Is(err, fs.ErrExist):
		se = errors.FileExists(path)
	case stderrors.Is(err, fs.ErrPermission), stderrors.Is(err, syscall.EPERM), stderrors.Is(err, syscall.EACCES):
		se = errors.NoPermissions(path)
	default:
		return errors.Wrap(err, errors.ErrCodeUnknown, err.Error()).WithDetail("path", path)
	}
	se.Cause = err
	return se
}
