package cli

import (
	"fmt"
	"io"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/tui/theme"
)

// ErrorHandler turns coded errors into messages with a hint for the user.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to out.
func NewErrorHandler(out io.Writer, verbose bool) *ErrorHandler {
	return &ErrorHandler{Verbose: verbose, Out: out}
}

// Handle reports err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	t := theme.DefaultTheme
	fmt.Fprintf(h.Out, "%s %v\n", t.Error.Render(theme.IconError), err)

	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(h.Out, t.Muted.Render(hint))
	}
	if h.Verbose {
		if se, ok := errors.As(err); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", se.ToJSON())
		}
	}
	return err
}

func hintFor(err error) string {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigMissing:
		return "Create a scaffolder.yml, or run 'scaffolder config schema' to see the available settings."
	case errors.ErrCodeConfigInvalid:
		return "Check the file against 'scaffolder config schema'."
	case errors.ErrCodeAlreadyExists:
		if se, ok := errors.As(err); ok {
			if addr, ok := se.Details["addr"]; ok {
				return fmt.Sprintf("A panel host is already serving at %v.", addr)
			}
		}
		return ""
	case errors.ErrCodePermissionDenied:
		return "Check the permissions of the path above."
	default:
		return ""
	}
}
