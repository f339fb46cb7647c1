package cmd

import (
	"fmt"

	"github.com/grovetools/scaffolder/command"
	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/internal/pidfile"
	"github.com/grovetools/scaffolder/pkg/paths"
	"github.com/spf13/cobra"
)

// panelAliases maps the short names accepted by `open` to documents.
var panelAliases = map[string]string{
	"create": DocCreateProject,
	"config": DocProjectConfig,
}

// NewOpenCmd creates the `open` command.
func NewOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "open <create|config>",
		Short:     "Open a panel of the running panel host in the browser",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"create", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, ok := panelAliases[args[0]]
			if !ok {
				return errors.ValidationFailed(fmt.Sprintf("unknown panel %q: use create or config", args[0]))
			}
			rec, running, err := pidfile.Running(paths.PidFilePath())
			if err != nil {
				return err
			}
			if !running {
				return errors.New(errors.ErrCodeNotFound, "no panel host is running; start one with 'scaffolder serve'")
			}
			url := rec.Addr + "/open/" + doc
			if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}
			return command.NewLauncher().OpenURL(url)
		},
	}
	cmd.Flags().Bool("print", false, "Print the URL instead of launching a browser")
	return cmd
}
