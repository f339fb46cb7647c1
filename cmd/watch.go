package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/pkg/vtree"
	"github.com/grovetools/scaffolder/tui/theme"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the `watch` command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Print filesystem changes below a directory",
		Long: `Prints one line per created, changed or deleted path until interrupted.
The directory defaults to the workspace folder. Flags override the watch
section of the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			root := cfg.Workspace
			if len(args) == 1 {
				if root, err = filepath.Abs(args[0]); err != nil {
					return err
				}
			}

			opts := vtree.WatchOptions{Recursive: cfg.Watch.Recursive, Excludes: cfg.Watch.Excludes}
			if cmd.Flags().Changed("recursive") {
				opts.Recursive, _ = cmd.Flags().GetBool("recursive")
			}
			if excludes, _ := cmd.Flags().GetStringSlice("exclude"); len(excludes) > 0 {
				opts.Excludes = excludes
			}

			w, err := newTree(cfg).Watch(root, opts)
			if err != nil {
				return err
			}
			defer w.Close()
			events := w.Subscribe()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			jsonOut := cli.GetOptions(cmd).JSONOutput
			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					if jsonOut {
						data, err := json.Marshal(ev)
						if err != nil {
							return err
						}
						fmt.Fprintln(out, string(data))
						continue
					}
					fmt.Fprintf(out, "%s %s\n", changeStyle(ev.Type).Render(fmt.Sprintf("%-7s", ev.Type)), ev.Path)
				}
			}
		},
	}
	cmd.Flags().BoolP("recursive", "r", false, "Watch subdirectories too")
	cmd.Flags().StringSlice("exclude", nil, "Patterns relative to the directory whose events are dropped")
	return cmd
}

func changeStyle(c vtree.ChangeType) lipgloss.Style {
	t := theme.DefaultTheme
	switch c {
	case vtree.Created:
		return t.Success
	case vtree.Deleted:
		return t.Error
	default:
		return t.Warning
	}
}
