package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/command"
	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/logging/logutil"
	"github.com/grovetools/scaffolder/pkg/vtree"
	"github.com/grovetools/scaffolder/tui"
	"github.com/grovetools/scaffolder/tui/components/explorer"
	"github.com/grovetools/scaffolder/tui/components/logviewer"
	"github.com/grovetools/scaffolder/tui/keymap"
	"github.com/spf13/cobra"
)

// NewExploreCmd creates the `explore` command.
func NewExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the workspace in a terminal file explorer",
		Long: `Opens an interactive tree of the workspace folder and its siblings.
Files open in the surrounding Neovim when $NVIM is set, otherwise in $VISUAL
or $EDITOR. Press ? for keybindings and L for the log pane.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd, "explore")
			if !tui.IsInteractive() {
				return errors.New(errors.ErrCodeValidation, "explore needs an interactive terminal")
			}
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			tui.InitializeTUI()

			tree := newTree(cfg)
			var changes <-chan vtree.ChangeEvent
			if noWatch, _ := cmd.Flags().GetBool("no-watch"); !noWatch && cfg.Workspace != "" {
				w, err := tree.Watch(cfg.Workspace, vtree.WatchOptions{Recursive: true, Excludes: cfg.Watch.Excludes})
				if err != nil {
					logger.WithError(err).Warn("Watching disabled")
				} else {
					defer w.Close()
					changes = w.Subscribe()
				}
			}

			logFiles, err := logutil.FilesFor(cfg, "")
			if err != nil {
				logger.WithError(err).Debug("No log files for the log pane")
			}

			model := explorer.New(explorer.Config{
				Tree:     tree,
				Keys:     keymap.Load(cfg),
				Opener:   explorer.DefaultOpener(command.NewLauncher()),
				Changes:  changes,
				LogFiles: logFiles,
			})
			program := tea.NewProgram(model, tea.WithAltScreen())

			// Log output goes to the log pane while the program owns the terminal.
			restore := logging.RedirectOutput(logviewer.NewStreamWriter(program, ""))
			defer restore()

			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().Bool("no-watch", false, "Do not reload listings on filesystem changes")
	return cmd
}
