package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/pkg/paths"
	"github.com/grovetools/scaffolder/tui/components/table"
	"github.com/spf13/cobra"
)

// PathsOutput lists the directories the scaffolder uses.
type PathsOutput struct {
	ConfigDir  string `json:"config_dir"`
	StateDir   string `json:"state_dir"`
	LogDir     string `json:"log_dir"`
	RuntimeDir string `json:"runtime_dir"`
	PidFile    string `json:"pid_file"`
}

// NewPathsCmd creates the `paths` command.
func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the directories used for configuration, state and logs",
		Long: `Prints the XDG directories used by the scaffolder. SCAFFOLDER_HOME
relocates all of them under one folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := PathsOutput{
				ConfigDir:  paths.ConfigDir(),
				StateDir:   paths.StateDir(),
				LogDir:     paths.LogDir(),
				RuntimeDir: paths.RuntimeDir(),
				PidFile:    paths.PidFilePath(),
			}
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.Render([]string{"NAME", "PATH"}, [][]string{
				{"config", out.ConfigDir},
				{"state", out.StateDir},
				{"logs", out.LogDir},
				{"runtime", out.RuntimeDir},
				{"pid file", out.PidFile},
			}))
			return nil
		},
	}
}
