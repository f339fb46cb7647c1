// Package cmd holds the scaffolder subcommands.
package cmd

import (
	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/pkg/profiling"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the scaffolder command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"scaffolder",
		"Create projects from templates and browse the workspace",
	)
	root.Long = `Serves the project creation and configuration panels, creates projects
from the bundled templates, and lists the workspace as a classified tree.

Examples:
  # Start the panel host and open the create-project panel
  scaffolder serve

  # Create a project without the browser
  scaffolder create my-app --type react --template basic
`

	root.AddCommand(
		NewServeCmd(),
		NewOpenCmd(),
		NewStatusCmd(),
		NewCreateCmd(),
		NewTemplatesCmd(),
		NewTreeCmd(),
		NewClassifyCmd(),
		NewWatchCmd(),
		NewExploreCmd(),
		NewRenderCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		NewLogsCmd(),
		cli.NewVersionCommand("scaffolder"),
	)
	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(root)
	root.PersistentPreRunE = profiler.PreRun
	root.PersistentPostRun = profiler.PostRun

	cli.ApplyStyledHelpRecursive(root)
	return root
}
