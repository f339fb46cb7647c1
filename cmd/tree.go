package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/config"
	"github.com/grovetools/scaffolder/pkg/profiling"
	"github.com/grovetools/scaffolder/pkg/vtree"
	"github.com/grovetools/scaffolder/tui/components/table"
	"github.com/grovetools/scaffolder/tui/theme"
	"github.com/spf13/cobra"
)

// TreeNode is the --json form of one `tree` entry.
type TreeNode struct {
	vtree.Item
	Children []TreeNode `json:"children,omitempty"`
}

// NewTreeCmd creates the `tree` command.
func NewTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "List the workspace folder and its siblings, or a directory",
		Long: `Lists entries the way the explorer shows them: directories first, then
files, ordered by the configured collation. Directories holding a package.json
are tagged with their project type.

Examples:
  # Top level: the workspace folder next to its siblings
  scaffolder tree

  # Two levels below a directory, as JSON
  scaffolder tree ./apps --depth 2 --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			depth, _ := cmd.Flags().GetInt("depth")
			if depth < 1 {
				depth = 1
			}

			var start *vtree.Entry
			if len(args) == 1 {
				dir, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				start = &vtree.Entry{Path: dir, Kind: vtree.Directory}
			}

			tree := newTree(cfg)
			nodes, err := collect(cmd.Context(), tree, start, depth)
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(nodes, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printNodes(cmd.OutOrStdout(), nodes, 0, tree.WorkspaceRoot())
			return nil
		},
	}
	cmd.Flags().IntP("depth", "d", 1, "Number of levels to expand")
	return cmd
}

// NewClassifyCmd creates the `classify` command.
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <dir>...",
		Short: "Report the project type of directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make(map[string]string, len(args))
			for _, arg := range args {
				dir, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				pt, _ := vtree.Classify(dir)
				results[arg] = string(pt)
			}

			w := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				pt := results[arg]
				if pt == "" {
					rows = append(rows, []string{arg, theme.DefaultTheme.Muted.Render("unclassified")})
					continue
				}
				rows = append(rows, []string{arg, theme.ProjectTypeStyle(pt).Render(theme.ProjectTypeIcon(pt) + " " + pt)})
			}
			fmt.Fprintln(w, table.Render([]string{"DIR", "TYPE"}, rows))
			return nil
		},
	}
}

func newTree(cfg *config.Config) *vtree.Tree {
	return vtree.New(cfg.Workspace,
		vtree.WithResourceRoot(cfg.AssetsDir),
		vtree.WithCollation(cfg.Collation),
	)
}

func collect(ctx context.Context, tree *vtree.Tree, entry *vtree.Entry, depth int) ([]TreeNode, error) {
	name := "list " + tree.WorkspaceRoot()
	if entry != nil {
		name = "list " + entry.Path
	}
	defer profiling.Start(name).Stop()

	children, err := tree.GetChildren(ctx, entry)
	if err != nil {
		return nil, err
	}
	nodes := make([]TreeNode, 0, len(children))
	for _, child := range children {
		node := TreeNode{Item: tree.TreeItem(child)}
		if child.Kind == vtree.Directory && depth > 1 {
			child := child
			if node.Children, err = collect(ctx, tree, &child, depth-1); err != nil {
				return nil, err
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func printNodes(w io.Writer, nodes []TreeNode, level int, workspace string) {
	t := theme.DefaultTheme
	for _, n := range nodes {
		icon := theme.IconFile
		label := n.Label
		if n.Collapsible {
			icon = theme.IconFolder
			if pt := projectType(n.IconPath); pt != "" {
				icon = theme.ProjectTypeIcon(pt)
				label = theme.ProjectTypeStyle(pt).Render(label) + " " + t.Muted.Render(pt)
			}
		}
		if n.Path == workspace {
			label += " " + t.Accent.Render("(workspace)")
		}
		fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", level), icon, label)
		printNodes(w, n.Children, level+1, workspace)
	}
}

// projectType recovers the type from an images/<type>.svg icon path.
func projectType(iconPath string) string {
	if iconPath == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(iconPath), ".svg")
}
