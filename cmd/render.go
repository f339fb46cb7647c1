package cmd

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/render"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the `render` command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a panel document to stdout",
		Long: `Fills the {{...}} placeholders of a panel document the way the panel host
does. A bare name is looked up in <assets>/webview. Asset tokens resolve to
file:// URIs below that directory unless --base is given.

Examples:
  scaffolder render create_project.html
  scaffolder render ./page.html --base http://127.0.0.1:7788/panels/p-1/resources
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			doc := args[0]
			root := filepath.Join(cfg.AssetsDir, "webview")
			if filepath.Base(doc) == doc && !pathops.ExistsSync(doc) {
				doc = filepath.Join(root, doc)
			} else {
				if doc, err = filepath.Abs(doc); err != nil {
					return err
				}
				root = filepath.Dir(doc)
			}

			base, _ := cmd.Flags().GetString("base")
			if base == "" {
				base = (&url.URL{Scheme: "file", Path: filepath.ToSlash(root)}).String()
			}
			csp, _ := cmd.Flags().GetString("csp-source")
			if csp == "" {
				csp = base
			}

			r := &render.Renderer{
				CSPSource: csp,
				Assets: render.AssetResolverFunc(func(rel string) (string, error) {
					if _, err := pathops.Stat(cmd.Context(), filepath.Join(root, filepath.FromSlash(rel))); err != nil {
						return "", err
					}
					return base + "/" + rel, nil
				}),
			}
			html, err := r.RenderFile(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
	cmd.Flags().String("base", "", "URI prefix for asset tokens")
	cmd.Flags().String("csp-source", "", "Value of {{webview.cspSource}} (default: the base)")
	return cmd
}
