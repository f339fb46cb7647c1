package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/command"
	"github.com/grovetools/scaffolder/config"
	"github.com/grovetools/scaffolder/internal/pidfile"
	"github.com/grovetools/scaffolder/internal/webhost"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/bridge"
	"github.com/grovetools/scaffolder/pkg/panel"
	"github.com/grovetools/scaffolder/pkg/paths"
	"github.com/grovetools/scaffolder/pkg/scaffold"
	"github.com/grovetools/scaffolder/pkg/vtree"
	"github.com/grovetools/scaffolder/state"
	"github.com/spf13/cobra"
)

// Panel documents shipped under <assets>/webview.
const (
	DocCreateProject = "create_project.html"
	DocProjectConfig = "project_config.html"
)

// PanelTitles are the titles of the shipped panel documents.
var PanelTitles = map[string]string{
	DocCreateProject: "Create Project",
	DocProjectConfig: "Project Configuration",
}

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the `serve` command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scaffolding panels to a browser",
		Long: `Starts the panel host. Panels are plain HTML documents from the assets
directory, rendered with a fresh nonce and resource URIs, and talk to the host
over a websocket.

Examples:
  # Serve and open the create-project panel
  scaffolder serve

  # Serve on a random port without launching a browser
  scaffolder serve --addr 127.0.0.1:0 --no-browser
`,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().String("open", "", "Panel document opened on start: create_project.html, project_config.html")
	cmd.Flags().Bool("no-browser", false, "Do not launch a browser")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd, "serve")

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if doc, _ := cmd.Flags().GetString("open"); doc != "" {
		cfg.Server.Open = doc
	}
	if noBrowser, _ := cmd.Flags().GetBool("no-browser"); noBrowser {
		cfg.Server.NoBrowser = true
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(cfg)
	if err := app.host.Listen(); err != nil {
		return err
	}
	origin := app.host.Origin()

	pidPath := paths.PidFilePath()
	if err := pidfile.Acquire(pidPath, origin); err != nil {
		_ = app.host.Shutdown(context.Background())
		return err
	}
	defer func() {
		if err := pidfile.Release(pidPath); err != nil {
			logger.WithError(err).Warn("Failed to remove pid file")
		}
	}()

	logging.NewConsole(cmd.OutOrStdout()).Serving(origin, cfg.Server.Open, pidPath)

	errCh := make(chan error, 1)
	go func() { errCh <- app.host.Serve() }()

	if cfg.Server.Open != "" {
		s, err := app.manager.CreateOrShow(ctx, PanelTitles[cfg.Server.Open], cfg.Server.Open)
		if err != nil {
			logger.WithError(err).Error("Failed to open startup panel")
		} else {
			s.Panel.Reveal()
		}
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.manager.DisposeAll()
	return app.host.Shutdown(shutdownCtx)
}

// app wires the panel host to the scaffolding protocol.
type app struct {
	tree    *vtree.Tree
	host    *webhost.Host
	manager *panel.Manager
}

func newApp(cfg *config.Config) *app {
	tree := vtree.New(cfg.Workspace,
		vtree.WithResourceRoot(cfg.AssetsDir),
		vtree.WithCollation(cfg.Collation),
	)

	protocol := bridge.NewProtocol(cfg.AssetsDir, cfg.Workspace, scaffold.NewGenerator(tree))
	protocol.Picker = command.NewFolderPicker(cfg.Server.FolderPicker)
	protocol.State = state.Default()

	opts := webhost.Options{
		Addr:            cfg.Server.Addr,
		Tree:            tree,
		Watch:           vtree.WatchOptions{Recursive: cfg.Watch.Recursive, Excludes: cfg.Watch.Excludes},
		Titles:          PanelTitles,
		DefaultDocument: cfg.Server.Open,
	}
	if !cfg.Server.NoBrowser {
		opts.Open = command.NewLauncher().OpenURL
	}
	host := webhost.New(opts)

	manager := panel.NewManager(host, cfg.AssetsDir, protocol)
	host.SetSessions(manager)
	return &app{tree: tree, host: host, manager: manager}
}
