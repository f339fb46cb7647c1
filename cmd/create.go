package cmd

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/config"
	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/bridge"
	"github.com/grovetools/scaffolder/pkg/scaffold"
	"github.com/grovetools/scaffolder/state"
	"github.com/grovetools/scaffolder/util/pathutil"
	"github.com/spf13/cobra"
)

// consolePoster collects what the protocol would send to a panel.
type consolePoster struct {
	mu       sync.Mutex
	messages []bridge.Message
	errors   []string
}

func (c *consolePoster) PostMessage(msg interface{}) error {
	m, ok := msg.(bridge.Message)
	if !ok {
		return fmt.Errorf("unexpected message %T", msg)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	return nil
}

func (c *consolePoster) ShowError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msg)
}

// find returns the data of the last message with cmd.
func (c *consolePoster) find(cmd bridge.Command) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Command == cmd {
			return c.messages[i].Data, true
		}
	}
	return nil, false
}

// newConsoleRouter returns a router running the scaffolding protocol against
// a console poster, the way a panel session would.
func newConsoleRouter(cfg *config.Config) (*bridge.Router, *consolePoster) {
	protocol := bridge.NewProtocol(cfg.AssetsDir, cfg.Workspace, scaffold.NewGenerator(newTree(cfg)))
	protocol.State = state.Default()

	poster := &consolePoster{}
	router := bridge.NewRouter()
	router.Attach(poster)
	protocol.Register(router)
	return router, poster
}

// NewCreateCmd creates the `create` command.
func NewCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project without opening a panel",
		Long: `Runs the same checks and layout as the Create Project panel.

Examples:
  scaffolder create shop --type angular --path ~/src --version 1.0.0
  scaffolder create site --type react --path . --template starter
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			req := scaffold.ProjectConfig{Name: args[0]}
			req.ProjectType, _ = cmd.Flags().GetString("type")
			req.Version, _ = cmd.Flags().GetString("version")
			req.Description, _ = cmd.Flags().GetString("description")
			req.Template, _ = cmd.Flags().GetString("template")
			storage, _ := cmd.Flags().GetString("path")
			if storage != "" {
				if storage, err = pathutil.Abs(storage, ""); err != nil {
					return err
				}
			}
			req.StoragePath = storage

			payload, err := json.Marshal(req)
			if err != nil {
				return err
			}
			router, poster := newConsoleRouter(cfg)
			if _, err := router.Dispatch(cmd.Context(), bridge.CommandCreateProject, payload); err != nil {
				return err
			}
			if len(poster.errors) > 0 {
				return errors.ValidationFailed(poster.errors[0])
			}

			raw, ok := poster.find(bridge.CommandCreated)
			if !ok {
				return errors.New(errors.ErrCodeUnknown, "project was not created")
			}
			var created bridge.CreatedData
			if err := json.Unmarshal(raw, &created); err != nil {
				return err
			}
			if cli.GetOptions(cmd).JSONOutput {
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			logging.NewConsole(cmd.OutOrStdout()).ProjectCreated(created.Name, req.ProjectType, created.Path)
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", "", "Project type: angular, react, vue, nodejs")
	cmd.Flags().StringP("path", "p", "", "Folder the project is created in")
	cmd.Flags().String("version", "", "Project version (semantic version)")
	cmd.Flags().String("description", "", "Project description")
	cmd.Flags().String("template", "", "Template folder under <tmplPath>/<type>")
	return cmd
}

// NewTemplatesCmd creates the `templates` command.
func NewTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates <type>",
		Short: "List the templates available for a project type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			payload, err := json.Marshal(args[0])
			if err != nil {
				return err
			}
			router, poster := newConsoleRouter(cfg)
			if _, err := router.Dispatch(cmd.Context(), bridge.CommandProjectType, payload); err != nil {
				return err
			}
			if len(poster.errors) > 0 {
				return errors.New(errors.ErrCodeConfigInvalid, poster.errors[0])
			}

			var tmpls []string
			if raw, ok := poster.find(bridge.CommandTmpls); ok {
				if err := json.Unmarshal(raw, &tmpls); err != nil {
					return err
				}
			}
			if cli.GetOptions(cmd).JSONOutput {
				if tmpls == nil {
					tmpls = []string{}
				}
				data, _ := json.Marshal(tmpls)
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			for _, t := range tmpls {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
