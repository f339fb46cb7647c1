package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/internal/pidfile"
	"github.com/grovetools/scaffolder/pkg/paths"
	"github.com/grovetools/scaffolder/tui/components"
	"github.com/spf13/cobra"
)

// StatusOutput is the --json form of `status`.
type StatusOutput struct {
	Running   bool   `json:"running"`
	PID       int    `json:"pid,omitempty"`
	Addr      string `json:"addr,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
	PidFile   string `json:"pid_file"`
}

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a panel host is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := paths.PidFilePath()
			rec, running, err := pidfile.Running(path)
			if err != nil {
				return err
			}
			out := StatusOutput{Running: running, PidFile: path}
			if running {
				out.PID, out.Addr = rec.PID, rec.Addr
				out.StartedAt = rec.StartedAt.Format("2006-01-02 15:04:05")
			}

			w := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}
			if !running {
				fmt.Fprintln(w, components.RenderMessage("info", "no panel host running"))
				return nil
			}
			fmt.Fprintln(w, components.RenderMessage("success", "panel host running"))
			fmt.Fprintln(w, "  "+components.RenderKeyValue("addr", out.Addr))
			fmt.Fprintln(w, "  "+components.RenderKeyValue("pid", fmt.Sprint(out.PID)))
			fmt.Fprintln(w, "  "+components.RenderKeyValue("since", out.StartedAt))
			return nil
		},
	}
}
