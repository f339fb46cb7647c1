package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/pkg/logging/logutil"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/paths"
	"github.com/grovetools/scaffolder/tui/components/logviewer"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the files written by the file log sink",
		Long: `Prints the newest log file of every component. The file sink is enabled
with logging.file.enabled in scaffolder.yml.

Examples:
  # Last 50 lines of the webhost log
  scaffolder logs --component webhost --tail 50

  # Follow every component
  scaffolder logs -f
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			component, _ := cmd.Flags().GetString("component")
			follow, _ := cmd.Flags().GetBool("follow")
			n, _ := cmd.Flags().GetInt("tail")
			raw := cli.GetOptions(cmd).JSONOutput

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			latest, err := logutil.FilesFor(cfg, component)
			if err != nil {
				return err
			}
			if len(latest) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no log files in "+paths.LogDir())
				return nil
			}
			components := make([]string, 0, len(latest))
			for c := range latest {
				components = append(components, c)
			}
			sort.Strings(components)

			out := cmd.OutOrStdout()
			emit := func(source, line string) {
				if raw {
					fmt.Fprintln(out, line)
					return
				}
				fmt.Fprintln(out, logviewer.FormatLine(source, line))
			}

			if !follow {
				for _, c := range components {
					lines, err := pathops.ReadLinesSync(cmd.Context(), latest[c])
					if err != nil {
						return err
					}
					for _, line := range lastN(lines, n) {
						emit(c, line)
					}
				}
				return nil
			}
			return followLogs(cmd, latest, components, emit)
		},
	}
	cmd.Flags().String("component", "", "Only show this component")
	cmd.Flags().BoolP("follow", "f", false, "Keep printing new lines")
	cmd.Flags().Int("tail", -1, "Number of lines to show per file (default: all)")
	return cmd
}

func lastN(lines []string, n int) []string {
	if n < 0 || n >= len(lines) {
		return lines
	}
	return lines[len(lines)-n:]
}

type tailedLine struct {
	source string
	text   string
}

func followLogs(cmd *cobra.Command, files map[string]string, order []string, emit func(source, line string)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines := make(chan tailedLine, 100)
	var tails []*tail.Tail
	defer func() {
		for _, t := range tails {
			_ = t.Stop()
		}
	}()
	for _, source := range order {
		t, err := tail.TailFile(files[source], tail.Config{
			Follow:   true,
			ReOpen:   true,
			Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
			Logger:   tail.DiscardingLogger,
		})
		if err != nil {
			return pathops.Normalize(err, files[source])
		}
		tails = append(tails, t)
		go func(source string, t *tail.Tail) {
			for line := range t.Lines {
				select {
				case lines <- tailedLine{source: source, text: strings.TrimSuffix(line.Text, "\r")}:
				case <-ctx.Done():
					return
				}
			}
		}(source, t)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case l := <-lines:
			emit(l.source, l.text)
		}
	}
}
