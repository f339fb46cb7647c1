package cli

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/scaffolder/version"
	"github.com/spf13/cobra"
)

// NewVersionCommand prints the build information, as JSON with --json.
func NewVersionCommand(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Print the version of %s", name),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()
			if GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s\n", name, info.Version, info.String())
			return nil
		},
	}
}
