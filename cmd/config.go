package cmd

import (
	"fmt"

	"github.com/grovetools/scaffolder/cli"
	"github.com/grovetools/scaffolder/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the `config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the scaffolder configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration after merging the global file
(~/.config/scaffolder/scaffolder.yml) with the project file found by walking
up from the current directory, with defaults applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Dump()
			if err != nil {
				return err
			}
			if cfg.Path() != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# Source: %s\n", cfg.Path())
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of scaffolder.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Path() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "(defaults)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
			return nil
		},
	})
	return cmd
}
