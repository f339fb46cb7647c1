package main

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// ConfigGlobalMergeScenario verifies that the project config overrides the global one.
func ConfigGlobalMergeScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "scaffolder-config-global-merge",
		Description: "Verifies that global and project configs are merged with the project winning.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Write global and project configs", func(ctx *harness.Context) error {
				globalYAML := `version: "1.0"
collation: de
server:
  addr: 127.0.0.1:9911
tui:
  theme: terminal
`
				if err := fs.WriteString(filepath.Join(ctx.HomeDir(), ".config", "scaffolder", "scaffolder.yml"), globalYAML); err != nil {
					return err
				}
				projectDir := filepath.Join(ctx.RootDir, "merge-project")
				projectYAML := `version: "1.0"
name: merge-project
server:
  addr: 127.0.0.1:7000
`
				ctx.Set("projectDir", projectDir)
				return fs.WriteString(filepath.Join(projectDir, "scaffolder.yml"), projectYAML)
			}),
			harness.NewStep("Show the merged config", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				cmd := ctx.Command(bin, "config", "show").Dir(ctx.GetString("projectDir"))
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`scaffolder config show` failed: %w", result.Error)
				}
				if err := assert.Contains(result.Stdout, "name: merge-project", "project name should be used"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "addr: 127.0.0.1:7000", "project server section should win"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "collation: de", "global collation should survive"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "theme: terminal", "global tui section should survive")
			}),
		},
	}
}

// ConfigMissingScenario verifies the error and hint for a missing --config file.
func ConfigMissingScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "scaffolder-config-missing",
		Tags: []string{"config", "errors"},
		Steps: []harness.Step{
			harness.NewStep("Point --config at a missing file", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "config", "show", "--config", filepath.Join(ctx.RootDir, "nope.yml")).Run()
				if err := assert.Equal(1, result.ExitCode, "missing config should fail"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stderr, "configuration file not found", "error should name the problem"); err != nil {
					return err
				}
				return assert.Contains(result.Stderr, "scaffolder config schema", "hint should point at the schema")
			}),
		},
	}
}
