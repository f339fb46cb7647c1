package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// VersionScenario tests the 'version' command.
func VersionScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "scaffolder-version",
		Tags: []string{"basic"},
		Steps: []harness.Step{
			harness.NewStep("Run 'scaffolder version'", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				cmd := ctx.Command(bin, "version")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if err := assert.Equal(0, result.ExitCode, "scaffolder version should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "Commit:", "Output should contain Commit"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "Build Date:", "Output should contain Build Date")
			}),
			harness.NewStep("Run 'scaffolder version --json'", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "version", "--json").Run()
				if result.Error != nil {
					return fmt.Errorf("`scaffolder version --json` failed: %w", result.Error)
				}
				var info map[string]string
				if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
					return fmt.Errorf("version output is not JSON: %w", err)
				}
				return assert.Contains(info["goVersion"], "go", "goVersion should be set")
			}),
		},
	}
}

// PathsScenario checks that every directory lands under the sandboxed home.
func PathsScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "scaffolder-paths",
		Description: "Verifies XDG path resolution inside the sandboxed HOME.",
		Tags:        []string{"basic", "paths"},
		Steps: []harness.Step{
			harness.NewStep("Run 'scaffolder paths --json'", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "paths", "--json").Run()
				if result.Error != nil {
					return fmt.Errorf("`scaffolder paths` failed: %w", result.Error)
				}
				var out map[string]string
				if err := json.Unmarshal([]byte(result.Stdout), &out); err != nil {
					return err
				}
				for _, key := range []string{"config_dir", "state_dir", "log_dir", "pid_file"} {
					if !strings.HasPrefix(out[key], ctx.HomeDir()) {
						return fmt.Errorf("%s = %q is outside the sandboxed home %q", key, out[key], ctx.HomeDir())
					}
				}
				return nil
			}),
		},
	}
}

// StatusScenario checks status when no panel host runs.
func StatusScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "scaffolder-status",
		Tags: []string{"basic", "serve"},
		Steps: []harness.Step{
			harness.NewStep("Status without a host", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "status", "--json").Run()
				if result.Error != nil {
					return fmt.Errorf("`scaffolder status` failed: %w", result.Error)
				}
				return assert.Contains(result.Stdout, `"running": false`, "no host should be running")
			}),
			harness.NewStep("Open without a host fails", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "open", "create", "--print").Run()
				if err := assert.Equal(1, result.ExitCode, "open should fail without a host"); err != nil {
					return err
				}
				return assert.Contains(result.Stderr, "no panel host is running", "error should explain the failure")
			}),
		},
	}
}
