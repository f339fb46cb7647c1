package main

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// TreeScenario lists the workspace top level and a directory.
func TreeScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "scaffolder-tree",
		Description: "Lists the workspace folder among its siblings and classifies projects.",
		Tags:        []string{"tree"},
		Steps: []harness.Step{
			harness.NewStep("Setup workspace", setupWorkspace),
			harness.NewStep("Top level lists the workspace parent", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "tree", "--json", "--config", ctx.GetString("config")).Run()
				if result.Error != nil {
					return fmt.Errorf("`scaffolder tree` failed: %w", result.Error)
				}
				var nodes []struct {
					Label       string `json:"label"`
					Collapsible bool   `json:"collapsible"`
				}
				if err := json.Unmarshal([]byte(result.Stdout), &nodes); err != nil {
					return err
				}
				for _, n := range nodes {
					if n.Label == "ws" {
						return assert.Equal(true, n.Collapsible, "workspace folder should be collapsible")
					}
				}
				return fmt.Errorf("workspace folder missing from top level: %+v", nodes)
			}),
			harness.NewStep("Directories are tagged with their project type", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				cmd := ctx.Command(bin, "tree", ctx.GetString("ws"), "--config", ctx.GetString("config"))
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`scaffolder tree ws` failed: %w", result.Error)
				}
				if err := assert.Contains(result.Stdout, "app", "app should be listed"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "react", "app should be tagged react")
			}),
		},
	}
}

// RenderScenario renders a panel document with explicit asset base and CSP source.
func RenderScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "scaffolder-render",
		Tags: []string{"render"},
		Steps: []harness.Step{
			harness.NewStep("Setup workspace", setupWorkspace),
			harness.NewStep("Render page.html", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "render", "page.html",
					"--base", "http://127.0.0.1:7788/panels/p-1/resources",
					"--csp-source", "http://127.0.0.1:7788",
					"--config", ctx.GetString("config")).Run()
				if result.Error != nil {
					return fmt.Errorf("`scaffolder render` failed: %w", result.Error)
				}
				if err := assert.Contains(result.Stdout, `<meta content="http://127.0.0.1:7788">`, "CSP source"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "http://127.0.0.1:7788/panels/p-1/resources/js/app.js", "asset URI")
			}),
		},
	}
}
