package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// CreateProjectScenario creates a project from a template and checks the result.
func CreateProjectScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "scaffolder-create-project",
		Description: "Creates a react project from a template without the panel.",
		Tags:        []string{"create"},
		Steps: []harness.Step{
			harness.NewStep("Setup workspace", setupWorkspace),
			harness.NewStep("Create the project", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				dest := filepath.Join(ctx.RootDir, "projects")
				if err := os.MkdirAll(dest, 0755); err != nil {
					return err
				}
				cmd := ctx.Command(bin, "create", "shop",
					"--type", "react", "--template", "basic",
					"--path", dest, "--version", "2.1",
					"--config", ctx.GetString("config"), "--json")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`scaffolder create` failed: %w", result.Error)
				}

				var created struct {
					Name string `json:"name"`
					Path string `json:"path"`
				}
				if err := json.Unmarshal([]byte(result.Stdout), &created); err != nil {
					return err
				}
				if err := assert.Equal(filepath.Join(dest, "shop"), created.Path, "created path"); err != nil {
					return err
				}
				ctx.Set("project", created.Path)
				return nil
			}),
			harness.NewStep("Verify the project layout", func(ctx *harness.Context) error {
				project := ctx.GetString("project")
				if _, err := os.Stat(filepath.Join(project, "index.js")); err != nil {
					return fmt.Errorf("template file was not copied: %w", err)
				}
				manifest, err := os.ReadFile(filepath.Join(project, "package.json"))
				if err != nil {
					return err
				}
				return assert.Contains(string(manifest), `"version": "2.1.0"`, "version should be normalized")
			}),
			harness.NewStep("Classify the new project", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "classify", ctx.GetString("project"), "--json").Run()
				if result.Error != nil {
					return fmt.Errorf("`scaffolder classify` failed: %w", result.Error)
				}
				return assert.Contains(result.Stdout, `"react"`, "created project should classify as react")
			}),
			harness.NewStep("Creating it again fails", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "create", "shop", "--type", "react",
					"--path", filepath.Dir(ctx.GetString("project")),
					"--config", ctx.GetString("config")).Run()
				return assert.Equal(1, result.ExitCode, "an existing project folder should be rejected")
			}),
		},
	}
}

// CreateProjectRejectedScenario checks the verification messages.
func CreateProjectRejectedScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "scaffolder-create-rejected",
		Tags: []string{"create", "errors"},
		Steps: []harness.Step{
			harness.NewStep("Setup workspace", setupWorkspace),
			harness.NewStep("Missing project type", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "create", "shop", "--path", ctx.RootDir, "--config", ctx.GetString("config")).Run()
				if err := assert.Equal(1, result.ExitCode, "create without a type should fail"); err != nil {
					return err
				}
				return assert.Contains(result.Stderr, "Project type cannot be empty!", "verification message")
			}),
			harness.NewStep("Invalid version", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "create", "shop", "--type", "vue", "--version", "one",
					"--path", ctx.RootDir, "--config", ctx.GetString("config")).Run()
				if err := assert.Equal(1, result.ExitCode, "a non-semantic version should fail"); err != nil {
					return err
				}
				return assert.Contains(result.Stderr, "semantic version", "version message")
			}),
		},
	}
}

// TemplatesScenario lists the templates of a project type.
func TemplatesScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "scaffolder-templates",
		Tags: []string{"create"},
		Steps: []harness.Step{
			harness.NewStep("Setup workspace", setupWorkspace),
			harness.NewStep("List react templates", func(ctx *harness.Context) error {
				bin, err := findBinary()
				if err != nil {
					return err
				}
				result := ctx.Command(bin, "templates", "react", "--json", "--config", ctx.GetString("config")).Run()
				if result.Error != nil {
					return fmt.Errorf("`scaffolder templates` failed: %w", result.Error)
				}
				var tmpls []string
				if err := json.Unmarshal([]byte(result.Stdout), &tmpls); err != nil {
					return err
				}
				return assert.Equal(2, len(tmpls), "basic and router templates")
			}),
		},
	}
}
