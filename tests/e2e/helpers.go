package main

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

const binaryName = "scaffolder"

// findBinary locates the scaffolder binary under test on PATH.
func findBinary() (string, error) {
	path, err := exec.LookPath(binaryName)
	if err != nil {
		return "", fmt.Errorf("could not find '%s' binary in PATH; build it with 'go build -o bin/scaffolder ./cmd/scaffolder' and add bin to PATH", binaryName)
	}
	return path, nil
}

// setupWorkspace writes a workspace with one react app, an assets folder with
// a react template, and a scaffolder.yml tying them together. The paths are
// stored in ctx as "root", "ws", "assets" and "config".
func setupWorkspace(ctx *harness.Context) error {
	root := ctx.RootDir
	ws := filepath.Join(root, "ws")
	assets := filepath.Join(root, "public")

	files := map[string]string{
		filepath.Join(ws, "app", "package.json"):                          `{"dependencies":{"react":"18.2.0"}}`,
		filepath.Join(ws, "README.md"):                                    "# workspace\n",
		filepath.Join(assets, "config", "project.json"):                   `{"projectTypes":["react","vue"],"tmplPath":"templates"}`,
		filepath.Join(assets, "templates", "react", "basic", "index.js"):  "console.log('hi')\n",
		filepath.Join(assets, "templates", "react", "router", "index.js"): "console.log('routes')\n",
		filepath.Join(assets, "webview", "page.html"):                     "<meta content=\"{{webview.cspSource}}\">\n<script src=\"{{js/app.js}}\"></script>\n",
		filepath.Join(assets, "webview", "js", "app.js"):                  "",
		filepath.Join(root, "scaffolder.yml"):                             "version: \"1.0\"\nworkspace: ws\nassets_dir: public\n",
	}
	for path, content := range files {
		if err := fs.WriteString(path, content); err != nil {
			return err
		}
	}

	ctx.Set("root", root)
	ctx.Set("ws", ws)
	ctx.Set("assets", assets)
	ctx.Set("config", filepath.Join(root, "scaffolder.yml"))
	return nil
}
