package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/bridge"
	"github.com/grovetools/scaffolder/pkg/paths"
	"github.com/grovetools/scaffolder/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	base   string
	ws     string
	assets string
	config string
}

// newFixture lays out <tmp>/ws with a react app and a readme, an assets
// folder with one react template, and a scaffolder.yml pointing at both.
func newFixture(t *testing.T) fixture {
	t.Helper()
	testutil.Isolate(t)

	base := t.TempDir()
	f := fixture{
		base:   base,
		ws:     filepath.Join(base, "ws"),
		assets: filepath.Join(base, "public"),
		config: filepath.Join(base, "scaffolder.yml"),
	}
	testutil.WriteFiles(t, base, map[string]string{
		"ws/app/package.json":                      `{"dependencies":{"react":"18"}}`,
		"ws/readme.md":                             "hello",
		"public/config/project.json":               `{"projectTypes":["react","vue"],"tmplPath":"templates"}`,
		"public/templates/react/basic/index.html":  "<div id=root></div>",
		"public/templates/react/router/index.html": "<div id=app></div>",
		"public/webview/page.html":                 `<meta content="{{webview.cspSource}}">` + "\n" + `<script src="{{js/app.js}}"></script>`,
		"public/webview/js/app.js":                 "",
		"scaffolder.yml":                           "version: \"1.0\"\nworkspace: ws\nassets_dir: public\n",
	})
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTreeJSON(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "tree", f.ws, "--json", "--config", f.config)
	require.NoError(t, err)

	var nodes []TreeNode
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 2)

	assert.Equal(t, "app", nodes[0].Label)
	assert.True(t, nodes[0].Collapsible)
	assert.Equal(t, filepath.Join(f.assets, "images", "react.svg"), nodes[0].IconPath)

	assert.Equal(t, "readme.md", nodes[1].Label)
	require.NotNil(t, nodes[1].Command)
	assert.Equal(t, []string{filepath.Join(f.ws, "readme.md")}, nodes[1].Command.Arguments)
}

func TestTreeDepth(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "tree", f.ws, "--depth", "2", "--json", "--config", f.config)
	require.NoError(t, err)

	var nodes []TreeNode
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.NotEmpty(t, nodes)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "package.json", nodes[0].Children[0].Label)
}

func TestTreeText(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "tree", f.ws, "--config", f.config)
	require.NoError(t, err)
	assert.Contains(t, out, "app")
	assert.Contains(t, out, "react")
	assert.Contains(t, out, "readme.md")
}

func TestClassify(t *testing.T) {
	f := newFixture(t)
	app := filepath.Join(f.ws, "app")
	out, err := run(t, "classify", app, f.ws, "--json")
	require.NoError(t, err)

	var results map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, "react", results[app])
	assert.Equal(t, "", results[f.ws])
}

func TestProjectType(t *testing.T) {
	assert.Equal(t, "vue", projectType("/a/images/vue.svg"))
	assert.Equal(t, "", projectType(""))
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	dest := t.TempDir()
	out, err := run(t, "create", "shop", "--type", "react", "--path", dest, "--template", "basic", "--version", "v1.2", "--json", "--config", f.config)
	require.NoError(t, err)

	var created bridge.CreatedData
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &created))
	assert.Equal(t, "shop", created.Name)
	assert.Equal(t, filepath.Join(dest, "shop"), created.Path)

	assert.FileExists(t, filepath.Join(dest, "shop", "index.html"))
	manifest, err := os.ReadFile(filepath.Join(dest, "shop", "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"version": "1.2.0"`)
}

func TestCreateRejected(t *testing.T) {
	f := newFixture(t)
	_, err := run(t, "create", "shop", "--path", t.TempDir(), "--config", f.config)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
	assert.Contains(t, err.Error(), "Project type cannot be empty!")
}

func TestCreateExisting(t *testing.T) {
	f := newFixture(t)
	dest := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dest, "shop"), 0755))
	_, err := run(t, "create", "shop", "--type", "vue", "--path", dest, "--config", f.config)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAlreadyExists))
}

func TestTemplates(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "templates", "react", "--json", "--config", f.config)
	require.NoError(t, err)

	var tmpls []string
	require.NoError(t, json.Unmarshal([]byte(out), &tmpls))
	assert.Equal(t, []string{"basic", "router"}, tmpls)

	out, err = run(t, "templates", "vue", "--json", "--config", f.config)
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "render", "page.html", "--base", "http://h/r", "--csp-source", "http://h", "--config", f.config)
	require.NoError(t, err)
	assert.Contains(t, out, `<meta content="http://h">`)
	assert.Contains(t, out, `<script src="http://h/r/js/app.js"></script>`)
}

func TestRenderMissingAsset(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.assets, "webview", "js", "app.js")))
	_, err := run(t, "render", "page.html", "--config", f.config)
	assert.Error(t, err)
}

func TestConfigShowAndPath(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "config", "show", "--config", f.config)
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: "+f.config)
	assert.Contains(t, out, "addr: 127.0.0.1:7788")

	out, err = run(t, "config", "path", "--config", f.config)
	require.NoError(t, err)
	assert.Equal(t, f.config+"\n", out)
}

func TestConfigSchema(t *testing.T) {
	out, err := run(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "assets_dir")
}

func TestPathsJSON(t *testing.T) {
	newFixture(t)
	home := os.Getenv("SCAFFOLDER_HOME")
	out, err := run(t, "paths", "--json")
	require.NoError(t, err)

	var p PathsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.True(t, strings.HasPrefix(p.ConfigDir, home))
	assert.True(t, strings.HasPrefix(p.PidFile, home))
}

func TestStatusNotRunning(t *testing.T) {
	newFixture(t)
	out, err := run(t, "status", "--json")
	require.NoError(t, err)

	var s StatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.False(t, s.Running)
	assert.NotEmpty(t, s.PidFile)
}

func TestOpenWithoutHost(t *testing.T) {
	newFixture(t)
	_, err := run(t, "open", "create", "--print")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestLogsTail(t *testing.T) {
	f := newFixture(t)
	logDir := paths.LogDir()
	require.NoError(t, os.MkdirAll(logDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "webhost-2026-01-02.log"), []byte("one\ntwo\nthree\n"), 0644))

	out, err := run(t, "logs", "--tail", "2", "--json", "--config", f.config)
	require.NoError(t, err)
	assert.Equal(t, "two\nthree\n", out)
}

func TestLastN(t *testing.T) {
	lines := []string{"a", "b", "c"}
	assert.Equal(t, lines, lastN(lines, -1))
	assert.Equal(t, []string{"c"}, lastN(lines, 1))
	assert.Equal(t, lines, lastN(lines, 5))
}
