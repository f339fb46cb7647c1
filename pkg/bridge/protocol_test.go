package bridge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/scaffold"
	"github.com/grovetools/scaffolder/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScaffolder struct {
	calls       []scaffold.ProjectConfig
	templateDir string
	path        string
	err         error
}

func (f *fakeScaffolder) Create(ctx context.Context, n scaffold.Notifier, cfg scaffold.ProjectConfig, templateDir string) (string, error) {
	f.calls = append(f.calls, cfg)
	f.templateDir = templateDir
	return f.path, f.err
}

type fakePicker struct {
	folder string
	start  string
	err    error
}

func (f *fakePicker) PickFolder(ctx context.Context, start string) (string, error) {
	f.start = start
	return f.folder, f.err
}

// setupAssets writes project.json and the given template directories.
func setupAssets(t *testing.T, projectJSON string, templates map[string][]string) string {
	t.Helper()
	assets := t.TempDir()
	if projectJSON != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(assets, "config"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(assets, "config", "project.json"), []byte(projectJSON), 0644))
	}
	for projectType, names := range templates {
		require.NoError(t, os.MkdirAll(filepath.Join(assets, "templates", projectType), 0755))
		for _, name := range names {
			require.NoError(t, os.MkdirAll(filepath.Join(assets, "templates", projectType, name), 0755))
		}
	}
	return assets
}

func newTestSession(p *Protocol) (*Router, *fakePoster) {
	r := NewRouter()
	poster := &fakePoster{}
	r.Attach(poster)
	p.Register(r)
	return r, poster
}

func TestProtocol_InitWithConfig(t *testing.T) {
	assets := setupAssets(t, `{"projectTypes":["react","vue"],"tmplPath":"templates"}`,
		map[string][]string{"react": {"basic", "redux"}})
	p := NewProtocol(assets, "/work/space", &fakeScaffolder{})
	r, poster := newTestSession(p)

	handled, err := r.Dispatch(context.Background(), CommandInit, nil)
	require.NoError(t, err)
	assert.True(t, handled)

	assert.Equal(t, []Command{CommandInit, CommandProjectType, CommandTmpls}, poster.commands())

	initMsg, _ := poster.find(CommandInit)
	var data InitData
	require.NoError(t, json.Unmarshal(initMsg.Data, &data))
	assert.Equal(t, "/work/space", data.ProjectPath)
	assert.Equal(t, []string{"react", "vue"}, data.ProjectTypes)

	typeMsg, _ := poster.find(CommandProjectType)
	assert.JSONEq(t, `"react"`, string(typeMsg.Data))

	tmplMsg, _ := poster.find(CommandTmpls)
	assert.JSONEq(t, `["basic","redux"]`, string(tmplMsg.Data))
	assert.Empty(t, poster.errors)
}

func TestProtocol_InitDefaultsWithoutTypes(t *testing.T) {
	assets := setupAssets(t, `{"tmplPath":"templates"}`, nil)
	p := NewProtocol(assets, "", &fakeScaffolder{})
	r, poster := newTestSession(p)

	_, err := r.Dispatch(context.Background(), CommandInit, nil)
	require.NoError(t, err)

	initMsg, _ := poster.find(CommandInit)
	var data InitData
	require.NoError(t, json.Unmarshal(initMsg.Data, &data))
	assert.Equal(t, DefaultProjectTypes, data.ProjectTypes)

	// templates/angular does not exist, so no tmpls and a visible error.
	_, ok := poster.find(CommandTmpls)
	assert.False(t, ok)
	assert.Len(t, poster.errors, 1)
}

func TestProtocol_InitMissingConfig(t *testing.T) {
	assets := setupAssets(t, "", nil)
	p := NewProtocol(assets, "/ws", &fakeScaffolder{})
	r, poster := newTestSession(p)

	_, err := r.Dispatch(context.Background(), CommandInit, nil)
	require.NoError(t, err)

	assert.Equal(t, []Command{CommandInit, CommandProjectType}, poster.commands())
	assert.Equal(t, []string{"config missing, configure basics first"}, poster.errors)
}

func TestProtocol_InitFallsBackToLastStoragePath(t *testing.T) {
	assets := setupAssets(t, `{"tmplPath":"templates"}`, nil)
	store := state.NewStore(filepath.Join(t.TempDir(), "state.yml"))
	require.NoError(t, store.Set(state.KeyLastStoragePath, "/previous"))

	p := NewProtocol(assets, "", &fakeScaffolder{})
	p.State = store
	r, poster := newTestSession(p)

	_, err := r.Dispatch(context.Background(), CommandInit, nil)
	require.NoError(t, err)

	initMsg, _ := poster.find(CommandInit)
	var data InitData
	require.NoError(t, json.Unmarshal(initMsg.Data, &data))
	assert.Equal(t, "/previous", data.ProjectPath)
}

func TestProtocol_ProjectType(t *testing.T) {
	assets := setupAssets(t, `{"tmplPath":"templates"}`,
		map[string][]string{"vue": {"vite", "cli"}, "react": {}})

	t.Run("with templates", func(t *testing.T) {
		r, poster := newTestSession(NewProtocol(assets, "", &fakeScaffolder{}))
		handled, err := r.Dispatch(context.Background(), CommandProjectType, json.RawMessage(`"vue"`))
		require.NoError(t, err)
		assert.True(t, handled)

		msg, ok := poster.find(CommandTmpls)
		require.True(t, ok)
		assert.JSONEq(t, `["cli","vite"]`, string(msg.Data))
	})

	t.Run("zero templates sends nothing", func(t *testing.T) {
		r, poster := newTestSession(NewProtocol(assets, "", &fakeScaffolder{}))
		_, err := r.Dispatch(context.Background(), CommandProjectType, json.RawMessage(`"react"`))
		require.NoError(t, err)
		assert.Empty(t, poster.messages)
		assert.Empty(t, poster.errors)
	})

	t.Run("missing directory shows error", func(t *testing.T) {
		r, poster := newTestSession(NewProtocol(assets, "", &fakeScaffolder{}))
		_, err := r.Dispatch(context.Background(), CommandProjectType, json.RawMessage(`"angular"`))
		require.NoError(t, err)
		assert.Empty(t, poster.messages)
		assert.Len(t, poster.errors, 1)
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		r, poster := newTestSession(NewProtocol(assets, "", &fakeScaffolder{}))
		_, err := r.Dispatch(context.Background(), CommandProjectType, json.RawMessage(`"../config"`))
		require.NoError(t, err)
		assert.Empty(t, poster.messages)
		assert.Len(t, poster.errors, 1)
	})

	t.Run("non-string payload", func(t *testing.T) {
		r, _ := newTestSession(NewProtocol(assets, "", &fakeScaffolder{}))
		_, err := r.Dispatch(context.Background(), CommandProjectType, json.RawMessage(`42`))
		assert.True(t, errors.Is(err, errors.ErrCodeValidation))
	})
}

func TestProtocol_TemplatesWithoutTmplPath(t *testing.T) {
	assets := setupAssets(t, `{"projectTypes":["vue"]}`, nil)
	p := NewProtocol(assets, "", &fakeScaffolder{})
	poster := &fakePoster{}

	tmpls := p.Templates(context.Background(), poster, "vue")
	assert.NotNil(t, tmpls)
	assert.Empty(t, tmpls)
	assert.Equal(t, []string{MsgTemplatePathMissing}, poster.errors)
}

func TestProtocol_TemplatesInvalidConfig(t *testing.T) {
	assets := setupAssets(t, `{"projectTypes":"vue"}`, nil)
	p := NewProtocol(assets, "", &fakeScaffolder{})
	poster := &fakePoster{}

	tmpls := p.Templates(context.Background(), poster, "vue")
	assert.Empty(t, tmpls)
	require.Len(t, poster.errors, 1)
	assert.Contains(t, poster.errors[0], "invalid project.json")
}

func TestProtocol_CreateProject(t *testing.T) {
	assets := setupAssets(t, `{"tmplPath":"templates"}`, map[string][]string{"react": {"basic"}})
	store := state.NewStore(filepath.Join(t.TempDir(), "state.yml"))

	t.Run("missing payload is a validation failure", func(t *testing.T) {
		sc := &fakeScaffolder{}
		r, _ := newTestSession(NewProtocol(assets, "", sc))
		for _, payload := range []json.RawMessage{nil, json.RawMessage(`null`)} {
			handled, err := r.Dispatch(context.Background(), CommandCreateProject, payload)
			assert.True(t, handled)
			assert.True(t, errors.Is(err, errors.ErrCodeValidation))
		}
		assert.Empty(t, sc.calls)
	})

	t.Run("forwards to scaffolder and remembers storage path", func(t *testing.T) {
		sc := &fakeScaffolder{path: "/projects/demo"}
		p := NewProtocol(assets, "", sc)
		p.State = store
		r, poster := newTestSession(p)

		_, err := r.Dispatch(context.Background(), CommandCreateProject,
			json.RawMessage(`{"name":"demo","storagePath":"/projects","projectType":"react","template":"basic"}`))
		require.NoError(t, err)

		require.Len(t, sc.calls, 1)
		assert.Equal(t, "demo", sc.calls[0].Name)
		assert.Equal(t, filepath.Join(assets, "templates", "react", "basic"), sc.templateDir)

		last, err := store.GetString(state.KeyLastStoragePath)
		require.NoError(t, err)
		assert.Equal(t, "/projects", last)

		msg, ok := poster.find(CommandCreated)
		require.True(t, ok)
		assert.JSONEq(t, `{"name":"demo","path":"/projects/demo"}`, string(msg.Data))
	})

	t.Run("rejected request posts nothing", func(t *testing.T) {
		sc := &fakeScaffolder{path: ""}
		r, poster := newTestSession(NewProtocol(assets, "", sc))

		_, err := r.Dispatch(context.Background(), CommandCreateProject, json.RawMessage(`{"name":""}`))
		require.NoError(t, err)
		assert.Len(t, sc.calls, 1)
		assert.Empty(t, poster.messages)
	})

	t.Run("scaffolder error propagates and reaches the panel", func(t *testing.T) {
		sc := &fakeScaffolder{err: errors.FileExists("/projects/demo")}
		r, poster := newTestSession(NewProtocol(assets, "", sc))

		_, err := r.Dispatch(context.Background(), CommandCreateProject,
			json.RawMessage(`{"name":"demo","storagePath":"/projects","projectType":"react"}`))
		assert.True(t, errors.Is(err, errors.ErrCodeAlreadyExists))
		assert.Equal(t, []string{"file already exists: /projects/demo"}, poster.errors)
	})
}

func TestProtocol_OpenFolderDialog(t *testing.T) {
	assets := setupAssets(t, `{"tmplPath":"templates"}`, nil)

	t.Run("without picker", func(t *testing.T) {
		r, poster := newTestSession(NewProtocol(assets, "/ws", &fakeScaffolder{}))
		handled, err := r.Dispatch(context.Background(), CommandOpenFolderDialog, nil)
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Empty(t, poster.messages)
	})

	t.Run("with picker", func(t *testing.T) {
		p := NewProtocol(assets, "/ws", &fakeScaffolder{})
		picker := &fakePicker{folder: "/chosen"}
		p.Picker = picker
		r, poster := newTestSession(p)

		_, err := r.Dispatch(context.Background(), CommandOpenFolderDialog, nil)
		require.NoError(t, err)
		assert.Equal(t, "/ws", picker.start)

		msg, ok := poster.find(CommandFolder)
		require.True(t, ok)
		assert.JSONEq(t, `"/chosen"`, string(msg.Data))
	})

	t.Run("cancelled picker", func(t *testing.T) {
		p := NewProtocol(assets, "/ws", &fakeScaffolder{})
		p.Picker = &fakePicker{}
		r, poster := newTestSession(p)

		_, err := r.Dispatch(context.Background(), CommandOpenFolderDialog, nil)
		require.NoError(t, err)
		assert.Empty(t, poster.messages)
	})

	t.Run("failing picker", func(t *testing.T) {
		p := NewProtocol(assets, "/ws", &fakeScaffolder{})
		p.Picker = &fakePicker{err: errors.New(errors.ErrCodeNotFound, "no folder dialog program found")}
		r, poster := newTestSession(p)

		_, err := r.Dispatch(context.Background(), CommandOpenFolderDialog, nil)
		require.Error(t, err)
		assert.Equal(t, []string{"no folder dialog program found"}, poster.errors)
	})
}

func TestProtocol_Config(t *testing.T) {
	assets := setupAssets(t, `{"projectTypes":["vue"],"tmplPath":"templates"}`, nil)
	p := NewProtocol(assets, "", &fakeScaffolder{})

	t.Run("get", func(t *testing.T) {
		r, poster := newTestSession(p)
		_, err := r.Dispatch(context.Background(), CommandGetConfig, nil)
		require.NoError(t, err)

		msg, ok := poster.find(CommandConfig)
		require.True(t, ok)
		assert.JSONEq(t, `{"projectTypes":["vue"],"tmplPath":"templates"}`, string(msg.Data))
	})

	t.Run("save", func(t *testing.T) {
		r, poster := newTestSession(p)
		_, err := r.Dispatch(context.Background(), CommandSaveConfig,
			json.RawMessage(`{"projectTypes":["react","vue"],"tmplPath":"tmpl"}`))
		require.NoError(t, err)

		_, ok := poster.find(CommandConfigSaved)
		assert.True(t, ok)

		cfg, err := LoadProjectsConfig(p.ConfigPath())
		require.NoError(t, err)
		assert.Equal(t, []string{"react", "vue"}, cfg.ProjectTypes)
		assert.Equal(t, "tmpl", cfg.TmplPath)
	})

	t.Run("save invalid leaves file unchanged", func(t *testing.T) {
		r, poster := newTestSession(p)
		before, err := os.ReadFile(p.ConfigPath())
		require.NoError(t, err)

		_, err = r.Dispatch(context.Background(), CommandSaveConfig, json.RawMessage(`{"projectTypes":[""]}`))
		require.NoError(t, err)
		assert.Len(t, poster.errors, 1)

		after, err := os.ReadFile(p.ConfigPath())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestSaveProjectsConfigRequiresExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	err := SaveProjectsConfig(path, []byte(`{}`))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigMissing))
	assert.NoFileExists(t, path)
}
