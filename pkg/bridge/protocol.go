package bridge

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/scaffold"
	"github.com/grovetools/scaffolder/state"
	"github.com/sirupsen/logrus"
)

// MsgTemplatePathMissing is shown when project.json has no tmplPath.
const MsgTemplatePathMissing = "template path config missing"

// Scaffolder creates a project on disk from a createProject request. It
// returns the created path, or "" when the request was rejected and the
// rejection already shown through n.
type Scaffolder interface {
	Create(ctx context.Context, n scaffold.Notifier, cfg scaffold.ProjectConfig, templateDir string) (string, error)
}

// FolderPicker asks the user for a directory. An empty result means cancelled.
type FolderPicker interface {
	PickFolder(ctx context.Context, start string) (string, error)
}

// StateStore persists values between runs.
type StateStore interface {
	GetString(key string) (string, error)
	Set(key string, value interface{}) error
}

// Protocol holds the collaborators of the scaffolding handlers.
type Protocol struct {
	AssetsDir     string
	WorkspaceRoot string
	Scaffolder    Scaffolder
	Picker        FolderPicker
	State         StateStore
	logger        *logrus.Entry
}

// NewProtocol returns a protocol reading project.json below assetsDir.
func NewProtocol(assetsDir, workspaceRoot string, scaffolder Scaffolder) *Protocol {
	return &Protocol{
		AssetsDir:     assetsDir,
		WorkspaceRoot: workspaceRoot,
		Scaffolder:    scaffolder,
		logger:        logging.NewLogger("protocol"),
	}
}

// ConfigPath returns the location of project.json.
func (p *Protocol) ConfigPath() string {
	return filepath.Join(p.AssetsDir, "config", "project.json")
}

// Register installs every protocol handler on r.
func (p *Protocol) Register(r *Router) {
	r.RegisterHandler(CommandInit, p.handleInit)
	r.RegisterHandler(CommandProjectType, p.handleProjectType)
	r.RegisterHandler(CommandCreateProject, p.handleCreateProject)
	r.RegisterHandler(CommandOpenFolderDialog, p.handleOpenFolderDialog)
	r.RegisterHandler(CommandGetConfig, p.handleGetConfig)
	r.RegisterHandler(CommandSaveConfig, p.handleSaveConfig)
}

func (p *Protocol) handleInit(ctx context.Context, s Sender, _ json.RawMessage) error {
	types := DefaultProjectTypes
	cfg, err := LoadProjectsConfig(p.ConfigPath())
	if err != nil {
		s.ShowError(userMessage(err))
	} else if len(cfg.ProjectTypes) > 0 {
		types = cfg.ProjectTypes
	}

	if err := s.PostMessage(CommandInit, InitData{
		ProjectPath:  p.projectPath(),
		ProjectTypes: types,
	}); err != nil {
		return err
	}

	first := types[0]
	if err := s.PostMessage(CommandProjectType, first); err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}
	return p.sendTemplates(ctx, s, first)
}

func (p *Protocol) handleProjectType(ctx context.Context, s Sender, payload json.RawMessage) error {
	var projectType string
	if err := json.Unmarshal(payload, &projectType); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "projectType expects a string")
	}
	return p.sendTemplates(ctx, s, projectType)
}

func (p *Protocol) sendTemplates(ctx context.Context, s Sender, projectType string) error {
	tmpls := p.Templates(ctx, s, projectType)
	if len(tmpls) == 0 {
		return nil
	}
	return s.PostMessage(CommandTmpls, tmpls)
}

// Templates lists the template directories available for projectType.
// Configuration and listing failures are shown through n and yield an empty list.
func (p *Protocol) Templates(ctx context.Context, n scaffold.Notifier, projectType string) []string {
	dir, err := p.templateRoot(projectType)
	if err != nil {
		n.ShowError(userMessage(err))
		return []string{}
	}

	dirs, err := pathops.ListSubdirectories(ctx, dir)
	if err != nil {
		n.ShowError(userMessage(err))
		return []string{}
	}
	if dirs == nil {
		return []string{}
	}
	return dirs
}

// templateRoot resolves <assets>/<tmplPath>/<projectType>.
func (p *Protocol) templateRoot(projectType string) (string, error) {
	cfg, err := LoadProjectsConfig(p.ConfigPath())
	if err != nil {
		return "", err
	}
	if cfg.TmplPath == "" {
		return "", errors.New(errors.ErrCodeConfigMissing, MsgTemplatePathMissing).
			WithDetail("path", p.ConfigPath())
	}
	if !isPlainName(projectType) {
		return "", errors.ValidationFailed("invalid project type: " + projectType)
	}
	root := cfg.TmplPath
	if !filepath.IsAbs(root) {
		root = filepath.Join(p.AssetsDir, root)
	}
	return filepath.Join(root, projectType), nil
}

func (p *Protocol) handleCreateProject(ctx context.Context, s Sender, payload json.RawMessage) error {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" || trimmed == "null" {
		return errors.ValidationFailed("createProject requires a project configuration")
	}
	var cfg scaffold.ProjectConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "createProject payload is not a project configuration")
	}
	if p.Scaffolder == nil {
		return errors.New(errors.ErrCodeUnknown, "no scaffolder configured")
	}

	var templateDir string
	if cfg.Template != "" && cfg.ProjectType != "" {
		root, err := p.templateRoot(cfg.ProjectType)
		if err != nil {
			s.ShowError(userMessage(err))
			return nil
		}
		if !isPlainName(cfg.Template) {
			s.ShowError("invalid template: " + cfg.Template)
			return nil
		}
		templateDir = filepath.Join(root, cfg.Template)
	}

	path, err := p.Scaffolder.Create(ctx, s, cfg, templateDir)
	if err != nil {
		s.ShowError(userMessage(err))
		return err
	}
	if path == "" {
		return nil
	}

	if p.State != nil {
		if err := p.State.Set(state.KeyLastStoragePath, cfg.StoragePath); err != nil {
			p.logger.WithError(err).Warn("Failed to remember storage path")
		}
	}
	return s.PostMessage(CommandCreated, CreatedData{Name: cfg.Name, Path: path})
}

func (p *Protocol) handleOpenFolderDialog(ctx context.Context, s Sender, _ json.RawMessage) error {
	if p.Picker == nil {
		p.logger.Debug("No folder picker configured")
		return nil
	}
	folder, err := p.Picker.PickFolder(ctx, p.projectPath())
	if err != nil {
		s.ShowError(userMessage(err))
		return err
	}
	if folder == "" {
		return nil
	}
	return s.PostMessage(CommandFolder, folder)
}

func (p *Protocol) handleGetConfig(ctx context.Context, s Sender, _ json.RawMessage) error {
	cfg, err := LoadProjectsConfig(p.ConfigPath())
	if err != nil {
		s.ShowError(userMessage(err))
		return nil
	}
	return s.PostMessage(CommandConfig, cfg)
}

func (p *Protocol) handleSaveConfig(ctx context.Context, s Sender, payload json.RawMessage) error {
	if err := SaveProjectsConfig(p.ConfigPath(), payload); err != nil {
		s.ShowError(userMessage(err))
		return nil
	}
	return s.PostMessage(CommandConfigSaved, nil)
}

// projectPath is the workspace root, or the last storage path when no
// workspace is open.
func (p *Protocol) projectPath() string {
	if p.WorkspaceRoot != "" {
		return p.WorkspaceRoot
	}
	if p.State != nil {
		if last, err := p.State.GetString(state.KeyLastStoragePath); err == nil {
			return last
		}
	}
	return ""
}

// isPlainName rejects names that would leave their parent directory.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

// userMessage picks the text shown to the user for err.
func userMessage(err error) string {
	if se, ok := errors.As(err); ok {
		if se.Code == errors.ErrCodeConfigInvalid && se.Cause != nil {
			return se.Message + ": " + se.Cause.Error()
		}
		return se.Message
	}
	return err.Error()
}
