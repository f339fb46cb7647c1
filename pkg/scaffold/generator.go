package scaffold

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/profiling"
	"github.com/grovetools/scaffolder/pkg/vtree"
	"github.com/sirupsen/logrus"
)

// DefaultVersion is written when the request carries no version.
const DefaultVersion = "0.0.1"

// MsgVersionInvalid is shown when the version is not semantic.
const MsgVersionInvalid = "Project version must be a semantic version (e.g. 1.0.0)!"

// typeLayouts lists extra folders below src/ for project types that want them.
var typeLayouts = map[string][]string{
	string(vtree.Angular): {"app", "styles", "testing", "webassets"},
}

// Generator creates the on-disk project folder for a verified request.
type Generator struct {
	tree   *vtree.Tree
	logger *logrus.Entry
}

// NewGenerator returns a generator that writes through tree.
func NewGenerator(tree *vtree.Tree) *Generator {
	return &Generator{
		tree:   tree,
		logger: logging.NewLogger("scaffold"),
	}
}

// Create verifies cfg and lays out <storagePath>/<name>. When templateDir is
// set its content is copied into the project, otherwise an empty src/ is made.
// A request rejected by verification returns "" and a nil error after the
// rejection has been shown through n. A failed layout removes the partial
// project folder.
func (g *Generator) Create(ctx context.Context, n Notifier, cfg ProjectConfig, templateDir string) (_ string, err error) {
	defer profiling.Start("scaffold.create").Stop()

	if !Verify(&cfg, n) {
		return "", nil
	}

	version, ok := normalizeVersion(cfg.Version)
	if !ok {
		n.ShowError(MsgVersionInvalid)
		return "", nil
	}
	cfg.Version = version

	projectPath := filepath.Join(cfg.StoragePath, cfg.Name)
	exists, err := pathops.Exists(ctx, projectPath)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.FileExists(projectPath)
	}

	logger := g.logger.WithFields(logrus.Fields{
		"project": cfg.Name,
		"type":    cfg.ProjectType,
		"path":    projectPath,
	})

	defer func() {
		if err == nil {
			return
		}
		if rmErr := pathops.RemoveAll(context.Background(), projectPath); rmErr != nil {
			logger.WithError(rmErr).Warn("Failed to remove partial project")
		}
	}()

	if templateDir != "" {
		logger.WithField("template", templateDir).Info("Copying project template")
		if err := g.tree.Copy(ctx, templateDir, projectPath); err != nil {
			return "", err
		}
	} else {
		if err := pathops.MkdirAll(ctx, projectPath); err != nil {
			return "", err
		}
		srcPath := filepath.Join(projectPath, "src")
		if err := g.tree.CreateDirectory(ctx, srcPath); err != nil {
			return "", err
		}
		for _, dir := range typeLayouts[strings.ToLower(cfg.ProjectType)] {
			if err := g.tree.CreateDirectory(ctx, filepath.Join(srcPath, dir)); err != nil {
				return "", err
			}
		}
	}

	if err := g.writeManifest(ctx, projectPath, cfg); err != nil {
		return "", err
	}

	logger.Info("Project created")
	return projectPath, nil
}

// writeManifest adds a package.json unless the template brought one.
func (g *Generator) writeManifest(ctx context.Context, projectPath string, cfg ProjectConfig) error {
	manifest := map[string]interface{}{
		"name":     cfg.Name,
		"version":  cfg.Version,
		"keywords": []string{strings.ToLower(cfg.ProjectType)},
	}
	if cfg.Description != "" {
		manifest["description"] = cfg.Description
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	err = g.tree.WriteFile(ctx, filepath.Join(projectPath, vtree.ManifestFile), append(data, '\n'), vtree.WriteOptions{Create: true})
	if errors.Is(err, errors.ErrCodeAlreadyExists) {
		return nil
	}
	return err
}

// normalizeVersion parses v leniently ("1", "v1.2") and returns its canonical form.
func normalizeVersion(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultVersion, true
	}
	parsed, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
