package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/util/pathutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched in order in every directory from the start dir up.
var configNames = []string{
	"scaffolder.yml",
	"scaffolder.yaml",
	".scaffolder.yml",
	"scaffolder.toml",
}

// Load reads and parses a scaffolder configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeConfigMissing, "configuration file not found").
				WithDetail("path", path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := decode(data, formatOf(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config file").
			WithDetail("path", path)
	}
	cfg.path = path
	cfg.SetDefaults()
	cfg.resolvePaths()
	return cfg, nil
}

// LoadDefault loads configuration starting from the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory:
// 1. Global config (~/.config/scaffolder/scaffolder.yml) - base layer
// 2. Project config found by walking up from startDir - overrides global
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger loads configuration with hierarchical merging and logging
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	projectPath, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	var finalConfig *Config

	globalPath := getXDGConfigPath()
	if globalPath != "" && globalPath != projectPath {
		if data, err := os.ReadFile(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			globalConfig, err := decode(data, formatOf(globalPath))
			if err == nil {
				finalConfig = globalConfig
			} else {
				logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
			}
		}
	}

	logger.WithField("path", projectPath).Debug("Loading project configuration")
	projectData, err := os.ReadFile(projectPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read project config").
			WithDetail("path", projectPath)
	}
	projectConfig, err := decode(projectData, formatOf(projectPath))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse project config").
			WithDetail("path", projectPath)
	}
	projectConfig.path = projectPath

	if finalConfig == nil {
		finalConfig = projectConfig
	} else {
		logger.Debug("Merging project configuration over global configuration")
		finalConfig = mergeConfigs(finalConfig, projectConfig)
	}

	finalConfig.SetDefaults()
	finalConfig.resolvePaths()

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if data, err := finalConfig.Dump(); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(data))
		}
	}

	return finalConfig, nil
}

// LoadOrDefault behaves like LoadFrom but falls back to defaults rooted at
// startDir when no configuration file exists.
func LoadOrDefault(startDir string) (*Config, error) {
	cfg, err := LoadFrom(startDir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, errors.ErrCodeConfigMissing) {
		return nil, err
	}

	cfg = &Config{Workspace: startDir}
	cfg.SetDefaults()
	if abs, err := pathutil.Abs(cfg.AssetsDir, startDir); err == nil {
		cfg.AssetsDir = abs
	}
	return cfg, nil
}

// LoadFromBytes parses YAML configuration from a byte array
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := decode(data, "yaml")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}
	cfg.SetDefaults()
	return cfg, nil
}

// FindConfigFile searches for a scaffolder configuration file from startDir up
// to the filesystem root, then in the XDG config directory.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if xdgConfigPath := getXDGConfigPath(); xdgConfigPath != "" {
		if info, err := os.Stat(xdgConfigPath); err == nil && !info.IsDir() {
			return xdgConfigPath, nil
		}
	}

	return "", errors.New(errors.ErrCodeConfigMissing, "configuration file not found").
		WithDetail("searchPath", startDir)
}

func formatOf(path string) string {
	if strings.HasSuffix(path, ".toml") {
		return "toml"
	}
	return "yaml"
}

// decode expands environment variables and parses data in the given format.
func decode(data []byte, format string) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	if format != "toml" {
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := toml.NewDecoder(bytes.NewReader(expanded)).Decode(&cfg); err != nil {
		return nil, err
	}
	// TOML has no inline maps, so unknown tables are collected separately.
	var raw map[string]interface{}
	if err := toml.Unmarshal(expanded, &raw); err != nil {
		return nil, err
	}
	for key, value := range raw {
		if knownKeys[key] {
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]interface{})
		}
		cfg.Extensions[key] = value
	}
	return &cfg, nil
}

// resolvePaths anchors relative directories at the config file's directory.
func (c *Config) resolvePaths() {
	if c.path == "" {
		return
	}
	base := filepath.Dir(c.path)
	if c.Workspace == "" {
		c.Workspace = base
	} else if abs, err := pathutil.Abs(c.Workspace, base); err == nil {
		c.Workspace = abs
	}
	if abs, err := pathutil.Abs(c.AssetsDir, base); err == nil {
		c.AssetsDir = abs
	}
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// getXDGConfigPath returns the XDG config path for the scaffolder
func getXDGConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "scaffolder", "scaffolder.yml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "scaffolder", "scaffolder.yml")
	}

	return ""
}
