package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// ServerConfig holds settings for the panel host started by `scaffolder serve`.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty" jsonschema:"description=Listen address for the panel host (default: 127.0.0.1:7788)"`
	// Open names the panel document to open when the host starts.
	Open string `yaml:"open,omitempty" toml:"open,omitempty" jsonschema:"description=Panel document opened on startup,enum=create_project.html,enum=project_config.html"`
	// FolderPicker overrides the dialog program; {start} is replaced by the initial folder.
	FolderPicker []string `yaml:"folder_picker,omitempty" toml:"folder_picker,omitempty" jsonschema:"description=Command line of the folder dialog program ({start} is the initial folder)"`
	// NoBrowser keeps serve from launching a browser.
	NoBrowser bool `yaml:"no_browser,omitempty" toml:"no_browser,omitempty" jsonschema:"description=Do not open a browser when the panel host starts"`
}

// WatchConfig controls filesystem watches started by the tree.
type WatchConfig struct {
	Recursive bool     `yaml:"recursive,omitempty" toml:"recursive,omitempty" jsonschema:"description=Watch subdirectories as well as the root"`
	Excludes  []string `yaml:"excludes,omitempty" toml:"excludes,omitempty" jsonschema:"description=Patterns (relative to the watched root) whose events are dropped"`
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	Icons string `yaml:"icons,omitempty" toml:"icons,omitempty" jsonschema:"description=Icon set to use: nerd or ascii,enum=nerd,enum=ascii"`
	Theme string `yaml:"theme,omitempty" toml:"theme,omitempty" jsonschema:"description=Color theme for terminal interfaces,enum=kanagawa,enum=terminal"`
}

// Config represents the scaffolder.yml configuration
type Config struct {
	Name    string `yaml:"name,omitempty" toml:"name,omitempty" jsonschema:"description=Display name of the workspace"`
	Version string `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`

	// AssetsDir holds webview documents, images, config/project.json and templates.
	AssetsDir string `yaml:"assets_dir,omitempty" toml:"assets_dir,omitempty" jsonschema:"description=Directory with webview assets and templates (default: public)"`
	// Workspace is the folder whose parent the tree lists at the top level.
	Workspace string `yaml:"workspace,omitempty" toml:"workspace,omitempty" jsonschema:"description=Workspace folder (default: directory of the config file)"`
	Collation string `yaml:"collation,omitempty" toml:"collation,omitempty" jsonschema:"description=BCP 47 language tag used to order tree entries (default: und)"`

	Server *ServerConfig `yaml:"server,omitempty" toml:"server,omitempty" jsonschema:"description=Panel host settings"`
	Watch  *WatchConfig  `yaml:"watch,omitempty" toml:"watch,omitempty" jsonschema:"description=Filesystem watch settings"`
	TUI    *TUIConfig    `yaml:"tui,omitempty" toml:"tui,omitempty" jsonschema:"description=TUI appearance settings"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`

	// path is the file the config was loaded from, if any.
	path string
}

// knownKeys are the top-level keys that never land in Extensions.
var knownKeys = map[string]bool{
	"name":       true,
	"version":    true,
	"assets_dir": true,
	"workspace":  true,
	"collation":  true,
	"server":     true,
	"watch":      true,
	"tui":        true,
}

// Path returns the file the configuration was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.AssetsDir == "" {
		c.AssetsDir = "public"
	}
	if c.Collation == "" {
		c.Collation = "und"
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:7788"
	}
	if c.Server.Open == "" {
		c.Server.Open = "create_project.html"
	}
	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}
	if c.TUI == nil {
		c.TUI = &TUIConfig{}
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded scaffolder.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing section leaves target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// mergeConfigs layers override on top of base. Extensions merge per key.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Name != "" {
		result.Name = override.Name
	}
	if override.Version != "" {
		result.Version = override.Version
	}
	if override.AssetsDir != "" {
		result.AssetsDir = override.AssetsDir
	}
	if override.Workspace != "" {
		result.Workspace = override.Workspace
	}
	if override.Collation != "" {
		result.Collation = override.Collation
	}
	if override.Server != nil {
		result.Server = override.Server
	}
	if override.Watch != nil {
		result.Watch = override.Watch
	}
	if override.TUI != nil {
		result.TUI = override.TUI
	}
	if len(override.Extensions) > 0 {
		merged := make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			merged[k] = v
		}
		for k, v := range override.Extensions {
			merged[k] = v
		}
		result.Extensions = merged
	}
	if override.path != "" {
		result.path = override.path
	}
	return &result
}

// Dump renders the effective configuration as YAML.
func (c *Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}
