package logging

// Config is the `logging` section of scaffolder.yml.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	// SCAFFOLDER_LOG_LEVEL takes precedence.
	Level string `yaml:"level"`

	// Components overrides Level per component, e.g. {webhost: debug, bridge: warn}.
	Components map[string]string `yaml:"components"`

	ReportCaller bool `yaml:"report_caller"`

	File   FileSinkConfig `yaml:"file"`
	Format FormatConfig   `yaml:"format"`
}

// FileSinkConfig configures the file sink. Without a Path each component
// writes <log dir>/<component>-<date>.log.
type FileSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// FormatConfig controls how entries are rendered.
type FormatConfig struct {
	// Preset is "default", "simple" or "json".
	Preset           string `yaml:"preset"`
	TimestampFormat  string `yaml:"timestamp_format"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is "auto" (default), "always" or "never".
	StructuredToStderr string `yaml:"structured_to_stderr"`
}

// levelFor returns the configured level for component.
func (c Config) levelFor(component string) string {
	if lvl, ok := c.Components[component]; ok && lvl != "" {
		return lvl
	}
	return c.Level
}
