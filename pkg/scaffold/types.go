// Package scaffold validates project requests and lays out new projects on disk.
package scaffold

// ProjectConfig is the createProject payload sent by the panel.
type ProjectConfig struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	StoragePath string `json:"storagePath"`
	ProjectType string `json:"projectType"`
	// Template names a directory under <tmplPath>/<projectType>.
	Template string `json:"template,omitempty"`
}

// IsEmpty reports whether no field is set.
func (c *ProjectConfig) IsEmpty() bool {
	return c == nil || *c == ProjectConfig{}
}

// Notifier shows user-visible errors.
type Notifier interface {
	ShowError(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// ShowError calls f.
func (f NotifierFunc) ShowError(msg string) {
	f(msg)
}
