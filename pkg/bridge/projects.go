package bridge

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"sync"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/schema"
)

// DefaultProjectTypes is offered when project.json lists none.
var DefaultProjectTypes = []string{"angular", "react", "vue", "nodejs"}

// ProjectsConfig is the content of <assets>/config/project.json.
type ProjectsConfig struct {
	ProjectTypes []string `json:"projectTypes,omitempty"`
	TmplPath     string   `json:"tmplPath,omitempty"`
}

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

func projectValidator() (*schema.Validator, error) {
	validatorOnce.Do(func() {
		validator, validatorErr = schema.NewValidator()
	})
	return validator, validatorErr
}

// LoadProjectsConfig reads and validates project.json. A missing file is CONFIG_MISSING.
func LoadProjectsConfig(path string) (*ProjectsConfig, error) {
	if !pathops.ExistsSync(path) {
		return nil, errors.ConfigMissing(path)
	}
	data, err := pathops.ReadFileSync(path)
	if err != nil {
		return nil, err
	}
	if err := validateProjectsConfig(data); err != nil {
		return nil, err
	}

	var cfg ProjectsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse project.json").
			WithDetail("path", path)
	}
	return &cfg, nil
}

// SaveProjectsConfig replaces project.json with data after validating it.
// The file must already exist.
func SaveProjectsConfig(path string, data []byte) error {
	if !pathops.ExistsSync(path) {
		return errors.ConfigMissing(path)
	}
	if err := validateProjectsConfig(data); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to format project.json")
	}
	out.WriteByte('\n')
	return pathops.WriteFileSync(path, out.Bytes())
}

func validateProjectsConfig(data []byte) error {
	v, err := projectValidator()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUnknown, "failed to load project.json schema")
	}
	err = v.ValidateBytes(data)
	var verr *schema.ValidationError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &verr) && len(verr.Issues) > 0:
		// Report the first issue; it names the offending field.
		return errors.New(errors.ErrCodeConfigInvalid, "invalid project.json: "+verr.Issues[0].String()).
			WithDetail("field", verr.Issues[0].Path).
			WithDetail("issues", len(verr.Issues))
	default:
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid project.json")
	}
}
