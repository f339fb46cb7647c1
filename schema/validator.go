// Package schema checks <assets>/config/project.json against its embedded
// JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed project.schema.json
var projectSchema []byte

const projectSchemaURL = "project.schema.json"

// Issue is one failed constraint. Path is a JSON pointer into the document
// ("" for the root).
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError lists every issue found in a document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, "- "+issue.String())
	}
	return "schema validation failed:\n" + strings.Join(lines, "\n")
}

// Validator holds the compiled project.json schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(projectSchemaURL, bytes.NewReader(projectSchema)); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema resource: %w", err)
	}
	s, err := compiler.Compile(projectSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// ValidateBytes validates raw JSON. Schema failures are *ValidationError.
func (v *Validator) ValidateBytes(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return &ValidationError{Issues: leafIssues(verr)}
}

// Validate validates any value that marshals to JSON.
func (v *Validator) Validate(value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for validation: %w", err)
	}
	return v.ValidateBytes(data)
}

// leafIssues flattens the cause tree to the innermost failures, which name
// the offending field, ordered by path.
func leafIssues(err *jsonschema.ValidationError) []Issue {
	var out []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Issue{Path: e.InstanceLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(err)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
