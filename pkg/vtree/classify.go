package vtree

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/scaffolder/pkg/pathops"
)

// ProjectType is a tag from the classification vocabulary.
type ProjectType string

const (
	Angular ProjectType = "angular"
	NodeJS  ProjectType = "nodejs"
	React   ProjectType = "react"
	Vue     ProjectType = "vue"
)

// ManifestFile is the project descriptor sniffed by Classify.
const ManifestFile = "package.json"

var projectTypePattern = regexp.MustCompile(`(?i)(angular|nodejs|react|vue)`)

// Classify inspects dir's manifest. The first vocabulary word found in it
// wins; a manifest without one is nodejs. No manifest means no classification.
func Classify(dir string) (ProjectType, bool) {
	manifest := filepath.Join(dir, ManifestFile)
	if !pathops.ExistsSync(manifest) {
		return "", false
	}
	content, err := pathops.ReadFileSync(manifest)
	if err != nil {
		return "", false
	}
	if m := projectTypePattern.Find(content); m != nil {
		return ProjectType(strings.ToLower(string(m))), true
	}
	return NodeJS, true
}
