package scaffold

import "strings"

// Messages shown by Verify, one per rule.
const (
	MsgConfigEmpty      = "Please configure project information first!"
	MsgNameEmpty        = "Project name cannot be empty!"
	MsgStoragePathEmpty = "Project storage path cannot be empty!"
	MsgProjectTypeEmpty = "Project type cannot be empty!"
)

// Verify checks cfg before any scaffolding runs. Rules are checked in order
// and the first violation is reported through n.
func Verify(cfg *ProjectConfig, n Notifier) bool {
	var msg string
	switch {
	case cfg.IsEmpty():
		msg = MsgConfigEmpty
	case strings.TrimSpace(cfg.Name) == "":
		msg = MsgNameEmpty
	case strings.TrimSpace(cfg.StoragePath) == "":
		msg = MsgStoragePathEmpty
	case strings.TrimSpace(cfg.ProjectType) == "":
		msg = MsgProjectTypeEmpty
	default:
		return true
	}
	if n != nil {
		n.ShowError(msg)
	}
	return false
}
