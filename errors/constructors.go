package errors

import "fmt"

// FileNotFound is returned when a path does not exist.
func FileNotFound(path string) *ScaffoldError {
	return New(ErrCodeNotFound, fmt.Sprintf("file not found: %s", path)).
		WithDetail("path", path)
}

// FileIsADirectory is returned when a file operation targets a directory.
func FileIsADirectory(path string) *ScaffoldError {
	return New(ErrCodeIsADirectory, fmt.Sprintf("is a directory: %s", path)).
		WithDetail("path", path)
}

// FileExists is returned when a path is already taken.
func FileExists(path string) *ScaffoldError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("file already exists: %s", path)).
		WithDetail("path", path)
}

// NoPermissions is returned when the OS refuses access.
func NoPermissions(path string) *ScaffoldError {
	return New(ErrCodePermissionDenied, fmt.Sprintf("no permissions: %s", path)).
		WithDetail("path", path)
}

// ConfigMissing creates a configuration not found error
func ConfigMissing(path string) *ScaffoldError {
	return New(ErrCodeConfigMissing, "config missing, configure basics first").
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *ScaffoldError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// ValidationFailed carries a user-facing validation message.
func ValidationFailed(message string) *ScaffoldError {
	return New(ErrCodeValidation, message)
}

// UnresolvedPlaceholder is returned when a template token cannot be resolved.
func UnresolvedPlaceholder(token string, cause error) *ScaffoldError {
	return Wrap(cause, ErrCodeUnresolvedPlaceholder, fmt.Sprintf("cannot resolve placeholder {{%s}}", token)).
		WithDetail("token", token)
}

// SessionNotFound is returned when a panel key has no live session.
func SessionNotFound(key string) *ScaffoldError {
	return New(ErrCodeSessionNotFound, fmt.Sprintf("no open panel for %s", key)).
		WithDetail("key", key)
}
