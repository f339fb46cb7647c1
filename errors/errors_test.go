package errors

import (
	"fmt"
	"testing"
)

func TestScaffoldError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeNotFound, "file not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeUnknown, "stat failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeUnknown) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("path", "/tmp/x").WithDetail("attempt", 2)
	if detailed.Details["path"] != "/tmp/x" {
		t.Error("WithDetail should add details")
	}
}

func TestIsThroughFmtWrap(t *testing.T) {
	inner := FileExists("/tmp/a")
	outer := fmt.Errorf("rename: %w", inner)

	if !Is(outer, ErrCodeAlreadyExists) {
		t.Error("Is should see through fmt.Errorf wrapping")
	}
	if GetCode(outer) != ErrCodeAlreadyExists {
		t.Errorf("expected %s, got %s", ErrCodeAlreadyExists, GetCode(outer))
	}
	if GetCode(fmt.Errorf("plain")) != "" {
		t.Error("GetCode should be empty for foreign errors")
	}
	if Is(nil, ErrCodeNotFound) {
		t.Error("Is(nil) should be false")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := FileNotFound("/a/b")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Details["path"] != "/a/b" {
		t.Error("FileNotFound should include path detail")
	}

	err = ConfigMissing("/x/project.json")
	if err.Message != "config missing, configure basics first" {
		t.Errorf("unexpected message %q", err.Message)
	}

	err = UnresolvedPlaceholder("main.js", fmt.Errorf("outside root"))
	if err.Details["token"] != "main.js" {
		t.Error("UnresolvedPlaceholder should include token detail")
	}
}
