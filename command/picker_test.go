package command

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	scaffolderrors "github.com/grovetools/scaffolder/errors"
)

// stubExecutor runs scripts from dir in place of real programs.
type stubExecutor struct {
	dir   string
	calls [][]string
}

func newStubExecutor(t *testing.T, scripts map[string]string) *stubExecutor {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return &stubExecutor{dir: dir}
}

func (s *stubExecutor) Command(name string, args ...string) *exec.Cmd {
	s.calls = append(s.calls, append([]string{name}, args...))
	return exec.Command(filepath.Join(s.dir, filepath.Base(name)), args...)
}

func (s *stubExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	s.calls = append(s.calls, append([]string{name}, args...))
	return exec.CommandContext(ctx, filepath.Join(s.dir, filepath.Base(name)), args...)
}

func (s *stubExecutor) LookPath(file string) (string, error) {
	path := filepath.Join(s.dir, file)
	if _, err := os.Stat(path); err != nil {
		return "", exec.ErrNotFound
	}
	return path, nil
}

func TestFolderPicker_FirstAvailableCandidate(t *testing.T) {
	stub := newStubExecutor(t, map[string]string{
		"kdialog": `echo "/home/me/projects/"`,
	})
	p := NewFolderPickerWithExecutor(nil, stub)
	p.goos = "linux"

	folder, err := p.PickFolder(context.Background(), "/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder != "/home/me/projects" {
		t.Errorf("expected /home/me/projects, got %q", folder)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("expected one call, got %v", stub.calls)
	}
	want := []string{"kdialog", "--getexistingdirectory", "/start"}
	for i, arg := range want {
		if stub.calls[0][i] != arg {
			t.Errorf("arg %d: expected %q, got %q", i, arg, stub.calls[0][i])
		}
	}
}

func TestFolderPicker_Configured(t *testing.T) {
	stub := newStubExecutor(t, map[string]string{
		"mypicker": `echo "$2"`,
	})
	p := NewFolderPickerWithExecutor([]string{"mypicker", "--in", StartPlaceholder + "/sub"}, stub)

	folder, err := p.PickFolder(context.Background(), "/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder != "/start/sub" {
		t.Errorf("expected /start/sub, got %q", folder)
	}
}

func TestFolderPicker_Cancelled(t *testing.T) {
	stub := newStubExecutor(t, map[string]string{
		"zenity": "exit 1",
	})
	p := NewFolderPickerWithExecutor(nil, stub)
	p.goos = "linux"

	folder, err := p.PickFolder(context.Background(), "/start")
	if err != nil {
		t.Fatalf("cancel should not be an error: %v", err)
	}
	if folder != "" {
		t.Errorf("expected empty folder, got %q", folder)
	}
}

func TestFolderPicker_Failure(t *testing.T) {
	stub := newStubExecutor(t, map[string]string{
		"zenity": "exit 3",
	})
	p := NewFolderPickerWithExecutor(nil, stub)
	p.goos = "linux"

	if _, err := p.PickFolder(context.Background(), "/start"); err == nil {
		t.Error("expected error for failing dialog")
	}
}

func TestFolderPicker_NoneAvailable(t *testing.T) {
	p := NewFolderPickerWithExecutor(nil, newStubExecutor(t, nil))
	p.goos = "linux"

	_, err := p.PickFolder(context.Background(), "/start")
	if !scaffolderrors.Is(err, scaffolderrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestFolderPicker_InvalidConfiguredProgram(t *testing.T) {
	p := NewFolderPickerWithExecutor([]string{"picker; rm -rf /"}, newStubExecutor(t, nil))

	_, err := p.PickFolder(context.Background(), "/start")
	if !scaffolderrors.Is(err, scaffolderrors.ErrCodeConfigInvalid) {
		t.Errorf("expected CONFIG_INVALID, got %v", err)
	}
}
