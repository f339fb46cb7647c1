package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}

	if again := NewLogger("test-component"); again != logger {
		t.Error("Expected NewLogger to return the cached entry for the same component")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	entry := logger.WithField("component", "test")
	entry.Info("Test message")

	output := buf.String()

	if !strings.Contains(output, "[INFO]") {
		t.Errorf("Expected output to contain [INFO], got: %s", output)
	}
	if !strings.Contains(output, "test") {
		t.Errorf("Expected output to contain the component, got: %s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected output to contain 'Test message', got: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "test message",
				Data: logrus.Fields{
					"component": "test-component",
					"key1":      "value1",
				},
			},
			want: []string{"[INFO]", "test-component", "test message", "key1=value1"},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "warning message",
				Data: logrus.Fields{
					"component": "test-component",
				},
			},
			want:    []string{"[WARN]", "warning message"},
			notWant: []string{"test-component"},
		},
		{
			name:   "caller information with function name",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				return &logrus.Entry{
					Logger:  logger,
					Level:   logrus.InfoLevel,
					Message: "test message with caller",
					Data: logrus.Fields{
						"component": "test-component",
					},
					Caller: &runtime.Frame{
						File:     "/path/to/file.go",
						Line:     42,
						Function: "github.com/example/package.TestFunction",
					},
				}
			}(),
			want: []string{"[INFO]", "test message with caller", "[file.go:42 package.TestFunction]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			tt.entry.Time = tt.entry.Time.UTC()

			output, err := formatter.Format(tt.entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			outputStr := string(output)
			for _, want := range tt.want {
				if !strings.Contains(outputStr, want) {
					t.Errorf("Expected output to contain '%s', got: %s", want, outputStr)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(outputStr, notWant) {
					t.Errorf("Expected output NOT to contain '%s', got: %s", notWant, outputStr)
				}
			}
		})
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	formatter := &TextFormatter{Config: FormatConfig{DisableTimestamp: true, DisableComponent: true}}
	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "m",
		Data:    logrus.Fields{"zeta": 1, "alpha": 2, "mid": 3},
	}

	output, err := formatter.Format(entry)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := "[INFO] m alpha=2 mid=3 zeta=1\n"
	if string(output) != want {
		t.Errorf("Expected %q, got %q", want, string(output))
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.WarnLevel)

	entry := logger.WithField("component", "test")

	entry.Debug("debug message")
	entry.Info("info message")
	entry.Warn("warn message")
	entry.Error("error message")

	output := buf.String()

	if strings.Contains(output, "debug message") {
		t.Error("Debug message should not appear at Warn level")
	}
	if strings.Contains(output, "info message") {
		t.Error("Info message should not appear at Warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Warn message should appear at Warn level")
	}
	if !strings.Contains(output, "error message") {
		t.Error("Error message should appear at Warn level")
	}
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("SCAFFOLDER_LOG_LEVEL", "debug")
	t.Setenv("SCAFFOLDER_LOG_CALLER", "true")
	Reset()
	t.Cleanup(Reset)

	logger := NewLogger("env-test")

	if logger.Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level from SCAFFOLDER_LOG_LEVEL, got %v", logger.Logger.GetLevel())
	}
	if !logger.Logger.ReportCaller {
		t.Error("Expected caller reporting from SCAFFOLDER_LOG_CALLER")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("SCAFFOLDER_LOG_LEVEL", "loud")

	logger := newLogger("fallback", Config{})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %v", logger.GetLevel())
	}
}

func TestFileSink(t *testing.T) {
	t.Setenv("SCAFFOLDER_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "scaffolder.log")

	logger := newLogger("file-test", Config{
		File:   FileSinkConfig{Enabled: true, Path: path},
		Format: FormatConfig{Preset: "json", StructuredToStderr: "never"},
	})
	logger.WithField("component", "file-test").Info("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file to exist: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"written to file"`) {
		t.Errorf("Expected JSON entry in log file, got: %s", data)
	}
}

func TestNoSinksDiscards(t *testing.T) {
	logger := newLogger("quiet", Config{Format: FormatConfig{StructuredToStderr: "never"}})
	logger.Info("dropped")
	if logger.Out == nil {
		t.Fatal("Expected an output writer")
	}
	if _, ok := logger.Out.(*os.File); ok {
		t.Error("Expected output not to be a terminal file when no sink is enabled")
	}
}

func TestGlobalOutputRedirect(t *testing.T) {
	var buf bytes.Buffer
	restore := RedirectOutput(&buf)
	t.Cleanup(restore)

	logger := newLogger("redirect", Config{Format: FormatConfig{StructuredToStderr: "always"}})
	logger.WithField("component", "redirect").Warn("captured")

	if !strings.Contains(buf.String(), "captured") {
		t.Errorf("Expected redirected output to contain the message, got: %s", buf.String())
	}

	restore()
	restore()
	logger.WithField("component", "redirect").Warn("after restore")
	if strings.Contains(buf.String(), "after restore") {
		t.Error("Expected output to stop reaching the buffer after restore")
	}
}

func TestComponentLevelOverride(t *testing.T) {
	t.Setenv("SCAFFOLDER_LOG_LEVEL", "")
	cfg := Config{Level: "warn", Components: map[string]string{"webhost": "debug"}}

	if got := newLogger("webhost", cfg).GetLevel(); got != logrus.DebugLevel {
		t.Errorf("Expected webhost at debug, got %v", got)
	}
	if got := newLogger("bridge", cfg).GetLevel(); got != logrus.WarnLevel {
		t.Errorf("Expected bridge at warn, got %v", got)
	}
}

func TestTextFormatterQuotesAndErrorLast(t *testing.T) {
	formatter := &TextFormatter{Config: FormatConfig{DisableTimestamp: true, DisableComponent: true}}
	entry := &logrus.Entry{
		Level:   logrus.ErrorLevel,
		Message: "create failed",
		Data: logrus.Fields{
			"name":          "my shop",
			"type":          "react",
			logrus.ErrorKey: "exists",
		},
	}
	output, err := formatter.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	want := "[ERROR] create failed name=\"my shop\" type=react error=exists\n"
	if string(output) != want {
		t.Errorf("Expected %q, got %q", want, string(output))
	}
}

func TestTimestampFormat(t *testing.T) {
	formatter := &TextFormatter{Config: FormatConfig{TimestampFormat: "15:04", DisableComponent: true}}
	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "m",
		Time:    time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC),
		Data:    logrus.Fields{},
	}
	output, err := formatter.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(output), "09:30 [INFO] m") {
		t.Errorf("Expected short timestamp prefix, got %q", string(output))
	}
}

func TestShouldLogToStderr(t *testing.T) {
	if !shouldLogToStderr("always", logrus.InfoLevel) {
		t.Error("always should log to stderr")
	}
	if shouldLogToStderr("never", logrus.DebugLevel) {
		t.Error("never should not log to stderr")
	}
	if !shouldLogToStderr("auto", logrus.DebugLevel) {
		t.Error("auto should log to stderr at debug level")
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.ProjectCreated("demo", "react", "/tmp/demo")
	c.Serving("http://127.0.0.1:7788", "create_project.html", "/run/scaffolder.pid")
	c.Fail("failed", os.ErrNotExist)

	out := buf.String()
	for _, want := range []string{"Created demo", "react", "/tmp/demo", "Serving panels at http://127.0.0.1:7788", "create_project.html", "/run/scaffolder.pid", "failed: file does not exist"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected console output to contain %q, got: %s", want, out)
		}
	}
}
