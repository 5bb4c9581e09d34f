package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"shutter/pkg/config"
)

func newBufferLogger(buf *bytes.Buffer) *zerologLogger {
	zlog := zerolog.New(buf).With().Timestamp().Logger()
	return &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name: "config with file output",
			cfg: &config.LoggingConfig{
				Level: "info",
				File:  filepath.Join(t.TempDir(), "logs", "shutter.log"),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	for name, logFn := range map[string]func(string){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	} {
		t.Run(name, func(t *testing.T) {
			buf.Reset()
			logFn(name + " message")
			if !strings.Contains(buf.String(), name+" message") {
				t.Errorf("%s message not found in output", name)
			}
			if !strings.Contains(buf.String(), `"level":"`+name+`"`) {
				t.Errorf("%s level not found in output", name)
			}
		})
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	if logger.WithError(nil) != Logger(logger) {
		t.Error("WithError(nil) should return the same logger")
	}

	logger.WithError(errors.New("connection reset")).Error("download failed")

	output := buf.String()
	if !strings.Contains(output, "download failed") {
		t.Error("Message not found in output")
	}
	if !strings.Contains(output, "connection reset") {
		t.Error("Error message not found in output")
	}
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.InfoWithFields("profile fetched", map[string]interface{}{
		"username": "peterdn",
		"images":   12,
		"private":  false,
		"took":     250 * time.Millisecond,
	})

	output := buf.String()
	for _, want := range []string{`"username":"peterdn"`, `"images":12`, `"private":false`, "profile fetched"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output %s", want, output)
		}
	}
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	child := logger.
		WithField("component", "downloader").
		WithFields(map[string]interface{}{"worker_id": 3})
	child.Debug("worker started")

	output := buf.String()
	if !strings.Contains(output, `"component":"downloader"`) {
		t.Error("component field not found in output")
	}
	if !strings.Contains(output, `"worker_id":3`) {
		t.Error("worker_id field not found in output")
	}

	// the parent must not see the child's fields
	buf.Reset()
	logger.Info("parent")
	if strings.Contains(buf.String(), "component") {
		t.Error("child fields leaked into parent logger")
	}
}

func TestGlobalLogger(t *testing.T) {
	if err := Initialize(&config.LoggingConfig{Level: "error"}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if GetLogger() == nil {
		t.Fatal("GetLogger() returned nil")
	}

	GetLogger().WithField("key", "value").Info("with field")
	GetLogger().WithError(errors.New("boom")).Error("with error")
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(nopLogger); !ok {
		t.Error("OrNop(nil) should return the nop logger")
	}

	tl := NewTestLogger()
	if OrNop(tl) != Logger(tl) {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}
