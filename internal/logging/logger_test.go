package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contentgen/internal/config"
	"contentgen/internal/logging"
	"contentgen/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.NewComponentLogger(logger, "pipeline").Info("stage complete",
		logging.Int("scenes", 3), logging.String("step", "images"))

	out := buf.String()
	if !strings.Contains(out, "pipeline: stage complete scenes=3 step=images") {
		t.Fatalf("console output = %q", out)
	}
	if !strings.Contains(out, " INFO ") {
		t.Fatalf("console output missing level: %q", out)
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Paths.StorageRoot = filepath.Join(dir, "storage")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("pipeline started", logging.Int64(logging.FieldVideoID, 7))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "contentgen.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "pipeline started") {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}

func TestWithContextAddsStandardFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := services.WithVideoID(context.Background(), 42)
	ctx = services.WithStage(ctx, "audio")
	ctx = services.WithRunID(ctx, "run-abc")

	logging.WithContext(ctx, logger).Info("synthesizing")
	out := buf.String()
	for _, want := range []string{"video_id=42", "stage=audio", "run_id=run-abc"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "store")
	// Must be safe to use even with a nil base.
	logger.Info("noop")
}
