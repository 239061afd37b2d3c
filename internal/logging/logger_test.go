package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"socialfactory/internal/services"
)

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("run queued",
		String(FieldComponent, "daemon"),
		Int64(FieldRunID, 7),
		String(FieldPlatform, "linkedin"),
	)

	line := buf.String()
	if !strings.Contains(line, "INFO daemon: run queued") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "run_id=7") || !strings.Contains(line, "platform=linkedin") {
		t.Fatalf("expected attrs in console line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be promoted into prefix: %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("non-terminal writer should not receive ANSI codes: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("hidden")
	logger.Warn("visible")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info record should have been filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Error("publish failed", String(FieldStep, "publish"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if record["msg"] != "publish failed" {
		t.Fatalf("unexpected msg field: %v", record["msg"])
	}
	if record["level"] != "error" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("expected ts field")
	}
	if record["step"] != "publish" {
		t.Fatalf("expected step attr, got %v", record["step"])
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "daemon.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}, ErrorOutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("started")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "started") {
		t.Fatalf("expected record in file, got %q", string(data))
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	base := slog.New(newConsoleHandler(&buf, lvl, false))

	ctx := services.WithRunID(context.Background(), 11)
	ctx = services.WithStep(ctx, "caption_generation")

	WithContext(ctx, base).Info("step started")

	line := buf.String()
	if !strings.Contains(line, "run_id=11") || !strings.Contains(line, "step=caption_generation") {
		t.Fatalf("expected context fields in line: %q", line)
	}
}

func TestFormatSubject(t *testing.T) {
	if got := FormatSubject("linkedin", "12", "script_generation"); got != "Linkedin · Run #12 (script_generation)" {
		t.Fatalf("unexpected subject: %q", got)
	}
	if got := FormatSubject("", "12", ""); got != "Run #12" {
		t.Fatalf("unexpected subject: %q", got)
	}
	if got := FormatSubject("wordpress", "", ""); got != "Wordpress" {
		t.Fatalf("unexpected subject: %q", got)
	}
}
