package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsRecordLines(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("caption stored",
		slog.String(FieldComponent, "captioning"),
		slog.Int64(FieldRecordID, 7),
		slog.String("caption", "a cat"),
	)

	out := buf.String()
	if !strings.Contains(out, "[captioning]") {
		t.Fatalf("expected component tag in output, got %q", out)
	}
	if !strings.Contains(out, "record #7") {
		t.Fatalf("expected record subject in output, got %q", out)
	}
	if !strings.Contains(out, "- caption: a cat") {
		t.Fatalf("expected caption field line, got %q", out)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info below warn to be dropped, got %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestJSONHandlerLowercasesLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Error("boom")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if decoded["level"] != "error" {
		t.Fatalf("expected lowercase level, got %v", decoded["level"])
	}
	if decoded["msg"] != "boom" {
		t.Fatalf("expected msg field, got %v", decoded["msg"])
	}
}

func TestWithContextAddsRecordID(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	ctx := WithRecordID(context.Background(), 42)
	WithContext(ctx, logger).Info("touched")

	if !strings.Contains(buf.String(), "record #42") {
		t.Fatalf("expected record id from context, got %q", buf.String())
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("ignored")
}
