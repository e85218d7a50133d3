package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	cmd := newConfigInitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatalf("sample config missing paths section:\n%s", data)
	}
	if !strings.Contains(out.String(), target) {
		t.Fatalf("expected target path in output, got %q", out.String())
	}
}

func TestConfigInitRefusesOverwriteWithoutFlag(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cmd := newConfigInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--path", target})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when target exists")
	}

	overwrite := newConfigInitCommand()
	overwrite.SetOut(new(bytes.Buffer))
	overwrite.SetArgs([]string{"--path", target, "--overwrite"})
	if err := overwrite.Execute(); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
