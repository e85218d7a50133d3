package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cutout/internal/config"
	"cutout/internal/preflight"
	"cutout/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Library directory", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass, got %+v", result)
	}

	missing := preflight.CheckDirectoryAccess("Library directory", filepath.Join(dir, "missing"))
	if missing.Passed {
		t.Fatalf("expected missing directory to fail, got %+v", missing)
	}

	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	notDir := preflight.CheckDirectoryAccess("Library directory", file)
	if notDir.Passed {
		t.Fatalf("expected non-directory to fail, got %+v", notDir)
	}
}

func TestCheckVision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	result := preflight.CheckVision(context.Background(), config.Vision{Endpoint: server.URL})
	if !result.Passed {
		t.Fatalf("expected reachable endpoint to pass, got %+v", result)
	}

	server.Close()
	down := preflight.CheckVision(context.Background(), config.Vision{Endpoint: server.URL})
	if down.Passed {
		t.Fatalf("expected unreachable endpoint to fail, got %+v", down)
	}

	blank := preflight.CheckVision(context.Background(), config.Vision{})
	if blank.Passed {
		t.Fatalf("expected unconfigured endpoint to fail, got %+v", blank)
	}
}

func TestRunAllSkipsVisionWhenUnconfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected three directory checks, got %d: %+v", len(results), results)
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("expected all checks to pass, got %+v", result)
		}
	}
}
