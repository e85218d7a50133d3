package vision_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cutout/internal/captioning/vision"
	"cutout/internal/config"
)

func TestCaptionReadsFirstResultEntry(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"generated_text": "  a cat  "}, {"generated_text": "ignored"}]`)
	}))
	defer server.Close()

	client := vision.NewClient(config.Vision{Endpoint: server.URL})
	caption, err := client.Caption(context.Background(), []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
	if caption != "a cat" {
		t.Fatalf("expected trimmed first entry, got %q", caption)
	}
	if gotContentType != "image/png" {
		t.Fatalf("expected declared media type, got %q", gotContentType)
	}
	if string(gotBody) != "png-bytes" {
		t.Fatalf("expected raw payload body, got %q", gotBody)
	}
}

func TestCaptionSendsAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `[{"generated_text": "ok"}]`)
	}))
	defer server.Close()

	client := vision.NewClient(config.Vision{Endpoint: server.URL, APIKey: "secret"})
	if _, err := client.Caption(context.Background(), []byte("x"), "image/png"); err != nil {
		t.Fatalf("Caption: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
}

func TestCaptionErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusInternalServerError, "boom", "http 500"},
		{"empty results", http.StatusOK, `[]`, "empty results"},
		{"empty text", http.StatusOK, `[{"generated_text": "  "}]`, "empty generated text"},
		{"bad json", http.StatusOK, `{oops`, "decode response"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer server.Close()

			client := vision.NewClient(config.Vision{Endpoint: server.URL})
			_, err := client.Caption(context.Background(), []byte("x"), "image/png")
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAvailability(t *testing.T) {
	if vision.NewClient(config.Vision{}).Available() {
		t.Fatal("expected client without endpoint to be unavailable")
	}
	if !vision.NewClient(config.Vision{Endpoint: "http://127.0.0.1:9"}).Available() {
		t.Fatal("expected configured client to be available")
	}
}
