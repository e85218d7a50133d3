package testsupport

import (
	"context"
	"testing"

	"cutout/internal/config"
	"cutout/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddImage inserts an image record for tests using the provided store.
func AddImage(t testing.TB, store *library.Store, name string) *library.Record {
	t.Helper()

	record, err := store.Add(context.Background(), name, "image/png", PNGPayload())
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return record
}

// PNGPayload returns a minimal valid PNG byte stream.
func PNGPayload() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
		0x44, 0xAE, 0x42, 0x60, 0x82,
	}
}
