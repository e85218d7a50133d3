package library

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Kind classifies a record's original payload.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Record represents one imported media item plus its derived artifacts.
//
// Processed stays nil until the external background-removal pipeline delivers
// a payload; Caption stays empty until the captioning orchestrator completes.
// Both are set at most once for the life of the record.
type Record struct {
	ID          int64
	FileName    string
	MediaType   string
	Kind        Kind
	Original    []byte
	Processed   []byte
	Caption     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time
	CaptionedAt *time.Time
}

// IsProcessed reports whether the background-removed payload has arrived.
// Records that are not yet processed render as masked placeholders.
func (r *Record) IsProcessed() bool {
	return r != nil && len(r.Processed) > 0
}

// HasCaption reports whether a caption has been persisted. Once true, the
// generate-caption action is no longer offered for this record.
func (r *Record) HasCaption() bool {
	return r != nil && r.Caption != ""
}

// DownloadName suggests a filename for exporting the processed payload,
// derived from the original file name. It returns "" when no processed
// payload exists, which callers surface as a non-functional download rather
// than an error.
func (r *Record) DownloadName() string {
	if !r.IsProcessed() {
		return ""
	}
	base := strings.TrimSpace(r.FileName)
	if base == "" {
		base = "cutout"
	}
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	if detected := mimetype.Detect(r.Processed); detected.Extension() != "" {
		ext = detected.Extension()
	}
	if ext == "" {
		ext = ".png"
	}
	return base + "-cutout" + ext
}

// DetectKind derives the image/video kind tag from the declared media type,
// sniffing the payload when the declaration is missing or ambiguous.
func DetectKind(mediaType string, payload []byte) Kind {
	declared := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case strings.HasPrefix(declared, "video"):
		return KindVideo
	case strings.HasPrefix(declared, "image"):
		return KindImage
	}
	if strings.HasPrefix(mimetype.Detect(payload).String(), "video") {
		return KindVideo
	}
	return KindImage
}

// StatsSummary counts records per derivation state.
type StatsSummary struct {
	Total      int
	Processed  int
	Processing int
	Captioned  int
}

// DatabaseHealth captures diagnostic information about the library database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalRecords     int
	Error            string
}
