// Package removal bridges the external background-removal pipeline into the
// library. The pipeline writes its results as files named after the record id
// in the processed directory; a polling watcher ingests each result exactly
// once and files it under done/ or failed/ afterwards.
package removal
