// Package captioning coordinates per-record asynchronous caption generation.
//
// The Orchestrator enforces the caption lifecycle: idle records may dispatch
// exactly one in-flight request, completed records never regenerate, and
// failures return the record to idle without persisting anything. The
// inference capability is an interface so tests and the daemon can swap the
// HTTP vision client for stubs.
package captioning
