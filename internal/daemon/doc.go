// Package daemon coordinates the long-running cutout process.
//
// It wires configuration, the library store, the processed-intake watcher,
// and the optional auto-caption worker into a single lifecycle with
// flock-based locking to prevent multiple instances.
//
// Keep orchestration logic here: captioning and intake behavior live in their
// respective packages while the daemon focuses on startup, shutdown, and high
// level coordination.
package daemon
