// Package view renders live library snapshots as terminal tables. The
// renderer owns the display-handle lifecycle for what it shows: every render
// cycle gets a fresh handle scope and the previous cycle's scope is released
// once the new table is written.
package view
