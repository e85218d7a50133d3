// Package library persists media records in SQLite and exposes a live,
// subscription-based view of the collection.
//
// The Store owns record identity and content: every mutation flows through
// Add, SetProcessed, SetCaption, or Remove, and each durably applied mutation
// synchronously republishes the full collection, newest first, to all active
// watchers. Subscribers therefore never poll and always observe their own
// writes.
//
// Schema changes are applied as additive, versioned migrations embedded in
// migrations/; existing records survive upgrades.
//
// Treat this package as the single source of truth for record semantics; when
// you add fields, add a migration rather than editing an applied one.
package library
