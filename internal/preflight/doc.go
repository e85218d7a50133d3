// Package preflight validates the runtime environment before the daemon or
// CLI does real work: directory permissions and, when configured, the caption
// inference endpoint.
package preflight
