// Package version exposes build metadata for gui-pack.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version
