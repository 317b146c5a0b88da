// Package assets implements the filesystem operations of the bundle pipeline.
//
// The FileRepository resets directories, flat-copies files between them and
// replaces files with gzip-compressed siblings. It exposes a Repository
// interface that the packager service depends on.
package assets
