// Package config describes the directory layout used by gui-pack.
//
// Default returns the fixed layout: css, js, html and output under the working
// directory, and data one level above the executable. Load overlays an optional
// YAML file on top of it, and Validate rejects layouts that would destroy sources.
package config
