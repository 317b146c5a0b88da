// Package bundle contains the core types of the web GUI bundle.
//
// It defines Layout (where sources are read from and where the bundle is
// assembled and published), Artifact (one compressed file) and Report (the
// summary of a finished packaging run).
package bundle
