// Package packager assembles the web GUI bundle consumed by the firmware.
//
// It stages CSS and JS sources into the output directory, replaces each of
// them with a gzip-compressed sibling, adds the HTML pages uncompressed, and
// finally replaces the data directory with a copy of the output directory.
// Every run starts from scratch; the first failure aborts it without rollback.
package packager
