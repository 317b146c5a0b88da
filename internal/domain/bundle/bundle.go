package bundle

import (
	"sort"
	"strings"
)

// CompressedSuffix is appended to the name of every compressed artifact.
const CompressedSuffix = ".gz"

// Layout names the directories taking part in a packaging run.
type Layout struct {
	// CSSDir holds stylesheets; every file in it is compressed.
	CSSDir string
	// JSDir holds scripts; every file in it is compressed.
	JSDir string
	// HTMLDir holds pages; files in it are published uncompressed.
	HTMLDir string
	// OutputDir is the staging directory the bundle is assembled in.
	OutputDir string
	// DataDir is the directory the firmware filesystem image is built from.
	DataDir string
}

// Artifact describes a file that was compressed into the bundle.
type Artifact struct {
	// Name is the file name inside the bundle, suffix included.
	Name string
	// OriginalSize is the size of the uncompressed source in bytes.
	OriginalSize int64
	// CompressedSize is the size of the compressed file in bytes.
	CompressedSize int64
}

// Ratio returns the compressed size as a fraction of the original size.
func (a *Artifact) Ratio() float64 {
	if a.OriginalSize == 0 {
		return 0
	}

	return float64(a.CompressedSize) / float64(a.OriginalSize)
}

// Report summarises a finished packaging run.
type Report struct {
	// OutputDir is where the bundle was assembled.
	OutputDir string
	// DataDir is where the bundle was published.
	DataDir string
	// Compressed lists the gzip artifacts in the order they were produced.
	Compressed []Artifact
	// Plain lists the files that were published as-is.
	Plain []string
}

// Files returns every file name of the bundle in lexical order.
func (r *Report) Files() []string {
	files := make([]string, 0, len(r.Compressed)+len(r.Plain))
	for _, artifact := range r.Compressed {
		files = append(files, artifact.Name)
	}

	files = append(files, r.Plain...)
	sort.Strings(files)

	return files
}

// CompressedName returns the bundle name of a compressed source file.
func CompressedName(name string) string {
	return name + CompressedSuffix
}

// IsCompressed reports whether name looks like a compressed artifact.
func IsCompressed(name string) bool {
	return strings.HasSuffix(name, CompressedSuffix)
}
