package bundle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReportFiles ensures compressed and plain names are merged and sorted.
func TestReportFiles(t *testing.T) {
	t.Parallel()

	report := &Report{
		Compressed: []Artifact{
			{Name: "mvp.css.gz"},
			{Name: "main.js.gz"},
		},
		Plain: []string{"index.html"},
	}

	require.Equal(t, []string{"index.html", "main.js.gz", "mvp.css.gz"}, report.Files())
}

// TestArtifactRatio covers the empty-source case.
func TestArtifactRatio(t *testing.T) {
	t.Parallel()

	empty := &Artifact{Name: "empty.js.gz", CompressedSize: 20}
	require.Zero(t, empty.Ratio())

	half := &Artifact{Name: "main.js.gz", OriginalSize: 200, CompressedSize: 100}
	require.InDelta(t, 0.5, half.Ratio(), 1e-9)
}

// TestCompressedName checks the suffix helpers agree with each other.
func TestCompressedName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "reset.css.gz", CompressedName("reset.css"))
	require.True(t, IsCompressed(CompressedName("reset.css")))
	require.False(t, IsCompressed("index.html"))
}
