package integration

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/gui-pack/internal/repository/assets"
	"github.com/oshokin/gui-pack/internal/service/packager"
)

// settingsFilename is the YAML file pointing the data directory into the test workspace.
const settingsFilename = "gui-pack.yaml"

// workspace creates source directories under a fresh working directory and changes into it.
// It returns the absolute data directory configured for the run.
func workspace(t *testing.T, sources map[string]map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	for sourceDir, files := range sources {
		require.NoError(t, os.MkdirAll(sourceDir, 0o755))

		for name, contents := range files {
			require.NoError(t, os.WriteFile(filepath.Join(sourceDir, name), []byte(contents), 0o644))
		}
	}

	dataDir := filepath.Join(dir, "firmware", "data")
	require.NoError(t, os.MkdirAll(filepath.Dir(dataDir), 0o755))
	require.NoError(t, os.WriteFile(settingsFilename, []byte("data_dir: "+dataDir+"\n"), 0o600))

	return dataDir
}

// runPackager runs the packager with a timeout context and the workspace settings.
func runPackager(t *testing.T) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return packager.Run(ctx, &packager.Options{ConfigPath: settingsFilename})
}

// snapshot reads every file of a flat directory into memory.
func snapshot(t *testing.T, dir string) map[string][]byte {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	files := make(map[string][]byte, len(entries))

	for _, entry := range entries {
		require.False(t, entry.IsDir(), entry.Name())

		contents, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)

		files[entry.Name()] = contents
	}

	return files
}

// names returns the sorted keys of a snapshot.
func names(files map[string][]byte) []string {
	result := make([]string, 0, len(files))
	for name := range files {
		result = append(result, name)
	}

	sort.Strings(result)

	return result
}

// gunzip decompresses a single gzip member.
func gunzip(t *testing.T, contents []byte) []byte {
	t.Helper()

	zr, err := gzip.NewReader(bytes.NewReader(contents))
	require.NoError(t, err)

	zr.Multistream(false)

	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.NoError(t, zr.Close())

	return plain
}

// TestPackager_BuildsBundle checks compressed CSS/JS, verbatim HTML and identical output and data directories.
func TestPackager_BuildsBundle(t *testing.T) {
	sources := map[string]map[string]string{
		"css":  {"mvp.css": ":root{--color:#118bee}\nbody{margin:0}\n"},
		"js":   {"main.js": "fetch('/list').then(r => r.json());\n"},
		"html": {"index.html": "<!DOCTYPE html><title>%TITLE%</title>\n"},
	}
	dataDir := workspace(t, sources)

	require.NoError(t, runPackager(t))

	data := snapshot(t, dataDir)
	require.Equal(t, []string{"index.html", "main.js.gz", "mvp.css.gz"}, names(data))

	require.Equal(t, sources["css"]["mvp.css"], string(gunzip(t, data["mvp.css.gz"])))
	require.Equal(t, sources["js"]["main.js"], string(gunzip(t, data["main.js.gz"])))
	require.Equal(t, sources["html"]["index.html"], string(data["index.html"]))

	require.Equal(t, data, snapshot(t, "output"))
}

// TestPackager_Idempotent runs twice and expects byte-identical data directories.
func TestPackager_Idempotent(t *testing.T) {
	dataDir := workspace(t, map[string]map[string]string{
		"css":  {"mvp.css": "body{}", "print.css": "@media print{}"},
		"js":   {"main.js": "let frame = 0;"},
		"html": {"index.html": "<html></html>"},
	})

	require.NoError(t, runPackager(t))
	first := snapshot(t, dataDir)

	require.NoError(t, runPackager(t))
	require.Equal(t, first, snapshot(t, dataDir))
}

// TestPackager_ReplacesDataDirectory removes unrelated files from the data directory.
func TestPackager_ReplacesDataDirectory(t *testing.T) {
	dataDir := workspace(t, map[string]map[string]string{
		"css":  {"mvp.css": "body{}"},
		"js":   {"main.js": "1"},
		"html": {"index.html": "<html></html>"},
	})

	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "brightness"), []byte("40"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "images", "heart.gif"), []byte("GIF89a"), 0o644))

	require.NoError(t, runPackager(t))

	require.Equal(t, []string{"index.html", "main.js.gz", "mvp.css.gz"}, names(snapshot(t, dataDir)))
}

// TestPackager_NameCollision keeps only the script version when CSS and JS share a file name.
func TestPackager_NameCollision(t *testing.T) {
	dataDir := workspace(t, map[string]map[string]string{
		"css":  {"reset.css": "from css"},
		"js":   {"reset.css": "from js"},
		"html": {},
	})

	require.NoError(t, runPackager(t))

	data := snapshot(t, dataDir)
	require.Equal(t, []string{"reset.css.gz"}, names(data))
	require.Equal(t, "from js", string(gunzip(t, data["reset.css.gz"])))
}

// TestPackager_MissingStylesheets aborts before producing output and leaves the data directory alone.
func TestPackager_MissingStylesheets(t *testing.T) {
	dataDir := workspace(t, map[string]map[string]string{
		"js":   {"main.js": "1"},
		"html": {"index.html": "<html></html>"},
	})

	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "brightness"), []byte("40"), 0o644))

	err := runPackager(t)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorContains(t, err, "copy css")

	require.Empty(t, snapshot(t, "output"))
	require.Equal(t, []string{"brightness"}, names(snapshot(t, dataDir)))
}

// TestPackager_NestedDirectory fails when a source directory contains a subdirectory.
func TestPackager_NestedDirectory(t *testing.T) {
	workspace(t, map[string]map[string]string{
		"css":         {"mvp.css": "body{}"},
		"js":          {"main.js": "1"},
		"html":        {"index.html": "<html></html>"},
		"html/assets": {"logo.svg": "<svg/>"},
	})

	err := runPackager(t)
	require.ErrorIs(t, err, assets.ErrNotRegularFile)
	require.ErrorContains(t, err, "copy html")
}
