package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/gui-pack/internal/domain/bundle"
)

// Config holds the directory names of a packaging run.
type Config struct {
	// CSSDir is the stylesheet source directory.
	CSSDir string `yaml:"css_dir"`
	// JSDir is the script source directory.
	JSDir string `yaml:"js_dir"`
	// HTMLDir is the page source directory.
	HTMLDir string `yaml:"html_dir"`
	// OutputDir is the staging directory, recreated on every run.
	OutputDir string `yaml:"output_dir"`
	// DataDir is the firmware data directory, recreated on every run.
	DataDir string `yaml:"data_dir"`
}

const (
	// DefaultCSSDir is the stylesheet source directory relative to the working directory.
	DefaultCSSDir = "css"

	// DefaultJSDir is the script source directory relative to the working directory.
	DefaultJSDir = "js"

	// DefaultHTMLDir is the page source directory relative to the working directory.
	DefaultHTMLDir = "html"

	// DefaultOutputDir is the staging directory relative to the working directory.
	DefaultOutputDir = "output"

	// DataDirName is the name of the data directory next to the tool's install directory.
	DataDirName = "data"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errDirectoryRequired is returned when a directory name is empty.
	errDirectoryRequired = errors.New("directory must be provided")
	// errDirectoriesOverlap is returned when a recreated directory is also used elsewhere.
	errDirectoriesOverlap = errors.New("directories overlap")
)

// executablePath locates the running binary.
//
//nolint:gochecknoglobals // Replaced in tests to simulate an unlocatable executable.
var executablePath = os.Executable

// Default returns the fixed layout. The data directory is resolved from the
// location of the running executable, following symlinks.
func Default() (*Config, error) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}

	cfg := defaultSources()
	cfg.DataDir = dataDir

	return cfg, nil
}

// DefaultDataDir returns the data directory one level above the executable's directory.
func DefaultDataDir() (string, error) {
	executable, err := executablePath()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}

	if executable, err = filepath.EvalSymlinks(executable); err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}

	return filepath.Join(filepath.Dir(executable), "..", DataDirName), nil
}

// Load returns the default layout, overlaid with the YAML file at path when path is not empty.
// Relative directories from the file are used as-is, i.e. relative to the working directory.
// The executable is only located when the file leaves data_dir unset.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := defaultSources()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if cfg.DataDir == "" {
		if cfg.DataDir, err = DefaultDataDir(); err != nil {
			return nil, err
		}
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultSources returns the working-directory part of the fixed layout.
func defaultSources() *Config {
	return &Config{
		CSSDir:    DefaultCSSDir,
		JSDir:     DefaultJSDir,
		HTMLDir:   DefaultHTMLDir,
		OutputDir: DefaultOutputDir,
	}
}

// Validate checks that every directory is named and that the recreated
// directories do not coincide with each other or with a source directory.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	named := []struct {
		key   string
		value string
	}{
		{"css_dir", cfg.CSSDir},
		{"js_dir", cfg.JSDir},
		{"html_dir", cfg.HTMLDir},
		{"output_dir", cfg.OutputDir},
		{"data_dir", cfg.DataDir},
	}

	for _, dir := range named {
		if dir.value == "" {
			return fmt.Errorf("%s: %w", dir.key, errDirectoryRequired)
		}
	}

	for _, recreated := range []string{cfg.OutputDir, cfg.DataDir} {
		seen := 0

		for _, dir := range named {
			if samePath(recreated, dir.value) {
				seen++
			}
		}

		if seen > 1 {
			return fmt.Errorf("%s: %w", recreated, errDirectoriesOverlap)
		}
	}

	return nil
}

// Layout converts the configuration into the pipeline layout.
func (c *Config) Layout() bundle.Layout {
	return bundle.Layout{
		CSSDir:    c.CSSDir,
		JSDir:     c.JSDir,
		HTMLDir:   c.HTMLDir,
		OutputDir: c.OutputDir,
		DataDir:   c.DataDir,
	}
}

// samePath reports whether a and b name the same location once made absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return absA == absB
}
