package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/oshokin/gui-pack/internal/domain/bundle"
	"github.com/oshokin/gui-pack/internal/logger"
)

// Repository defines the filesystem operations the packager relies on.
type Repository interface {
	ResetDirectory(ctx context.Context, path string) error
	List(ctx context.Context, dir string) ([]string, error)
	Copy(ctx context.Context, sourceDir, targetDir string) ([]string, error)
	CompressAndReplace(ctx context.Context, dir, name string) (*bundle.Artifact, error)
}

const (
	// DefaultDirPermissions is used for directories created by the repository.
	DefaultDirPermissions os.FileMode = 0o755

	// DefaultFilePermissions is used for compressed artifacts.
	DefaultFilePermissions os.FileMode = 0o644
)

// ErrNotRegularFile is returned when a flat copy meets a directory or another non-regular entry.
var ErrNotRegularFile = errors.New("not a regular file")

// FileRepository performs the pipeline operations directly on disk.
// Every file handle it opens is closed before the method returns.
type FileRepository struct {
	// dirMode is applied to directories created by ResetDirectory.
	dirMode os.FileMode
	// fileMode is applied to compressed artifacts.
	fileMode os.FileMode
	// level is the gzip compression level.
	level int
}

// NewFileRepository creates a repository using default permissions and gzip level.
func NewFileRepository() *FileRepository {
	return &FileRepository{
		dirMode:  DefaultDirPermissions,
		fileMode: DefaultFilePermissions,
		level:    gzip.DefaultCompression,
	}
}

// ResetDirectory removes path with everything beneath it and creates it again empty.
func (r *FileRepository) ResetDirectory(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path = filepath.Clean(path)

	if _, err := os.Lstat(path); err == nil {
		logger.DebugKV(ctx, "Removing directory", "path", path)

		if err = os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.Mkdir(path, r.dirMode); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	return nil
}

// List returns the names of the entries of dir in lexical order.
func (r *FileRepository) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// Copy copies every entry of sourceDir into targetDir under the same name,
// overwriting existing files. Subdirectories are not descended into: meeting
// one fails the copy with ErrNotRegularFile, leaving earlier entries copied.
func (r *FileRepository) Copy(ctx context.Context, sourceDir, targetDir string) ([]string, error) {
	names, err := r.List(ctx, sourceDir)
	if err != nil {
		return nil, err
	}

	copied := make([]string, 0, len(names))

	for _, name := range names {
		if err = ctx.Err(); err != nil {
			return copied, err
		}

		source := filepath.Join(sourceDir, name)
		target := filepath.Join(targetDir, name)

		logger.DebugKV(ctx, "Copying file", "source", source, "target", target)

		if err = copyFile(source, target); err != nil {
			return copied, err
		}

		copied = append(copied, name)
	}

	return copied, nil
}

// CompressAndReplace writes dir/name.gz as a single gzip member holding the
// contents of dir/name, then removes dir/name. A partially written .gz file is
// left in place when compression fails.
func (r *FileRepository) CompressAndReplace(ctx context.Context, dir, name string) (*bundle.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := filepath.Join(dir, name)
	target := filepath.Join(dir, bundle.CompressedName(name))

	originalSize, err := r.compressFile(source, target)
	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", source, err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}

	if err = os.Remove(source); err != nil {
		return nil, fmt.Errorf("remove %s: %w", source, err)
	}

	artifact := &bundle.Artifact{
		Name:           bundle.CompressedName(name),
		OriginalSize:   originalSize,
		CompressedSize: info.Size(),
	}

	logger.DebugKV(ctx, "Compressed file",
		"name", artifact.Name,
		"original_size", artifact.OriginalSize,
		"compressed_size", artifact.CompressedSize)

	return artifact, nil
}

// compressFile streams source through a gzip writer into target and returns the number of bytes read.
// The gzip header carries neither a name nor a modification time, so equal input gives equal output.
func (r *FileRepository) compressFile(source, target string) (int64, error) {
	in, err := os.Open(filepath.Clean(source))
	if err != nil {
		return 0, err
	}

	// Closed explicitly below, this one only covers early returns.
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(target), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, r.fileMode)
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = out.Close()
	}()

	zw, err := gzip.NewWriterLevel(out, r.level)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(zw, in)
	if err != nil {
		return 0, err
	}

	if err = zw.Close(); err != nil {
		return 0, err
	}

	if err = out.Close(); err != nil {
		return 0, err
	}

	return written, in.Close()
}

// copyFile copies a regular file from source to target, keeping its permission bits.
// The entry is checked before it is opened: opening a named pipe blocks until a writer shows up.
func copyFile(source, target string) error {
	info, err := os.Stat(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: %w", source, ErrNotRegularFile)
	}

	in, err := os.Open(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(target), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	defer func() {
		_ = out.Close()
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", source, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}

	// An overwritten target keeps its old mode otherwise.
	if err = os.Chmod(target, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", target, err)
	}

	return nil
}
