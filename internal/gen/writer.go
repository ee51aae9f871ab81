package gen

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Writer writes generated files atomically: content goes to a temporary file
// in the target directory which is then renamed over the destination, so a
// failed run never leaves a partial artifact behind.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer on fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write stores file in dir, creating dir if needed, and returns the path.
func (w *Writer) Write(dir string, file *GeneratedFile) (string, error) {
	if err := w.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	target := filepath.Join(dir, file.Filename)

	tmp, err := afero.TempFile(w.fs, dir, "."+file.Filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file for %s: %w", file.Filename, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(file.Content); err != nil {
		_ = tmp.Close()
		_ = w.fs.Remove(tmpName)

		return "", fmt.Errorf("writing file %s: %w", file.Filename, err)
	}

	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName)

		return "", fmt.Errorf("writing file %s: %w", file.Filename, err)
	}

	if err := w.fs.Chmod(tmpName, filePerm); err != nil {
		_ = w.fs.Remove(tmpName)

		return "", fmt.Errorf("setting permissions of %s: %w", file.Filename, err)
	}

	if err := w.fs.Rename(tmpName, target); err != nil {
		_ = w.fs.Remove(tmpName)

		return "", fmt.Errorf("replacing %s: %w", target, err)
	}

	return target, nil
}
