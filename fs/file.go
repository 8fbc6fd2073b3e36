// Package fs provides file-based implementations of the web2md file boundary.
package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/digitalcorenz/web2md"
)

// Ensure FileService implements web2md.FileService at compile time.
var _ web2md.FileService = (*FileService)(nil)

// FileService reads and writes UTF-8 text files. Relative paths are
// resolved against the base directory.
type FileService struct {
	baseDir string
}

// NewFileService creates a new FileService rooted at baseDir.
// An empty baseDir means the working directory.
func NewFileService(baseDir string) *FileService {
	return &FileService{baseDir: baseDir}
}

// Path returns the location path resolves to.
func (s *FileService) Path(path string) string {
	if filepath.IsAbs(path) || s.baseDir == "" {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// ReadFile returns the content of path.
func (s *FileService) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(s.Path(path))
	if errors.Is(err, fs.ErrNotExist) {
		return "", web2md.Errorf(web2md.EFILE, "input file not found: %s", path)
	} else if err != nil {
		return "", web2md.WrapError(err, web2md.EFILE, "failed to read file")
	}
	return string(b), nil
}

// WriteFile writes content to path, creating parent directories.
func (s *FileService) WriteFile(path, content string, overwrite bool) error {
	full := s.Path(path)
	if !overwrite && s.Exists(path) {
		return web2md.Errorf(web2md.EFILE, "file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return web2md.WrapError(err, web2md.EFILE, "failed to save file")
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return web2md.WrapError(err, web2md.EFILE, "failed to save file")
	}
	return nil
}

// ClearFile truncates path to empty content, creating it if missing.
func (s *FileService) ClearFile(path string) error {
	return s.WriteFile(path, "", true)
}

// AppendFile appends content to path with web2md.DocumentSeparator between
// documents. The combined text is written to a temporary file beside path
// and renamed over it, so an interrupted append leaves the old content.
func (s *FileService) AppendFile(path, content string) error {
	full := s.Path(path)

	existing := ""
	if b, err := os.ReadFile(full); err == nil {
		existing = string(b)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return web2md.WrapError(err, web2md.EFILE, "failed to read output file")
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return web2md.WrapError(err, web2md.EFILE, "failed to append to output file")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(full)+".*.tmp")
	if err != nil {
		return web2md.WrapError(err, web2md.EFILE, "failed to append to output file")
	}
	tmpName := tmp.Name()

	_, werr := tmp.WriteString(web2md.AppendDocument(existing, content))
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmpName)
		return web2md.WrapError(werr, web2md.EFILE, "failed to append to output file")
	}

	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return web2md.WrapError(err, web2md.EFILE, "failed to append to output file")
	}
	return nil
}

// Exists reports whether path exists.
func (s *FileService) Exists(path string) bool {
	_, err := os.Stat(s.Path(path))
	return err == nil
}

// RenameFile moves oldPath to newPath. It refuses to replace an existing file.
func (s *FileService) RenameFile(oldPath, newPath string) error {
	if !s.Exists(oldPath) {
		return web2md.Errorf(web2md.EFILE, "file not found: %s", oldPath)
	}
	if s.Exists(newPath) {
		return web2md.Errorf(web2md.EFILE, "file already exists: %s", newPath)
	}
	full := s.Path(newPath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return web2md.WrapError(err, web2md.EFILE, "failed to rename file")
	}
	if err := os.Rename(s.Path(oldPath), full); err != nil {
		return web2md.WrapError(err, web2md.EFILE, "failed to rename file")
	}
	return nil
}
