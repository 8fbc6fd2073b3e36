package mock

import (
	"sync"

	"github.com/digitalcorenz/web2md"
)

var _ web2md.FileService = (*FileService)(nil)

// FileService is a mock implementation of web2md.FileService.
type FileService struct {
	ReadFileFn   func(path string) (string, error)
	WriteFileFn  func(path, content string, overwrite bool) error
	ClearFileFn  func(path string) error
	AppendFileFn func(path, content string) error
	ExistsFn     func(path string) bool
	RenameFileFn func(oldPath, newPath string) error
}

func (s *FileService) ReadFile(path string) (string, error) {
	return s.ReadFileFn(path)
}

func (s *FileService) WriteFile(path, content string, overwrite bool) error {
	return s.WriteFileFn(path, content, overwrite)
}

func (s *FileService) ClearFile(path string) error {
	return s.ClearFileFn(path)
}

func (s *FileService) AppendFile(path, content string) error {
	return s.AppendFileFn(path, content)
}

func (s *FileService) Exists(path string) bool {
	return s.ExistsFn(path)
}

func (s *FileService) RenameFile(oldPath, newPath string) error {
	return s.RenameFileFn(oldPath, newPath)
}

// MemoryFiles returns a FileService backed by a map. It follows the
// semantics of fs.FileService, which makes it useful for tests that check
// what ends up on disk rather than how it got there.
func MemoryFiles() (*FileService, map[string]string) {
	var mu sync.Mutex
	files := map[string]string{}

	return &FileService{
		ReadFileFn: func(path string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			content, ok := files[path]
			if !ok {
				return "", web2md.Errorf(web2md.EFILE, "input file not found: %s", path)
			}
			return content, nil
		},
		WriteFileFn: func(path, content string, overwrite bool) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := files[path]; ok && !overwrite {
				return web2md.Errorf(web2md.EFILE, "file already exists: %s", path)
			}
			files[path] = content
			return nil
		},
		ClearFileFn: func(path string) error {
			mu.Lock()
			defer mu.Unlock()
			files[path] = ""
			return nil
		},
		AppendFileFn: func(path, content string) error {
			mu.Lock()
			defer mu.Unlock()
			files[path] = web2md.AppendDocument(files[path], content)
			return nil
		},
		ExistsFn: func(path string) bool {
			mu.Lock()
			defer mu.Unlock()
			_, ok := files[path]
			return ok
		},
		RenameFileFn: func(oldPath, newPath string) error {
			mu.Lock()
			defer mu.Unlock()
			content, ok := files[oldPath]
			if !ok {
				return web2md.Errorf(web2md.EFILE, "file not found: %s", oldPath)
			}
			if _, ok := files[newPath]; ok {
				return web2md.Errorf(web2md.EFILE, "file already exists: %s", newPath)
			}
			delete(files, oldPath)
			files[newPath] = content
			return nil
		},
	}, files
}
