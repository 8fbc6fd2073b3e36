package web2md

// FileService reads and writes the text files the pipeline uses.
// All failures are reported as EFILE errors.
type FileService interface {
	// ReadFile returns the UTF-8 content of path.
	ReadFile(path string) (string, error)

	// WriteFile writes content to path, creating parent directories.
	// If path exists and overwrite is false it fails without writing.
	WriteFile(path, content string, overwrite bool) error

	// ClearFile truncates path to empty content, creating it if missing.
	ClearFile(path string) error

	// AppendFile appends content to path, preceded by DocumentSeparator when
	// the file already has content. Either the whole content is appended or
	// the file is left untouched.
	AppendFile(path, content string) error

	// Exists reports whether path exists.
	Exists(path string) bool

	// RenameFile moves oldPath to newPath, failing if newPath exists.
	RenameFile(oldPath, newPath string) error
}
