package sync

import "os"

// FileSystem is the export channel.
type FileSystem interface {
	MkdirAll(path string) error
	WriteFile(path string, data []byte) error
}

// OSFileSystem writes to the local disk.
type OSFileSystem struct{}

// MkdirAll creates path and any missing parents with mode 0755.
func (OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile replaces the file at path with data, mode 0644.
func (OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
