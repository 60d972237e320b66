// Package fsext provides extended file system functions
package fsext

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Fs represents a file system
type Fs = afero.Fs

// FilePathSeparator is the FilePathSeparator to be used within a file system
const FilePathSeparator = afero.FilePathSeparator

// NewMemMapFs returns a Fs that is in memory
func NewMemMapFs() Fs {
	return afero.NewMemMapFs()
}

// NewReadOnlyFs returns a Fs wrapping the provided one and returning error on any not read operation.
func NewReadOnlyFs(fs Fs) Fs {
	return afero.NewReadOnlyFs(fs)
}

// NewOsFs returns a new wrapped os.Fs
func NewOsFs() Fs {
	return afero.NewOsFs()
}

// WriteFile writes the provided data to the provided fs in the provided filename
func WriteFile(fs Fs, filename string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(fs, filename, data, perm)
}

// ReadFile reads the whole file from the filesystem
func ReadFile(fs Fs, filename string) ([]byte, error) {
	return afero.ReadFile(fs, filename)
}

// ReadDir reads the given directory and returns its entries sorted by name
func ReadDir(fs Fs, dirname string) ([]os.FileInfo, error) {
	return afero.ReadDir(fs, dirname)
}

// Exists checks if the provided path exists on the filesystem
func Exists(fs Fs, path string) (bool, error) {
	return afero.Exists(fs, path)
}

// IsDir checks if the provided path is a directory
func IsDir(fs Fs, path string) (bool, error) {
	return afero.IsDir(fs, path)
}

// JoinFilePath is a wrapper around filepath.Join
// starting go 1.20 on Windows, Clean (that is using inside the
// filepath.Join) does not modify the volume name
// other than to replace occurrences of "/" with `\`.
// that's why we need to add a leading slash to the path
// go.1.19: filepath.Join("\\c:", "test")  // \c:\test
// go.1.20: filepath.Join("\\c:", "test")  // \c:test
func JoinFilePath(b, p string) string {
	return filepath.Join(b, filepath.Clean("/"+p))
}
