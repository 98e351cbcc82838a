package repository

import (
	"context"

	"github.com/spf13/afero"
)

// FileSystemRepository is the filesystem project files are read from and written to.
type FileSystemRepository interface {
	afero.Fs
}

// MetadataRepository reads and writes the project version in every tracked location.
type MetadataRepository interface {
	ReadVersion(ctx context.Context) (string, error)
	// WriteVersion updates every location and returns the paths that were written.
	WriteVersion(ctx context.Context, version string) ([]string, error)
	// ReadDependencyVersion returns the declared version of a dependency with any
	// leading constraint operator removed.
	ReadDependencyVersion(ctx context.Context, name string) (string, error)
}
