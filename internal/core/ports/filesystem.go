package ports

import "time"

// FileSystem is the narrow file access the source database needs.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ReadFile returns the full content of path.
	ReadFile(path string) ([]byte, error)
	// ModTime returns the last modification time of path.
	ModTime(path string) (time.Time, error)
}
