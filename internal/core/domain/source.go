package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceFile is one shader source file tracked by the source database.
type SourceFile struct {
	// Path is the absolute, cleaned path of the file.
	Path InternedString
	// Text is the raw file content as last read.
	Text string
	// ModTime is the modification time observed when Text was read.
	ModTime time.Time
	// Digest is the content hash of Text.
	Digest uint64
}

// Equal reports whether two sources name the same file. Content is ignored.
func (s SourceFile) Equal(other SourceFile) bool {
	return s.Path == other.Path
}

// Dir returns the directory containing the source.
func (s SourceFile) Dir() string {
	return filepath.Dir(s.Path.String())
}

// IsNewer reports whether t is strictly after the cached modification time.
func (s SourceFile) IsNewer(t time.Time) bool {
	return t.After(s.ModTime)
}

// Lines returns the text split into lines, without line terminators.
// A trailing newline does not produce an empty final line.
func (s SourceFile) Lines() []string {
	return SplitLines(s.Text)
}

// SplitLines splits text on \n, trimming a trailing \r from every line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
