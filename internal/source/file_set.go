package source

import (
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"
)

// FileSet manages the source files of one analyzed program and resolves
// spans into line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from in-memory bytes, computes LineIdx and Hash, and
// returns its FileID. A later Add with the same path shadows the earlier
// entry in the path index.
func (fs *FileSet) Add(path string, content []byte) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalized := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
	})
	fs.index[normalized] = id
	return id
}

// Get returns the file metadata for the given ID.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// GetByPath returns the file registered under path, if any.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Len returns the number of registered files.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Resolve converts a span into start and end line/column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Line returns the content of the given 1-based line, without the
// trailing newline. Out-of-range lines yield "".
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineIdx)+1 {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2]
	}
	end := uint32(len(f.Content))
	if int(lineNum) <= len(f.LineIdx) {
		end = f.LineIdx[lineNum-1] - 1 // strip '\n'
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// NumLines returns the number of lines in the file. Empty content counts
// as a single empty line.
func (f *File) NumLines() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	return n
}
