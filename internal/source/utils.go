package source

import (
	"path/filepath"
	"strings"
)

// buildLineIndex records the byte offset just past each '\n', so that
// LineIdx[i] is the start offset of line i+2.
func buildLineIndex(content []byte) []uint32 {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i+1))
		}
	}
	return idx
}

// toLineCol converts a byte offset into a 1-based line/column pair using
// binary search over the line index.
func toLineCol(lineIdx []uint32, offset uint32) LineCol {
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) / 2
		if lineIdx[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	var lineStart uint32
	if lo > 0 {
		lineStart = lineIdx[lo-1]
	}
	return LineCol{Line: uint32(lo + 1), Col: offset - lineStart + 1}
}

// normalizePath canonicalizes separators so path lookups and exclude
// globs behave the same on every platform.
func normalizePath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "//", "/")
}
