package rules

import (
	"path"
	"strings"
)

// matchGlob matches slash-separated paths against a glob pattern.
// Plain segments use path.Match semantics; a ** segment spans any
// number of segments. A trailing ** names the contents of a directory,
// not the directory itself, as in gitignore.
func matchGlob(pattern, p string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(p, "/"))
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			if len(pat) == 1 {
				return len(segs) > 0
			}
			// Interior ** swallows zero or more leading segments.
			for skip := 0; skip <= len(segs); skip++ {
				if matchSegments(pat[1:], segs[skip:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(pat[0], segs[0])
		if err != nil || !ok {
			return false
		}
		pat = pat[1:]
		segs = segs[1:]
	}
	return len(segs) == 0
}

// excluded reports whether a module path matches any exclusion glob.
func excluded(globs []string, modPath string) bool {
	p := strings.TrimPrefix(strings.ReplaceAll(modPath, "\\", "/"), "./")
	for _, g := range globs {
		if matchGlob(g, p) {
			return true
		}
	}
	return false
}
