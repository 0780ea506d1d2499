package rules

import "testing"

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern, path string
		want          bool
	}{
		{"vendor/**", "vendor/a.vl", true},
		{"vendor/**", "vendor/deep/nested/b.vl", true},
		{"vendor/**", "vendor", false},
		{"**", "a.vl", true},
		{"**", "deep/nested/b.vl", true},
		{"**/gen.vl", "gen.vl", true},
		{"**/gen.vl", "a/b/gen.vl", true},
		{"gen/*.vl", "gen/x.vl", true},
		{"gen/*.vl", "gen/sub/x.vl", false},
		{"*.vl", "main.vl", true},
		{"*.vl", "src/main.vl", false},
		{"src/**/test_*.vl", "src/test_io.vl", true},
		{"src/**/test_*.vl", "src/a/b/test_io.vl", true},
		{"src/**/test_*.vl", "src/a/io.vl", false},
	}
	for _, c := range cases {
		if got := matchGlob(c.pattern, c.path); got != c.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", c.pattern, c.path, got, c.want)
		}
	}
}

func TestExcludedNormalizesPaths(t *testing.T) {
	globs := []string{"vendor/**"}
	if !excluded(globs, "./vendor/a.vl") {
		t.Error("leading ./ should be ignored")
	}
	if !excluded(globs, `vendor\a.vl`) {
		t.Error("backslash separators should match")
	}
	if excluded(globs, "src/vendor.vl") {
		t.Error("non-matching path excluded")
	}
	if excluded(nil, "src/a.vl") {
		t.Error("empty glob list excluded a path")
	}
}
