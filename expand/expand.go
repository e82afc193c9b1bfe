// Package expand turns load inputs into a flat, ordered list of targets.
//
// Inputs may be a single path, a glob pattern, a directory, a stream, or a
// list of any of these. Glob patterns use github.com/gobwas/glob syntax with
// "/" as the separator, so "*" stays within one directory and "**" crosses
// directories. Matches of one pattern are sorted; the order of a list of
// inputs is preserved.
package expand

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/0xalexb/anyconf/ioinfo"
)

// DefaultMarker is the character whose presence makes a path a glob pattern.
const DefaultMarker = "*"

// ErrBadPattern is returned for glob patterns that do not compile.
var ErrBadPattern = errors.New("invalid glob pattern")

// Accept decides whether a file with the given extension (lowercase, no dot)
// is picked up when a directory is expanded. A nil Accept takes every file.
type Accept func(ext string) bool

// IsPattern reports whether s is a glob pattern for the given marker.
func IsPattern(s, marker string) bool {
	if marker == "" {
		marker = DefaultMarker
	}

	return strings.Contains(s, marker)
}

// IsMulti reports whether inputs needs expansion: a list, or a string holding the marker.
// A directory path is not detected here; deciding that needs the filesystem.
func IsMulti(inputs any, marker string) bool {
	switch val := inputs.(type) {
	case string:
		return IsPattern(val, marker)
	case []string, []any, []ioinfo.Info:
		return true
	default:
		return false
	}
}

// Paths expands inputs into targets.
func Paths(inputs any, marker string, accept Accept) ([]ioinfo.Info, error) {
	var out []ioinfo.Info

	err := collect(&out, inputs, marker, accept)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func collect(out *[]ioinfo.Info, input any, marker string, accept Accept) error {
	switch val := input.(type) {
	case nil:
		return nil
	case string:
		return collectString(out, val, marker, accept)
	case []string:
		for _, item := range val {
			err := collectString(out, item, marker, accept)
			if err != nil {
				return err
			}
		}

		return nil
	case []ioinfo.Info:
		*out = append(*out, val...)

		return nil
	case []any:
		for _, item := range val {
			err := collect(out, item, marker, accept)
			if err != nil {
				return err
			}
		}

		return nil
	}

	info, err := ioinfo.Make(input)
	if err != nil {
		return err
	}

	if info.Kind != ioinfo.KindNone {
		*out = append(*out, info)
	}

	return nil
}

func collectString(out *[]ioinfo.Info, input, marker string, accept Accept) error {
	if input == "" {
		return nil
	}

	var (
		paths []string
		err   error
	)

	switch {
	case IsPattern(input, marker):
		paths, err = Glob(input)
	case isDir(input):
		paths, err = Dir(input, accept)
	default:
		paths = []string{input}
	}

	if err != nil {
		return err
	}

	for _, p := range paths {
		info, err := ioinfo.Make(p)
		if err != nil {
			return err
		}

		*out = append(*out, info)
	}

	return nil
}

// Glob returns the regular files matching pattern, sorted.
// A pattern whose static prefix does not exist matches nothing.
func Glob(pattern string) ([]string, error) {
	cleaned := path.Clean(filepath.ToSlash(pattern))

	matcher, err := glob.Compile(cleaned, '/')
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBadPattern, pattern, err)
	}

	base, rest := splitStatic(cleaned)
	recursive := strings.Contains(strings.Join(rest, "/"), "**")

	root := filepath.FromSlash(base)
	if _, err := os.Stat(root); err != nil {
		return nil, nil //nolint:nilerr // nothing to match under a missing base
	}

	var matches []string

	err = filepath.WalkDir(root, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() {
			if !recursive && current != root && depth(root, current) >= len(rest) {
				return filepath.SkipDir
			}

			return nil
		}

		if matcher.Match(filepath.ToSlash(current)) {
			matches = append(matches, current)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}

	slices.Sort(matches)

	return matches, nil
}

// Dir returns the files directly inside dir whose extension is accepted, sorted.
func Dir(dir string, accept Accept) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %q: %w", dir, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if accept != nil && !accept(ioinfo.Ext(entry.Name())) {
			continue
		}

		files = append(files, filepath.Join(dir, entry.Name()))
	}

	slices.Sort(files)

	return files, nil
}

// splitStatic separates the leading segments without glob metacharacters
// from the rest of a slash separated pattern.
func splitStatic(pattern string) (string, []string) {
	segments := strings.Split(pattern, "/")

	idx := slices.IndexFunc(segments, func(seg string) bool {
		return strings.ContainsAny(seg, "*?[{\\")
	})
	if idx < 0 {
		idx = len(segments) - 1
	}

	base := strings.Join(segments[:idx], "/")

	switch {
	case base == "" && strings.HasPrefix(pattern, "/"):
		base = "/"
	case base == "":
		base = "."
	}

	return base, segments[idx:]
}

func depth(root, current string) int {
	rel, err := filepath.Rel(root, current)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

func isDir(p string) bool {
	stat, err := os.Stat(p)

	return err == nil && stat.IsDir()
}
