// Package ioinfo normalizes load and dump targets into a single descriptor.
//
// A target is one of:
//   - nil (KindNone)
//   - a path string (KindPath)
//   - a stream that can name itself, such as *os.File (KindFile)
//   - an anonymous io.Reader or io.Writer (KindStream)
//
// Info values are created per call and never mutated afterwards.
package ioinfo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedSource is returned when a target is neither a path nor a stream.
var ErrUnsupportedSource = errors.New("unsupported input/output source")

// Kind classifies the original source of an Info.
type Kind int

const (
	// KindNone means no source was given.
	KindNone Kind = iota
	// KindPath is a filesystem path string.
	KindPath
	// KindFile is a stream that also knows its path (e.g. *os.File).
	KindFile
	// KindStream is a stream without a resolvable path.
	KindStream
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindFile:
		return "file"
	case KindStream:
		return "stream"
	default:
		return "none"
	}
}

// Info describes a load or dump target.
type Info struct {
	// Source is the object given by the caller.
	Source any
	// Kind is the classification of Source.
	Kind Kind
	// Path is the absolute, cleaned path, or empty for anonymous streams.
	Path string
	// Extension is the lowercase file extension without the leading dot.
	Extension string
}

type namer interface {
	Name() string
}

// Make normalizes src into an Info. Passing an Info (or *Info) returns it unchanged.
func Make(src any) (Info, error) {
	switch val := src.(type) {
	case nil:
		return Info{Kind: KindNone}, nil
	case Info:
		return val, nil
	case *Info:
		if val == nil {
			return Info{Kind: KindNone}, nil
		}

		return *val, nil
	case string:
		if val == "" {
			return Info{Kind: KindNone}, nil
		}

		return fromPath(val, val, KindPath)
	}

	_, isReader := src.(io.Reader)
	_, isWriter := src.(io.Writer)

	if !isReader && !isWriter {
		return Info{}, fmt.Errorf("%w: %T", ErrUnsupportedSource, src)
	}

	if named, ok := src.(namer); ok && named.Name() != "" && !isStdStream(named.Name()) {
		return fromPath(src, named.Name(), KindFile)
	}

	return Info{Source: src, Kind: KindStream}, nil
}

// MustMake is like Make but panics on error. Intended for tests and literals.
func MustMake(src any) Info {
	info, err := Make(src)
	if err != nil {
		panic(err)
	}

	return info
}

// IsPath reports whether the Info refers to a filesystem path the caller did not open.
func (i Info) IsPath() bool {
	return i.Kind == KindPath
}

// IsStream reports whether the Info wraps a caller-owned stream.
func (i Info) IsStream() bool {
	return i.Kind == KindFile || i.Kind == KindStream
}

// Reader returns the source as an io.Reader when it is a stream.
func (i Info) Reader() (io.Reader, bool) {
	r, ok := i.Source.(io.Reader)

	return r, ok && i.IsStream()
}

// Writer returns the source as an io.Writer when it is a stream.
func (i Info) Writer() (io.Writer, bool) {
	w, ok := i.Source.(io.Writer)

	return w, ok && i.IsStream()
}

// Exists reports whether the path of a KindPath Info exists. Streams always exist.
func (i Info) Exists() bool {
	if i.Kind != KindPath {
		return i.Kind != KindNone
	}

	_, err := os.Stat(i.Path)

	return err == nil
}

// String implements fmt.Stringer.
func (i Info) String() string {
	if i.Path != "" {
		return i.Path
	}

	return "<" + i.Kind.String() + ">"
}

// Ext returns the normalized extension of a path: lowercase, no leading dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func fromPath(src any, path string, kind Kind) (Info, error) {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return Info{}, fmt.Errorf("resolving path %q: %w", path, err)
	}

	return Info{
		Source:    src,
		Kind:      kind,
		Path:      abs,
		Extension: Ext(abs),
	}, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func isStdStream(name string) bool {
	switch name {
	case os.Stdin.Name(), os.Stdout.Name(), os.Stderr.Name():
		return true
	default:
		return false
	}
}
