package backend

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/0xalexb/anyconf/ioinfo"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Load reads the target described by info and parses it with b.
//
// Paths are opened and closed here. Streams belong to the caller and are left open.
// Backends implementing StreamLoader get the stream directly; others receive the
// fully read content through Loads.
func Load(b Backend, info ioinfo.Info, opts Options) (map[string]any, error) {
	opts = LoadOptionsOf(b, opts)

	switch info.Kind {
	case ioinfo.KindPath:
		file, err := os.Open(info.Path) // #nosec G304 -- loading user supplied config paths is the purpose
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", info.Path, err)
		}
		defer file.Close()

		return loadReader(b, file, opts)
	case ioinfo.KindFile, ioinfo.KindStream:
		reader, ok := info.Reader()
		if !ok {
			return nil, fmt.Errorf("%w: %s is not readable", ioinfo.ErrUnsupportedSource, info)
		}

		return loadReader(b, reader, opts)
	default:
		return nil, ErrNoInput
	}
}

// LoadString parses content with b after filtering opts.
func LoadString(b Backend, content []byte, opts Options) (map[string]any, error) {
	return b.Loads(content, LoadOptionsOf(b, opts))
}

// Dump serializes data with b and writes it to the target described by info.
//
// For paths the parent directory is created first and the file is replaced
// atomically. Streams are written to and left open.
func Dump(b Backend, data map[string]any, info ioinfo.Info, opts Options) error {
	content, err := DumpString(b, data, opts)
	if err != nil {
		return err
	}

	switch info.Kind {
	case ioinfo.KindPath:
		return writeFileAtomic(info.Path, content)
	case ioinfo.KindFile, ioinfo.KindStream:
		writer, ok := info.Writer()
		if !ok {
			return fmt.Errorf("%w: %s is not writable", ioinfo.ErrUnsupportedSource, info)
		}

		_, err = writer.Write(content)
		if err != nil {
			return fmt.Errorf("writing %s: %w", info, err)
		}

		return nil
	default:
		return ErrNoInput
	}
}

// DumpString serializes data with b after filtering opts.
func DumpString(b Backend, data map[string]any, opts Options) ([]byte, error) {
	dumper, ok := b.(Dumper)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotDumpable, b)
	}

	return dumper.Dumps(data, DumpOptionsOf(b, opts))
}

func loadReader(b Backend, r io.Reader, opts Options) (map[string]any, error) {
	if streamer, ok := b.(StreamLoader); ok {
		return streamer.LoadStream(r, opts)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return b.Loads(content, opts)
}

// writeFileAtomic writes through a temp file in the same directory and renames it into place.
// targetMode keeps the permissions of an existing file, or filePerm for a new one.
func targetMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return filePerm
	}

	return info.Mode().Perm()
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %q: %w", dir, err)
	}

	tmpName := tmp.Name()

	_, err = io.Copy(tmp, bytes.NewReader(content))
	if err == nil {
		err = tmp.Chmod(targetMode(path))
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("writing %q: %w", path, err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("replacing %q: %w", path, err)
	}

	return nil
}
