package anyconf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/ioinfo"
	"github.com/0xalexb/anyconf/registry"
)

const (
	// FallbackDumpType is used when the resolved backend cannot serialize.
	FallbackDumpType = "json"

	lockTimeout       = 5 * time.Second
	lockRetryInterval = 100 * time.Millisecond
	lockDirPerm       = 0o750
)

var errLockTimeout = errors.New("timed out acquiring lock")

// Dump serializes data to out: a path, a named file or a writer.
//
// The backend is resolved like for loading. When it cannot serialize, the
// json backend is used instead. Paths get their parent directory created and
// are replaced atomically.
func (l *Loader) Dump(data map[string]any, out any, opts ...CallOption) error {
	options := newCallOptions(opts)

	info, err := ioinfo.Make(out)
	if err != nil {
		return err
	}

	b, err := l.dumper(info, options.ForcedType)
	if err != nil {
		return err
	}

	if options.FileLock && info.IsPath() {
		unlock, err := lockPath(info.Path)
		if err != nil {
			return err
		}
		defer unlock()
	}

	return backend.Dump(b, data, info, options.Backend)
}

// Dumps serializes data in memory. A forced type is required.
func (l *Loader) Dumps(data map[string]any, opts ...CallOption) ([]byte, error) {
	options := newCallOptions(opts)

	if options.ForcedType == nil {
		return nil, fmt.Errorf("%w: dumping to a string needs a forced type", ErrNoInput)
	}

	b, err := l.dumper(ioinfo.Info{}, options.ForcedType)
	if err != nil {
		return nil, err
	}

	return backend.DumpString(b, data, options.Backend)
}

func (l *Loader) dumper(info ioinfo.Info, forced registry.ForcedType) (backend.Backend, error) {
	b, err := l.registry.Resolve(info, forced)
	if err != nil {
		return nil, err
	}

	if backend.CanDump(b) {
		return b, nil
	}

	l.logger.Warn("backend cannot dump, falling back",
		slog.String("target", info.String()), slog.String("fallback", FallbackDumpType))

	return l.registry.Resolve(info, registry.TypeName(FallbackDumpType))
}

// lockPath acquires path+".lock" and returns the release function.
func lockPath(path string) (func(), error) {
	err := os.MkdirAll(filepath.Dir(path), lockDirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating directory for %q: %w", path, err)
	}

	fileLock := flock.New(path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for %q: %w", path, err)
	}

	if !locked {
		return nil, fmt.Errorf("%w for %q after %v", errLockTimeout, path, lockTimeout)
	}

	return func() {
		unlockErr := fileLock.Unlock()
		if unlockErr != nil {
			slog.Warn("failed to release lock", slog.String("path", path), slog.String("error", unlockErr.Error()))
		}
	}, nil
}
