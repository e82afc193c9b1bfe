package expand_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/anyconf/expand"
	"github.com/0xalexb/anyconf/ioinfo"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte("{}"), 0o600))
	}
}

func paths(infos []ioinfo.Info, dir string) []string {
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		rel, err := filepath.Rel(dir, info.Path)
		if err != nil {
			rel = info.Path
		}

		out = append(out, filepath.ToSlash(rel))
	}

	return out
}

func TestPaths_GlobSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "c.json", "a.json", "b.json", "skip.yml", "sub/d.json")

	infos, err := expand.Paths(filepath.Join(dir, "*.json"), expand.DefaultMarker, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json", "c.json"}, paths(infos, dir))

	for _, info := range infos {
		assert.Equal(t, ioinfo.KindPath, info.Kind)
		assert.Equal(t, "json", info.Extension)
	}
}

func TestPaths_RecursiveGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "conf/a.yml", "conf/x/b.yml", "conf/x/y/c.yml", "conf/x/y/c.txt")

	infos, err := expand.Paths(filepath.Join(dir, "conf", "**", "*.yml"), "", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"conf/x/b.yml", "conf/x/y/c.yml"}, paths(infos, dir))
}

func TestPaths_MiddleWildcard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "one/app.toml", "two/app.toml", "two/deeper/app.toml", "two/other.toml")

	infos, err := expand.Paths(filepath.Join(dir, "*", "app.toml"), "*", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"one/app.toml", "two/app.toml"}, paths(infos, dir))
}

func TestPaths_NoMatches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	infos, err := expand.Paths(filepath.Join(dir, "missing", "*.json"), "*", nil)

	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestPaths_DirectoryUsesAccept(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "b.yaml", "a.json", "notes.txt", "nested/c.json")

	accept := func(ext string) bool { return ext == "json" || ext == "yaml" }

	infos, err := expand.Paths(dir, "*", accept)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.yaml"}, paths(infos, dir))
}

func TestPaths_ListKeepsOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "z.json", "g/2.json", "g/1.json")

	stream := strings.NewReader("{}")

	infos, err := expand.Paths([]any{
		filepath.Join(dir, "z.json"),
		[]string{filepath.Join(dir, "g", "*.json")},
		stream,
		nil,
		"",
	}, "*", nil)

	require.NoError(t, err)
	require.Len(t, infos, 4)
	assert.Equal(t, []string{"z.json", "g/1.json", "g/2.json"}, paths(infos[:3], dir))
	assert.Equal(t, ioinfo.KindStream, infos[3].Kind)
	assert.Same(t, stream, infos[3].Source)
}

func TestPaths_MissingPlainPathKept(t *testing.T) {
	t.Parallel()

	infos, err := expand.Paths("does/not/exist.json", "*", nil)

	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Exists())
}

func TestPaths_Errors(t *testing.T) {
	t.Parallel()

	_, err := expand.Paths(42, "*", nil)
	require.ErrorIs(t, err, ioinfo.ErrUnsupportedSource)

	_, err = expand.Paths("conf/[*.json", "*", nil)
	require.ErrorIs(t, err, expand.ErrBadPattern)
}

func TestIsMulti(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  any
		marker string
		want   bool
	}{
		{name: "plain path", input: "a.json", marker: "*", want: false},
		{name: "glob", input: "conf/*.json", marker: "*", want: true},
		{name: "default marker", input: "conf/*.json", marker: "", want: true},
		{name: "custom marker", input: "conf/@.json", marker: "@", want: true},
		{name: "string list", input: []string{"a.json"}, marker: "*", want: true},
		{name: "any list", input: []any{"a.json"}, marker: "*", want: true},
		{name: "stream", input: strings.NewReader(""), marker: "*", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, expand.IsMulti(tt.input, tt.marker))
		})
	}
}
