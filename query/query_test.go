package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/anyconf/query"
)

func sample() map[string]any {
	return map[string]any{
		"name": "app",
		"server": map[string]any{
			"host":  "localhost",
			"ports": []any{8080, 8443},
		},
		"servers": []any{
			map[string]any{"name": "a", "port": 7000},
			map[string]any{"name": "b", "port": 9000},
		},
		"a/b": "slash",
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	assert.Nil(t, query.Split(""))
	assert.Nil(t, query.Split("/"))
	assert.Equal(t, []string{"a", "b", "0"}, query.Split("a.b.0"))
	assert.Equal(t, []string{"a", "b"}, query.Split(".a.b"))
	assert.Equal(t, []string{"a", "b", "0"}, query.Split("/a/b/0"))
	assert.Equal(t, []string{"a/b", "c~d"}, query.Split("/a~1b/c~0d"))
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    any
		wantErr error
	}{
		{name: "top level", path: "name", want: "app"},
		{name: "nested", path: "server.host", want: "localhost"},
		{name: "list index", path: "server.ports.1", want: 8443},
		{name: "pointer", path: "/server/ports/0", want: 8080},
		{name: "escaped pointer", path: "/a~1b", want: "slash"},
		{name: "map in list", path: "servers.1.name", want: "b"},
		{name: "missing key", path: "server.user", wantErr: query.ErrNotFound},
		{name: "index out of range", path: "server.ports.5", wantErr: query.ErrNotFound},
		{name: "non numeric index", path: "server.ports.x", wantErr: query.ErrNotFound},
		{name: "crosses scalar", path: "name.first", wantErr: query.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := query.Get(sample(), tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_Root(t *testing.T) {
	t.Parallel()

	data := sample()

	got, err := query.Get(data, "")

	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSet(t *testing.T) {
	t.Parallel()

	data := sample()

	require.NoError(t, query.Set(data, "server.host", "0.0.0.0"))
	require.NoError(t, query.Set(data, "log.level", "debug"))
	require.NoError(t, query.Set(data, "/server/ports/0", 80))
	require.NoError(t, query.Set(data, "server.ports.2", 9090))
	require.NoError(t, query.Set(data, "/server/ports/-", 9091))
	require.NoError(t, query.Set(data, "servers.0.tls.enabled", true))

	assert.Equal(t, "0.0.0.0", data["server"].(map[string]any)["host"])
	assert.Equal(t, map[string]any{"level": "debug"}, data["log"])
	assert.Equal(t, []any{80, 8443, 9090, 9091}, data["server"].(map[string]any)["ports"])

	got, err := query.Get(data, "servers.0.tls.enabled")
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestSet_Errors(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, query.Set(sample(), "", 1), query.ErrInvalidPath)
	require.ErrorIs(t, query.Set(nil, "a", 1), query.ErrInvalidPath)
	require.ErrorIs(t, query.Set(sample(), "name.first", 1), query.ErrInvalidPath)
	require.ErrorIs(t, query.Set(sample(), "server.ports.7", 1), query.ErrInvalidPath)
}

func TestEngine_Query(t *testing.T) {
	t.Parallel()

	engine := query.NewEngine()

	names, err := engine.Query(sample(), "servers.#.name")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, names)

	high, err := engine.Query(sample(), "servers.#(port>8000).name")
	require.NoError(t, err)
	assert.Equal(t, "b", high)

	server, err := engine.Query(sample(), "server")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"host": "localhost", "ports": []any{8080, 8443}}, server)

	missing, err := engine.Query(sample(), "nope.nothing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	whole, err := engine.Query(sample(), " ")
	require.NoError(t, err)
	assert.Equal(t, sample(), whole)
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want any
	}{
		{in: "42", want: 42},
		{in: "true", want: true},
		{in: "1.5", want: 1.5},
		{in: "null", want: nil},
		{in: "hello", want: "hello"},
		{in: "[a, b]", want: []any{"a", "b"}},
		{in: "{k: v}", want: map[string]any{"k": "v"}},
		{in: "", want: ""},
		{in: "a: b: c", want: "a: b: c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, query.ParseValue(tt.in), tt.in)
	}
}
