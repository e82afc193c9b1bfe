package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/anyconf"
	"github.com/0xalexb/anyconf/merge"
	"github.com/0xalexb/anyconf/query"
)

func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func decodeJSON(t *testing.T, out string) map[string]any {
	t.Helper()

	var got map[string]any

	require.NoError(t, json.Unmarshal([]byte(out), &got))

	return got
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	stdout, _, err := executeCmd(t, "--version")

	require.NoError(t, err)
	assert.Equal(t, "anyconf "+anyconf.VersionString()+"\n", stdout)
}

func TestRun_List(t *testing.T) {
	t.Parallel()

	stdout, _, err := executeCmd(t, "-L")

	require.NoError(t, err)
	assert.Contains(t, stdout, "json: json.stdlib, json.hujson [json, jsonc, hujson]\n")
	assert.Contains(t, stdout, "yaml: yaml.goccy, yaml.v3 [yaml, yml]\n")
	assert.Contains(t, stdout, "toml: toml.gotoml [toml]\n")
}

func TestRun_Convert(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "name: demo\nport: 80\n")

	stdout, _, err := executeCmd(t, "-O", "json", input)

	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"demo\",\"port\":80}\n", stdout)
}

func TestRun_ExtraOptions(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "port: 80\n")

	stdout, _, err := executeCmd(t, "-O", "json", "-x", "indent=2", input)

	require.NoError(t, err)
	assert.Equal(t, "{\n  \"port\": 80\n}\n", stdout)
}

func TestRun_OutputTypeFromInput(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.json", `{"port": 80}`)

	stdout, _, err := executeCmd(t, input)

	require.NoError(t, err)
	assert.Equal(t, "{\"port\":80}\n", stdout)
}

func TestRun_MergeInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "server:\n  host: localhost\n  port: 80\ntags: [a]\n")
	override := writeFile(t, dir, "override.toml", "tags = [\"b\"]\n[server]\nport = 8080\n")

	tests := []struct {
		name     string
		strategy string
		want     map[string]any
	}{
		{
			name:     "merge dicts",
			strategy: string(merge.MergeDicts),
			want: map[string]any{
				"server": map[string]any{"host": "localhost", "port": float64(8080)},
				"tags":   []any{"b"},
			},
		},
		{
			name:     "merge dicts and lists",
			strategy: string(merge.MergeDictsAndLists),
			want: map[string]any{
				"server": map[string]any{"host": "localhost", "port": float64(8080)},
				"tags":   []any{"a", "b"},
			},
		},
		{
			name:     "replace",
			strategy: string(merge.Replace),
			want: map[string]any{
				"server": map[string]any{"port": float64(8080)},
				"tags":   []any{"b"},
			},
		},
	}

	for _, testInfo := range tests {
		t.Run(testInfo.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := executeCmd(t, "-O", "json", "--merge", testInfo.strategy, base, override)

			require.NoError(t, err)
			assert.Equal(t, testInfo.want, decodeJSON(t, stdout))
		})
	}
}

func TestRun_GetAndSet(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "server:\n  port: 80\nnames: [a, b]\n")

	stdout, _, err := executeCmd(t, "--get", "server.port", input)
	require.NoError(t, err)
	assert.Equal(t, "80\n", stdout)

	stdout, _, err = executeCmd(t, "--get", "/names/1", input)
	require.NoError(t, err)
	assert.Equal(t, "b\n", stdout)

	stdout, _, err = executeCmd(t, "-O", "json", "--set", "server.port=8080", "--set", "debug=true", input)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"server": map[string]any{"port": float64(8080)},
		"names":  []any{"a", "b"},
		"debug":  true,
	}, decodeJSON(t, stdout))
}

func TestRun_Query(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "servers:\n  - name: a\n  - name: b\n")

	stdout, _, err := executeCmd(t, "-Q", "servers.#.name", input)

	require.NoError(t, err)
	assert.Equal(t, "- a\n- b\n", stdout)
}

func TestRun_Args(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "a:\n  b: 1\n")

	stdout, _, err := executeCmd(t, "-O", "json", "-A", "a.c=2;d=x", input)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": float64(1), "c": float64(2)},
		"d": "x",
	}, decodeJSON(t, stdout))

	stdout, _, err = executeCmd(t, "-O", "json", "-A", `{"a": {"b": 5}}`, "--atype", "json", input)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": float64(5)}}, decodeJSON(t, stdout))
}

func TestRun_Schema(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "app.yaml", "port: 80\n")
	good := writeFile(t, dir, "good.json", `{"type": "object", "properties": {"port": {"type": "integer"}}}`)
	bad := writeFile(t, dir, "bad.json", `{"type": "object", "properties": {"port": {"type": "string"}}}`)

	stdout, _, err := executeCmd(t, "--validate", "--schema", good, input)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	_, stderr, err := executeCmd(t, "--validate", "--schema", bad, input)
	require.ErrorIs(t, err, anyconf.ErrValidation)
	assert.Contains(t, stderr, "Error:")

	_, _, err = executeCmd(t, "--validate", input)
	require.ErrorIs(t, err, errSchemaRequired)
}

func TestRun_GenSchema(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "name: demo\nport: 80\n")

	stdout, _, err := executeCmd(t, "-O", "json", "--gen-schema", "--strict", input)

	require.NoError(t, err)

	got := decodeJSON(t, stdout)
	assert.Equal(t, "object", got["type"])
	assert.Equal(t, []any{"name", "port"}, got["required"])
	assert.Contains(t, got, "$schema")
}

func TestRun_OutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "app.json", `{"name": "demo"}`)
	output := filepath.Join(dir, "out", "app.toml")

	stdout, _, err := executeCmd(t, "-o", output, input)

	require.NoError(t, err)
	assert.Empty(t, stdout)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "name = 'demo'")
}

func TestRun_IgnoreMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.json")

	stdout, _, err := executeCmd(t, "--ignore-missing", missing)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", stdout)

	_, _, err = executeCmd(t, missing)
	require.Error(t, err)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "port: 80\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no inputs", args: []string{}, wantErr: errNoInputs},
		{name: "unknown strategy", args: []string{"--merge", "bogus", input}, wantErr: merge.ErrUnknownStrategy},
		{name: "missing key", args: []string{"--get", "nope", input}, wantErr: query.ErrNotFound},
		{name: "bad assignment", args: []string{"--set", "novalue", input}, wantErr: errAssignment},
		{name: "unknown input type", args: []string{"-I", "xml", input}, wantErr: anyconf.ErrUnknownProcessorType},
	}

	for _, testInfo := range tests {
		t.Run(testInfo.name, func(t *testing.T) {
			t.Parallel()

			_, stderr, err := executeCmd(t, testInfo.args...)

			require.ErrorIs(t, err, testInfo.wantErr)
			assert.Contains(t, stderr, "Error: ")
		})
	}
}

func TestRun_QueryAndGetExclusive(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "app.yaml", "port: 80\n")

	_, _, err := executeCmd(t, "-Q", "port", "--get", "port", input)

	require.Error(t, err)
}
