package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/anyconf/query"
)

type mockSource struct {
	fetchFunc func() (map[string]any, error)
}

func (m *mockSource) Fetch() (map[string]any, error) {
	return m.fetchFunc()
}

type simpleConfig struct {
	Name string `mapstructure:"name"`
}

type configWithDefaults struct {
	Name    string
	changed bool
}

func (c *configWithDefaults) SetDefaults() bool {
	return c.changed
}

type configWithValidator struct {
	Name string
	err  error
}

func (c *configWithValidator) Validate() error {
	return c.err
}

type configWithBoth struct {
	Name    string
	changed bool
	err     error
}

func (c *configWithBoth) SetDefaults() bool {
	return c.changed
}

func (c *configWithBoth) Validate() error {
	return c.err
}

func TestProvider_Success(t *testing.T) {
	t.Parallel()

	target := &simpleConfig{}

	result, err := Provider(target, "")(Map{"name": "test"})

	require.NoError(t, err)
	assert.Same(t, target, result)
	assert.Equal(t, "test", result.Name)
}

func TestProvider_Section(t *testing.T) {
	t.Parallel()

	source := Map{
		"services": map[string]any{
			"api": map[string]any{"name": "api-service"},
		},
	}

	result, err := Provider(&simpleConfig{}, "services:api")(source)

	require.NoError(t, err)
	assert.Equal(t, "api-service", result.Name)
}

func TestProvider_WithValidation_Success(t *testing.T) {
	t.Parallel()

	target := &configWithValidator{err: nil}

	result, err := Provider(target, "")(Map{"name": "x"})

	require.NoError(t, err)
	assert.Same(t, target, result)
	assert.Equal(t, "x", result.Name)
}

func TestProvider_WithDefaultsAndValidation_Success(t *testing.T) {
	t.Parallel()

	target := &configWithBoth{changed: true, err: nil}

	result, err := Provider(target, "")(Map{})

	require.NoError(t, err)
	assert.Same(t, target, result)
}

func TestProvider_Errors(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("fetch failed")
	validationErr := errors.New("validation failed")

	tests := []struct {
		name      string
		fetchFunc func() (map[string]any, error)
		path      string
		targetErr error
		wantErr   error
	}{
		{
			name: "fetch error",
			fetchFunc: func() (map[string]any, error) {
				return nil, fetchErr
			},
			wantErr: fetchErr,
		},
		{
			name: "missing section",
			fetchFunc: func() (map[string]any, error) {
				return map[string]any{"a": map[string]any{}}, nil
			},
			path:    "a:b",
			wantErr: query.ErrNotFound,
		},
		{
			name: "validation error",
			fetchFunc: func() (map[string]any, error) {
				return map[string]any{}, nil
			},
			targetErr: validationErr,
			wantErr:   validationErr,
		},
	}

	for _, testInfo := range tests {
		t.Run(testInfo.name, func(t *testing.T) {
			t.Parallel()

			target := &configWithBoth{err: testInfo.targetErr}
			source := &mockSource{fetchFunc: testInfo.fetchFunc}

			result, err := Provider(target, testInfo.path)(source)

			assert.Nil(t, result)
			require.ErrorIs(t, err, testInfo.wantErr)
		})
	}
}

func TestProvider_DecodeError(t *testing.T) {
	t.Parallel()

	result, err := Provider(&simpleConfig{}, "name")(Map{"name": "scalar"})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing error")
}

func TestProvider_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		changed bool
	}{
		{
			name:    "defaults changed",
			changed: true,
		},
		{
			name:    "defaults not changed",
			changed: false,
		},
	}

	for _, testInfo := range tests {
		t.Run(testInfo.name, func(t *testing.T) {
			t.Parallel()

			target := &configWithDefaults{changed: testInfo.changed}

			result, err := Provider(target, "")(Map{"name": "n"})

			require.NoError(t, err)
			assert.Same(t, target, result)
			assert.Equal(t, "n", result.Name)
		})
	}
}

type typedConfig struct {
	Port    int           `mapstructure:"port"`
	Debug   bool          `mapstructure:"debug"`
	Timeout time.Duration `mapstructure:"timeout"`
	Hosts   []string      `mapstructure:"hosts"`
	Ratio   float64       `mapstructure:"ratio"`
}

func TestDecode_WeakTyping(t *testing.T) {
	t.Parallel()

	var cfg typedConfig

	err := Decode(map[string]any{
		"port":    "8080",
		"debug":   "true",
		"timeout": "1m30s",
		"hosts":   "a,b",
		"ratio":   1,
	}, &cfg)

	require.NoError(t, err)
	assert.Equal(t, typedConfig{
		Port:    8080,
		Debug:   true,
		Timeout: 90 * time.Second,
		Hosts:   []string{"a", "b"},
		Ratio:   1,
	}, cfg)
}

func TestSection(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"a":   map[string]any{"b": []any{"x", "y"}},
		"c/d": 1,
	}

	got, err := Section(data, "")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	got, err = Section(data, "a:b:1")
	require.NoError(t, err)
	assert.Equal(t, "y", got)

	got, err = Section(data, "c/d")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = Section(data, "a:missing")
	require.ErrorIs(t, err, query.ErrNotFound)
}
