// Package config binds loaded configuration to typed structs.
//
// The package uses an interface-based design with three extension points:
//   - Source: produces the configuration mapping (files through anyconf, static maps)
//   - Validator: validates config after decoding
//   - Defaulter: applies default values before validation
//
// # Path Navigation
//
// The Provider function accepts a path parameter that allows targeting a specific
// section of the configuration. Paths use colon (:) as the separator:
//
//	"api:permissions"           -> config["api"]["permissions"]
//	"database:connection"       -> config["database"]["connection"]
//	""                          -> entire document
//
// # Decoding
//
// Sections are decoded with github.com/go-viper/mapstructure/v2. Struct fields
// use `mapstructure` tags and values are weakly typed, so a "30s" string fills
// a time.Duration and a "8080" string from a .env file fills an int.
//
// # Example
//
// A typical usage pattern:
//
//	type APIConfig struct {
//	    Timeout time.Duration `mapstructure:"timeout"`
//	    BaseURL string        `mapstructure:"base_url"`
//	}
//
//	source, err := file.NewSource([]string{"config.yaml"})(anyconf.Default())
//	cfg, err := config.Provider(&APIConfig{}, "services:api")(source)
package config
