package anyconf_test

import (
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/0xalexb/anyconf"
	"github.com/0xalexb/anyconf/config"
	"github.com/0xalexb/anyconf/config/source/file"
	"github.com/0xalexb/anyconf/merge"
)

// ServerConfig represents application server configuration.
// It implements both Defaulter and Validator interfaces from the config package.
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Timeout int    `mapstructure:"timeout"`
}

// SetDefaults sets default values for the configuration.
func (c *ServerConfig) SetDefaults() bool {
	changed := false

	if c.Host == "" {
		c.Host = "localhost"
		changed = true
	}

	if c.Port == 0 {
		c.Port = 8080
		changed = true
	}

	if c.Timeout == 0 {
		c.Timeout = 30
		changed = true
	}

	return changed
}

// Validate validates the configuration.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Timeout < 1 {
		return errors.New("timeout must be positive")
	}

	return nil
}

// ServerService is a service that depends on config.
type ServerService struct {
	Config *ServerConfig
}

// Address returns the server address from config.
func (s *ServerService) Address() string {
	return fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
}

func ExampleLoads() {
	data, err := anyconf.Loads("name: demo\nreplicas: 3\n", anyconf.WithType("yaml"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Println(data["name"], data["replicas"])
	// Output: demo 3
}

func ExampleLoader_MultiLoad() {
	loader := anyconf.New()

	data, err := loader.MultiLoad(
		[]string{"testdata/config.yaml", "testdata/override.json"},
		anyconf.WithMergeStrategy(merge.MergeDicts),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Println(data["host"], data["port"], data["timeout"])
	// Output: api.example.com 9000 45
}

// Example_moduleWithConfig wires the Loader, a file source and a typed
// configuration into an Fx application.
func Example_moduleWithConfig() {
	configModule := fx.Module("config",
		anyconf.Module(),
		fx.Provide(
			fx.Annotate(
				file.NewSource([]string{"testdata/config.yaml"}),
				fx.As(new(config.Source)),
			),
		),
		fx.Provide(config.Provider(new(ServerConfig), "")),
	)

	serviceModule := fx.Module("service",
		fx.Provide(func(cfg *ServerConfig) *ServerService {
			return &ServerService{
				Config: cfg,
			}
		}),
	)

	var service *ServerService

	app := fx.New(
		fx.NopLogger,
		configModule,
		serviceModule,
		fx.Populate(&service),
	)

	err := app.Err()
	if err != nil {
		fmt.Printf("Error building app: %v\n", err)

		return
	}

	fmt.Printf("Server address: %s\n", service.Address())
	fmt.Printf("Timeout: %d\n", service.Config.Timeout)
	// Output:
	// Server address: api.example.com:9000
	// Timeout: 30
}
