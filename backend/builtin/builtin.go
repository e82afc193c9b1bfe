// Package builtin lists the format backends shipped with anyconf.
package builtin

import (
	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/backend/dotenv"
	"github.com/0xalexb/anyconf/backend/hujson"
	"github.com/0xalexb/anyconf/backend/json"
	"github.com/0xalexb/anyconf/backend/properties"
	"github.com/0xalexb/anyconf/backend/toml"
	"github.com/0xalexb/anyconf/backend/yaml"
	"github.com/0xalexb/anyconf/backend/yamlv3"
)

// Descriptors returns a fresh copy of the built-in descriptor list.
func Descriptors() []backend.Descriptor {
	return []backend.Descriptor{
		json.Descriptor(),
		hujson.Descriptor(),
		yaml.Descriptor(),
		yamlv3.Descriptor(),
		toml.Descriptor(),
		properties.Descriptor(),
		dotenv.Descriptor(),
	}
}
