//go:build !tinygo

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"buttonbridge-go/errcode"
	"buttonbridge-go/types"
)

// LoadFile overlays a YAML settings file onto Default and validates it.
func LoadFile(path string) (types.Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Settings{}, errcode.Wrap(errcode.InvalidParams, "config_read", err)
	}
	s := Default()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return types.Settings{}, errcode.Wrap(errcode.InvalidPayload, "config_yaml", err)
	}
	return s, Validate(s)
}
