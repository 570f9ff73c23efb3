package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/dotback.toml
var defaultConfig []byte

// GetDefaultConfigContent returns the embedded default configuration.
// The genconfig command writes this out as a starting point for users.
func GetDefaultConfigContent() string {
	return string(defaultConfig)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
