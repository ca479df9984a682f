// Package data embeds the default game configuration.
package data

import _ "embed"

//go:embed defaults.yaml
var defaults []byte

// Defaults returns the embedded default configuration as YAML.
func Defaults() []byte {
	return defaults
}
