// Package gamedata provides embedded game data and utilities for loading it.
package gamedata

import "embed"

// dataFS embeds the building catalogue and palette at build time.
//
//go:embed *.json *.yaml
var dataFS embed.FS
