package gamedata

import (
	"github.com/gdamore/tcell/v2"
)

// =============================================================================
// BUILDING CATALOGUE
// =============================================================================
//
// Buildings are placed on build slots of the planet. Each definition is
// data-driven and loaded from buildings.json at startup.
//
// Fields:
// -------
//   - id:       Unique kind, also the suffix of the menu event ("build_<id>")
//   - category: Grouping used by the unlock table
//   - cost:     Blocks spent when construction starts
//   - power:    Power produced (positive) or consumed (negative)
//   - unlockAt: Asteroids that must be collected before the kind is offered
//   - grows:    Finishing this building makes the planet grow one step
//
// The beacon is the final building. Once the planet is at full size and a
// single slot is left, it is the only kind the build menu offers.
//
// =============================================================================

// BeaconID is the kind of the final building.
const BeaconID = "beacon"

// BuildingDef defines a building kind loaded from JSON.
type BuildingDef struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Cost     int    `json:"cost"`
	Power    int    `json:"power"`
	UnlockAt int    `json:"unlockAt"`
	Grows    bool   `json:"grows"`
	Glyph    string `json:"glyph"`
	Color    string `json:"color"`
}

// GlyphRune returns the glyph as a rune for rendering.
func (b *BuildingDef) GlyphRune() rune {
	if len(b.Glyph) == 0 {
		return '?'
	}
	return rune(b.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (b *BuildingDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(b.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// BuildingsFile represents the structure of buildings.json.
type BuildingsFile struct {
	Buildings []BuildingDef `json:"buildings"`
}

// LoadBuildings loads building definitions from the embedded buildings.json.
func LoadBuildings() ([]BuildingDef, error) {
	file, err := Load[BuildingsFile]("buildings.json")
	if err != nil {
		return nil, err
	}
	return file.Buildings, nil
}

// MustLoadBuildings loads building definitions, panicking on error.
func MustLoadBuildings() []BuildingDef {
	buildings, err := LoadBuildings()
	if err != nil {
		panic(err)
	}
	return buildings
}
