package gamedata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Palette names the colors of the terminal view and in-game markers.
type Palette struct {
	Background       string `yaml:"background"`
	Terrain          string `yaml:"terrain"`
	Slot             string `yaml:"slot"`
	SlotHovered      string `yaml:"slot_hovered"`
	SlotQueued       string `yaml:"slot_queued"`
	Cursor           string `yaml:"cursor"`
	Target           string `yaml:"target"`
	Player           string `yaml:"player"`
	Asteroid         string `yaml:"asteroid"`
	Bobber           string `yaml:"bobber"`
	Line             string `yaml:"line"`
	Crosshair        string `yaml:"crosshair"`
	CrosshairWarning string `yaml:"crosshair_warning"`
	Ship             string `yaml:"ship"`
}

// LoadPalette loads the embedded palette.yaml.
func LoadPalette() (Palette, error) {
	return Load[Palette]("palette.yaml")
}

// MustLoadPalette loads the palette, panicking on error.
func MustLoadPalette() Palette {
	return MustLoad[Palette]("palette.yaml")
}

// parseHex splits a hex color string (e.g., "#FF0000" or "FF0000") into
// its RGB components.
func parseHex(hex string) (r, g, b uint8, err error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color length: %s", hex)
	}

	var comps [3]uint8
	for i, name := range []string{"red", "green", "blue"} {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid %s component in %s: %w", name, hex, err)
		}
		comps[i] = uint8(v)
	}
	return comps[0], comps[1], comps[2], nil
}

// ParseHexColor converts a hex color string to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return tcell.ColorDefault, err
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// MustParseHexColor converts a hex color string to tcell.Color, panicking on error.
func MustParseHexColor(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}

// SRGBColor converts a hex color string to a linear RGBA color scale with
// full alpha.
func SRGBColor(hex string) (mgl64.Vec4, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return mgl64.Vec4{1, 1, 1, 1}, err
	}
	return mgl64.Vec4{toLinear(r), toLinear(g), toLinear(b), 1}, nil
}

// MustSRGBColor converts a hex color string to a linear color scale,
// panicking on error.
func MustSRGBColor(hex string) mgl64.Vec4 {
	c, err := SRGBColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func toLinear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
