package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/gamedata"
	"github.com/samdwyer/obbo/internal/scene"
)

var (
	white   = mgl64.Vec4{1, 1, 1, 1}
	warning = gamedata.MustSRGBColor("#fb4771")
)

// Crosshair marks where the bobber will land.
type Crosshair struct {
	Node *scene.Node
}

func newCrosshair(parent *scene.Node) *Crosshair {
	c := &Crosshair{Node: parent.AttachNew("crosshair")}
	c.Node.Color = white
	c.Node.Hide()
	return c
}

// Obstructed reports whether the crosshair shows the warning color.
func (c *Crosshair) Obstructed() bool {
	return c.Node.Color == warning
}

func (c *Crosshair) setObstructed(hit bool) {
	if hit {
		c.Node.Color = warning
		return
	}
	c.Node.Color = white
}

// Marker is a disc lying on the planet surface.
type Marker struct {
	Root  *scene.Node
	Model *scene.Node
}

func newMarker(planetRoot *scene.Node, name string) *Marker {
	m := &Marker{Root: planetRoot.AttachNew(name)}
	m.Model = m.Root.AttachNew("model")
	m.Model.Color = mgl64.Vec4{1, 1, 1, 0.5}
	m.Root.Hide()
	return m
}

// SetPos places the marker on the unit sphere above pos.
func (m *Marker) SetPos(pos mgl64.Vec3) {
	if pos.Len() < 1e-12 {
		return
	}
	m.Root.Pos = pos.Normalize()
	m.Root.Rot = mgl64.QuatBetweenVectors(scene.Up, m.Root.Pos)
}

// Pos returns the marker position in planet space.
func (m *Marker) Pos() mgl64.Vec3 {
	return m.Root.Pos
}

// pulse is the cursor scale at time t.
func pulse(t float64) float64 {
	return (5 + math.Sin(t*5)) / 3
}

// Line is the fishing line between the rod tip and the bobber, in player
// root space.
type Line struct {
	A, B    mgl64.Vec3
	Visible bool
}

// Label is a line of overlay text that fades in and out.
type Label struct {
	Text string
	Node *scene.Node
}
