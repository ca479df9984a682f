// Package entity provides the player and the orbiting asteroids.
package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/scene"
)

const (
	// ArriveEpsilon is the angular distance, in radians, at which the
	// player counts as arrived.
	ArriveEpsilon = 1e-4

	DefaultWalkSpeed = 2.5
)

// RodTipOffset is where the rod tip rests in model space at the end of
// the charge animation.
var RodTipOffset = mgl64.Vec3{0.940263, 1.43792, 2.81651}

// Clip names.
const (
	ClipIdle   = "idle"
	ClipWalk   = "walk"
	ClipCast   = "cast"
	ClipReel   = "reel"
	ClipCharge = "charge"
	ClipBuild  = "build"
)

// Surface is the body the player walks on.
type Surface interface {
	// Scale converts planet-local units to world units.
	Scale() float64
}

// Player walks on the unit sphere in planet space. Root follows the
// surface, Model carries the heading, RodTip hangs off the model.
type Player struct {
	Root   *scene.Node
	Model  *scene.Node
	RodTip *scene.Node

	Idle   *Clip
	Walk   *Clip
	Cast   *Clip
	Reel   *Clip
	Charge *Clip
	Build  *Clip

	surface   Surface
	walkSpeed float64
	pos       mgl64.Vec3
	heading   float64
}

// NewPlayer creates a player at the north pole of the surface.
func NewPlayer(parent *scene.Node, surface Surface, walkSpeed float64) *Player {
	if walkSpeed <= 0 {
		walkSpeed = DefaultWalkSpeed
	}
	root := parent.AttachNew("player")
	model := root.AttachNew("model")
	tip := model.AttachNew("rod_tip")
	tip.Pos = RodTipOffset

	p := &Player{
		Root:      root,
		Model:     model,
		RodTip:    tip,
		Idle:      NewClip(ClipIdle, 48, 24),
		Walk:      NewClip(ClipWalk, 24, 24),
		Cast:      NewClip(ClipCast, 24, 24),
		Reel:      NewClip(ClipReel, 24, 24),
		Charge:    NewClip(ClipCharge, 48, 24),
		Build:     NewClip(ClipBuild, 54, 24),
		surface:   surface,
		walkSpeed: walkSpeed,
	}
	p.SetPos(scene.Up)
	return p
}

// Clips returns every clip the player owns.
func (p *Player) Clips() []*Clip {
	return []*Clip{p.Idle, p.Walk, p.Cast, p.Reel, p.Charge, p.Build}
}

// Pos returns the position on the unit sphere.
func (p *Player) Pos() mgl64.Vec3 {
	return p.pos
}

// SetPos places the player on the surface above pos.
func (p *Player) SetPos(pos mgl64.Vec3) {
	if pos.Len() < 1e-12 {
		return
	}
	p.pos = pos.Normalize()
	p.Root.Rot = mgl64.QuatBetweenVectors(scene.Up, p.pos)
	p.ApplyPos()
}

// ApplyPos re-normalizes the position after an external push and keeps
// the root glued to the surface.
func (p *Player) ApplyPos() {
	if p.pos.Len() < 1e-12 {
		p.pos = scene.Up
	}
	p.pos = p.pos.Normalize()
	p.Root.Pos = p.pos

	// Cancel the planet scale so the player keeps its world size.
	if s := p.surface.Scale(); s > 0 {
		p.Root.Scale = 1 / s
	}
}

// Push displaces the position, e.g. from a collision response.
func (p *Player) Push(offset mgl64.Vec3) {
	p.pos = p.pos.Add(offset)
	p.ApplyPos()
}

// Heading returns the model heading in degrees.
func (p *Player) Heading() float64 {
	return p.heading
}

// SetHeading turns the model.
func (p *Player) SetHeading(h float64) {
	p.heading = h
	p.Model.SetHpr(h, 0, 0)
}

// MoveToward walks along the great circle to target at the configured
// speed and faces the direction of travel. It reports whether the player
// arrived this frame.
func (p *Player) MoveToward(target mgl64.Vec3, dt float64) bool {
	if target.Len() < 1e-12 {
		return true
	}
	target = target.Normalize()

	angle := math.Acos(mgl64.Clamp(p.pos.Dot(target), -1, 1))
	if angle <= ArriveEpsilon {
		p.pos = target
		p.ApplyPos()
		return true
	}

	p.face(target)

	step := p.walkSpeed / p.scale() * dt
	if step >= angle {
		p.rotate(angle, p.axisTo(target))
		p.pos = target
		p.ApplyPos()
		return true
	}
	p.rotate(step, p.axisTo(target))
	return false
}

// LookToward turns the model to face a planet-space point.
func (p *Player) LookToward(point mgl64.Vec3) {
	p.face(point)
}

func (p *Player) face(point mgl64.Vec3) {
	local := p.Root.Rot.Inverse().Rotate(point.Sub(p.pos))
	if math.Hypot(local.X(), local.Y()) < 1e-12 {
		return
	}
	h, _ := scene.HeadingPitch(mgl64.Vec3{local.X(), local.Y(), 0})
	p.SetHeading(h)
}

// axisTo returns the rotation axis carrying the position towards target.
func (p *Player) axisTo(target mgl64.Vec3) mgl64.Vec3 {
	axis := p.pos.Cross(target)
	if axis.Len() > 1e-9 {
		return axis.Normalize()
	}
	// Antipodal target: any axis perpendicular to the position works.
	axis = p.pos.Cross(scene.Right)
	if axis.Len() < 1e-9 {
		axis = p.pos.Cross(scene.Forward)
	}
	return axis.Normalize()
}

// rotate moves the position and root orientation together so the heading
// frame is carried along the path.
func (p *Player) rotate(angle float64, axis mgl64.Vec3) {
	q := mgl64.QuatRotate(angle, axis)
	p.pos = q.Rotate(p.pos)
	p.Root.Rot = q.Mul(p.Root.Rot).Normalize()
	p.ApplyPos()
}

func (p *Player) scale() float64 {
	if s := p.surface.Scale(); s > 0 {
		return s
	}
	return 1
}

// Update advances the player's clips.
func (p *Player) Update(dt float64) {
	for _, c := range p.Clips() {
		c.Advance(dt)
	}
}
