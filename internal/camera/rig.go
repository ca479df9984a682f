// Package camera eases the follow camera towards pointer-driven targets.
package camera

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/scene"
)

// ErrUnknownView is returned for view names other than default and
// charging.
var ErrUnknownView = errors.New("unknown camera view")

// Views.
const (
	ViewDefault  = config.ViewDefault
	ViewCharging = config.ViewCharging
)

// Orbit and aim mapping constants in degrees.
const (
	orbitHeadingRange = -10
	orbitPitchRange   = -45
	aimPitchUp        = 45
	aimPitchDown      = 75
	aimPitchOffset    = 45
	profileHeading    = 0
	profilePitch      = -40
	aimBorder         = 0.5
)

// CameraOffset is where the camera sits relative to the rig root.
var CameraOffset = mgl64.Vec3{0, -30, 30}

// Rig is the camera dummy. Root carries heading and pitch, Camera hangs
// off it looking back at the root.
type Rig struct {
	Root   *scene.Node
	Camera *scene.Node

	// TargetH and TargetP are the angles the rig eases towards. TargetH is
	// relative to the start heading.
	TargetH float64
	TargetP float64

	heading float64
	pitch   float64

	cfg     config.CameraConfig
	invertY bool
	profile bool

	view    string
	anchors map[string]*scene.Node
	shake   float64
	jitter  mgl64.Vec3
	rng     *rand.Rand
}

// NewRig creates a rig anchored at defaultAnchor in the default view.
// chargingAnchor is used by the charging view.
func NewRig(defaultAnchor, chargingAnchor *scene.Node, cfg config.CameraConfig, ctl config.ControlConfig, rng *rand.Rand) *Rig {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	r := &Rig{
		Root:    defaultAnchor.AttachNew("cam"),
		cfg:     cfg,
		invertY: ctl.InvertYAxis,
		profile: ctl.ProfileMode,
		view:    ViewDefault,
		anchors: map[string]*scene.Node{
			ViewDefault:  defaultAnchor,
			ViewCharging: chargingAnchor,
		},
		heading: cfg.StartHeading,
		rng:     rng,
	}
	r.Camera = r.Root.AttachNew("camera")
	r.Camera.Pos = CameraOffset
	r.Camera.LookAt(mgl64.Vec3{})
	r.apply()
	return r
}

// Heading returns the current rig heading in degrees.
func (r *Rig) Heading() float64 {
	return r.heading
}

// Pitch returns the current rig pitch in degrees.
func (r *Rig) Pitch() float64 {
	return r.pitch
}

// SetHeading jumps the rig heading.
func (r *Rig) SetHeading(h float64) {
	r.heading = h
	r.apply()
}

// View returns the active view name.
func (r *Rig) View() string {
	return r.view
}

// AimMode reports whether the charging view is active.
func (r *Rig) AimMode() bool {
	return r.view == ViewCharging
}

// SetView re-anchors the rig. The rig keeps its angles.
func (r *Rig) SetView(view string) error {
	anchor, ok := r.anchors[view]
	if !ok || anchor == nil {
		return fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	r.view = view
	r.Root.ReparentTo(anchor)
	return nil
}

// Orbit maps a pointer position in [-1, 1] to the follow targets.
func (r *Rig) Orbit(x, y float64) {
	if r.profile {
		r.TargetH = profileHeading
		r.TargetP = profilePitch
		return
	}
	r.TargetH = x * orbitHeadingRange
	r.TargetP = y * orbitPitchRange
}

// Aim maps a pointer position to the aim targets. Pitch runs from 90 at
// the bottom edge to -30 at the top. Past the border the
// pointer has to wrap to the other side; Aim then returns the new x and
// true.
func (r *Rig) Aim(x, y float64) (float64, bool) {
	sens := r.cfg.CastXSensitivity
	r.TargetH = x * -360 * sens

	invert := 1.0
	if r.invertY {
		invert = -1
	}
	dy := y * invert
	reach := float64(aimPitchUp)
	if dy > 0 {
		// The aim dips far enough to put the rod tip line into the ground.
		reach = aimPitchDown
	}
	r.TargetP = aimPitchOffset - dy*reach

	border := aimBorder / sens
	if x > 1-border {
		return x - 1/sens, true
	}
	if x < -1+border {
		return x + 1/sens, true
	}
	return x, false
}

// Update eases the angles towards the targets and decays the shake.
func (r *Rig) Update(dt float64) {
	k := math.Min(r.cfg.RotateSpeed*dt, 1)

	dist := Wrap180(r.TargetH + r.cfg.StartHeading - r.heading)
	r.heading += dist * k

	r.pitch += (r.TargetP - r.pitch) * k

	if r.shake > 0 {
		r.shake = math.Max(0, r.shake-r.cfg.ShakeDecay*dt)
		r.jitter = mgl64.Vec3{
			(r.rng.Float64()*2 - 1) * r.shake,
			0,
			(r.rng.Float64()*2 - 1) * r.shake,
		}
	} else {
		r.jitter = mgl64.Vec3{}
	}
	r.apply()
}

// Shake starts a decaying jitter pulse. A stronger pulse replaces a weaker
// one.
func (r *Rig) Shake(intensity float64) {
	r.shake = math.Max(r.shake, intensity)
}

// Shaking returns the remaining shake intensity.
func (r *Rig) Shaking() float64 {
	return r.shake
}

// Forward returns the camera view direction in the space of node.
func (r *Rig) Forward(node *scene.Node) mgl64.Vec3 {
	return node.RelativeVector(r.Camera, scene.Forward).Normalize()
}

func (r *Rig) apply() {
	r.Root.SetHpr(r.heading, r.pitch, 0)
	r.Camera.Pos = CameraOffset.Add(r.jitter)
}

// Wrap180 wraps an angle in degrees into [-180, 180).
func Wrap180(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}
