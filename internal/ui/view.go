package ui

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/control"
	"github.com/samdwyer/obbo/internal/scene"
)

const (
	// cellAspect is the height of a terminal cell over its width.
	cellAspect = 2.0
	// eyeHeight is how far above the view center pick rays start, in
	// multiples of Span.
	eyeHeight = 4.0
)

// View looks straight down on the eye node. The eye's +Y is up on the
// screen and its +Z points at the viewer. It is the window, viewport and
// overlay of the control layer.
type View struct {
	// Span is the world distance from the screen center to its top edge.
	Span float64

	screen *Screen
	eye    *scene.Node

	px, py     float64
	hasPointer bool
	mode       control.MouseMode
	hidden     bool

	hud  bool
	fade float64
}

// NewView creates a view centered on eye, which may be set later with
// Follow.
func NewView(screen *Screen, eye *scene.Node, span float64) *View {
	return &View{Span: span, screen: screen, eye: eye, hud: true}
}

// Follow centers the view on eye.
func (v *View) Follow(eye *scene.Node) {
	v.eye = eye
}

// frame returns the view center and its unit axes in world space.
func (v *View) frame() (center, right, fwd, up mgl64.Vec3) {
	if v.eye == nil {
		return mgl64.Vec3{}, scene.Right, scene.Forward, scene.Up
	}
	center = v.eye.WorldPos()
	right = v.eye.VectorToWorld(scene.Right).Normalize()
	fwd = v.eye.VectorToWorld(scene.Forward).Normalize()
	up = v.eye.VectorToWorld(scene.Up).Normalize()
	return center, right, fwd, up
}

// halfExtents returns the world half width and half height of the screen.
func (v *View) halfExtents() (hw, hh float64) {
	w, h := v.screen.Size()
	if w <= 0 || h <= 0 {
		return v.Span, v.Span
	}
	hh = v.Span
	hw = v.Span * float64(w) / (float64(h) * cellAspect)
	return hw, hh
}

// SetCell moves the pointer to the center of a screen cell.
func (v *View) SetCell(x, y int) {
	v.px, v.py = v.CellToPointer(x, y)
	v.hasPointer = true
}

// CellToPointer converts a screen cell to pointer coordinates.
func (v *View) CellToPointer(x, y int) (px, py float64) {
	w, h := v.screen.Size()
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	px = (float64(x)+0.5)/float64(w)*2 - 1
	py = 1 - (float64(y)+0.5)/float64(h)*2
	return px, py
}

// PointerToCell converts pointer coordinates to a screen cell.
func (v *View) PointerToCell(px, py float64) (x, y int) {
	w, h := v.screen.Size()
	x = int(math.Floor((px + 1) / 2 * float64(w)))
	y = int(math.Floor((1 - py) / 2 * float64(h)))
	return x, y
}

// ResetPointer centers the pointer.
func (v *View) ResetPointer() {
	v.px, v.py = 0, 0
}

// Pointer returns the last pointer position. It is not valid until the
// terminal reports the mouse.
func (v *View) Pointer() (x, y float64, ok bool) {
	return v.px, v.py, v.hasPointer
}

// MovePointer moves the logical pointer. Terminals cannot warp the real
// mouse, so the next mouse report overrides it.
func (v *View) MovePointer(x, y float64) {
	v.px, v.py = x, y
}

// SetMouseMode records the requested mode.
func (v *View) SetMouseMode(mode control.MouseMode, cursorHidden bool) {
	v.mode = mode
	v.hidden = cursorHidden
}

// MouseMode returns the requested mode and cursor visibility.
func (v *View) MouseMode() (control.MouseMode, bool) {
	return v.mode, v.hidden
}

// PickRay returns a ray falling straight down through the pointer.
func (v *View) PickRay(x, y float64) (origin, dir mgl64.Vec3) {
	center, right, fwd, up := v.frame()
	hw, hh := v.halfExtents()
	origin = center.
		Add(right.Mul(x * hw)).
		Add(fwd.Mul(y * hh)).
		Add(up.Mul(v.Span * eyeHeight))
	return origin, up.Mul(-1)
}

// Project maps a world point to a screen cell. ok is false for points
// off screen or below the view center by more than Span.
func (v *View) Project(p mgl64.Vec3) (x, y int, ok bool) {
	center, right, fwd, up := v.frame()
	hw, hh := v.halfExtents()
	d := p.Sub(center)
	if d.Dot(up) < -v.Span {
		return 0, 0, false
	}
	px := d.Dot(right) / hw
	py := d.Dot(fwd) / hh
	if px < -1 || px >= 1 || py <= -1 || py > 1 {
		return 0, 0, false
	}
	x, y = v.PointerToCell(px, py)
	return x, y, true
}

// ShowHUD shows the heads-up display.
func (v *View) ShowHUD() { v.hud = true }

// HideHUD hides the heads-up display.
func (v *View) HideHUD() { v.hud = false }

// HUDVisible reports whether the HUD is drawn.
func (v *View) HUDVisible() bool { return v.hud }

// Fade returns the full screen fade opacity.
func (v *View) Fade() float64 { return v.fade }

// SetFade sets the full screen fade opacity, clamped to [0, 1].
func (v *View) SetFade(alpha float64) {
	v.fade = math.Max(0, math.Min(1, alpha))
}

var (
	_ control.Window   = (*View)(nil)
	_ control.Viewport = (*View)(nil)
	_ control.Overlay  = (*View)(nil)
)
