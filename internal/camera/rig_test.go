package camera

import (
	"errors"
	"math"
	"testing"

	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/scene"
)

func newTestRig(startHeading float64) (*Rig, *scene.Node, *scene.Node) {
	cfg := config.MustDefault()
	cfg.Camera.StartHeading = startHeading
	root := scene.NewNode("player")
	model := root.AttachNew("model")
	return NewRig(root, model, cfg.Camera, cfg.Control, nil), root, model
}

func TestWrap180(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{190, -170},
		{-190, 170},
		{-340, 20},
		{540, -180},
		{179, 179},
	}
	for _, tt := range tests {
		if got := Wrap180(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Wrap180(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHeadingTakesShortestPath(t *testing.T) {
	r, _, _ := newTestRig(0)
	r.SetHeading(170)
	r.TargetH = -170

	// One step with an easing factor of one lands on the target.
	r.Update(1 / r.cfg.RotateSpeed)

	if got := r.Heading() - 170; math.Abs(got-20) > 1e-9 {
		t.Errorf("heading moved %v, want +20", got)
	}
}

func TestHeadingEasesRelativeToStart(t *testing.T) {
	r, _, _ := newTestRig(225)
	if r.Heading() != 225 {
		t.Fatalf("initial heading = %v, want 225", r.Heading())
	}

	r.Orbit(0.5, 0)
	for i := 0; i < 600; i++ {
		r.Update(1.0 / 60)
	}
	if got := Wrap180(r.Heading() - 225); math.Abs(got-(-5)) > 1e-3 {
		t.Errorf("settled heading offset = %v, want -5", got)
	}
}

func TestPitchEasesWithoutWrap(t *testing.T) {
	r, _, _ := newTestRig(0)
	r.TargetP = 45
	r.Update(0.1)
	want := 45 * 0.4
	if math.Abs(r.Pitch()-want) > 1e-9 {
		t.Errorf("Pitch() = %v, want %v", r.Pitch(), want)
	}
}

func TestAimWarp(t *testing.T) {
	r, _, _ := newTestRig(0)

	x, warped := r.Aim(0.2, 0)
	if warped || x != 0.2 {
		t.Errorf("Aim(0.2) = %v, %v; want no warp", x, warped)
	}
	if math.Abs(r.TargetH-(-72)) > 1e-9 {
		t.Errorf("TargetH = %v, want -72", r.TargetH)
	}
	if r.TargetP != 45 {
		t.Errorf("TargetP = %v, want 45", r.TargetP)
	}

	x, warped = r.Aim(0.6, 1)
	if !warped || math.Abs(x-(-0.4)) > 1e-9 {
		t.Errorf("Aim(0.6) = %v, %v; want -0.4, true", x, warped)
	}
	if r.TargetP != -30 {
		t.Errorf("TargetP = %v at the top edge, want -30", r.TargetP)
	}

	r.Aim(0, -1)
	if r.TargetP != 90 {
		t.Errorf("TargetP = %v at the bottom edge, want 90", r.TargetP)
	}

	x, warped = r.Aim(-0.7, 0)
	if !warped || math.Abs(x-0.3) > 1e-9 {
		t.Errorf("Aim(-0.7) = %v, %v; want 0.3, true", x, warped)
	}
}

func TestProfileMode(t *testing.T) {
	cfg := config.MustDefault()
	cfg.Control.ProfileMode = true
	root := scene.NewNode("player")
	r := NewRig(root, root, cfg.Camera, cfg.Control, nil)

	r.Orbit(0.9, -0.9)
	if r.TargetH != 0 || r.TargetP != -40 {
		t.Errorf("profile targets = %v, %v; want 0, -40", r.TargetH, r.TargetP)
	}
}

func TestSetView(t *testing.T) {
	r, root, model := newTestRig(0)

	if err := r.SetView(ViewCharging); err != nil {
		t.Fatalf("SetView(charging) error = %v", err)
	}
	if r.Root.Parent() != model || !r.AimMode() {
		t.Error("charging view should anchor to the model")
	}
	if err := r.SetView(ViewDefault); err != nil {
		t.Fatalf("SetView(default) error = %v", err)
	}
	if r.Root.Parent() != root {
		t.Error("default view should anchor to the player root")
	}
	if err := r.SetView("sniper"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("SetView(sniper) error = %v, want ErrUnknownView", err)
	}
}

func TestShakeDecays(t *testing.T) {
	r, _, _ := newTestRig(0)
	r.Shake(0.8)
	r.Update(0.1)
	if r.Shaking() >= 0.8 || r.Shaking() <= 0 {
		t.Errorf("Shaking() = %v after 0.1s, want between 0 and 0.8", r.Shaking())
	}
	r.Update(1)
	if r.Shaking() != 0 {
		t.Errorf("Shaking() = %v after 1.1s, want 0", r.Shaking())
	}
	if r.Camera.Pos != CameraOffset {
		t.Errorf("camera left at %v after the shake", r.Camera.Pos)
	}
}
