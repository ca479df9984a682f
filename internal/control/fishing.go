package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/camera"
	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/entity"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/input"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/scene"
	"github.com/samdwyer/obbo/internal/telemetry"
)

// Capture spheres in bobber collider space.
var magnetOffsets = [2]mgl64.Vec3{{-0.3, 1.2, 0}, {0.3, 1.2, 0}}

const (
	// flingLead is how far along the cast direction the bobber starts.
	flingLead = 3
)

// CastDistance maps a charge power in [0, 1] to a cast distance.
func (c *Control) CastDistance(power float64) float64 {
	return c.cfg.Fishing.CastDistance(power * c.cfg.Fishing.ChargeMaxTime)
}

// aim turns the pointer into aim targets and wraps it at the border.
func (c *Control) aim() {
	x, y, ok := c.window.Pointer()
	if !ok {
		return
	}
	if nx, warp := c.Camera.Aim(x, y); warp {
		c.window.MovePointer(nx, y)
	}
}

func (c *Control) updateLine() {
	c.Line.A = c.Player.RodTip.PosIn(c.Player.Root)
	c.Line.B = c.Bobber.PosIn(c.Player.Root)
}

func (c *Control) releaseMouse() {
	c.window.SetMouseMode(c.defaultMouse, false)
	c.bus.Emit(event.ResetCursor)
}

// Charge

func (s *ChargeState) enter(c *Control) {
	c.cue(audio.ObboCharge).Play()
	c.Player.Charge.Play()
	c.setView(c.cfg.Camera.AimView)
	c.Camera.TargetP = 45
	c.Crosshair.Node.Show()

	c.Bobber.Unstash()
	c.Line.Visible = true
	c.aimHits = nil

	c.Bobber.ReparentTo(c.Player.RodTip)
	c.Bobber.Pos = mgl64.Vec3{}
	c.Bobber.Rot = mgl64.QuatIdent()

	c.window.SetMouseMode(MouseRelative, true)
	c.scope.Accept(input.Escape, c.cancel)
	c.scope.Accept(input.Mouse3Up, c.cancel)
}

func (s *ChargeState) update(c *Control, dt float64) {
	c.aim()
	c.updateLine()
	c.Player.SetHeading(c.Camera.Heading())

	distance := c.cfg.Fishing.CastDistance(c.now - c.downTime)
	tip := entity.RodTipOffset
	cross := tip.Add(c.Camera.Forward(c.Player.Model).Mul(distance))
	c.Crosshair.Node.Pos = cross

	a := c.Player.Model.PointToWorld(tip)
	b := c.Player.Model.PointToWorld(cross)
	c.aimHits = c.world.Segment(a, b, collision.MaskPick|collision.MaskObstacle)
	c.Crosshair.setObstructed(len(c.aimHits) > 0)
}

func (s *ChargeState) exit(c *Control) {
	c.cue(audio.ObboCharge).Stop()
	c.Player.Charge.Stop()
	c.setView(camera.ViewDefault)
	c.Crosshair.Node.Hide()
	c.Crosshair.setObstructed(false)
	c.aimHits = nil
	c.releaseMouse()
}

// Cast

func (s *CastState) enter(c *Control) {
	c.cue(audio.ObboCast).Play()
	distance := c.CastDistance(s.Power)

	c.Bobber.Pos = mgl64.Vec3{}
	c.Bobber.Rot = mgl64.QuatIdent()
	c.Player.Cast.Play()
	c.castComplete = false

	delay := float64(c.cfg.Fishing.CastFlingFrames) / c.Player.Cast.FrameRate
	c.seq.Start(interval.Sequence(
		interval.Wait(delay),
		interval.Func(func() { c.flingBobber(distance) }),
	))

	c.holding = false
	c.window.SetMouseMode(MouseRelative, true)
	c.bobberActive = true
	c.logger.Debug("cast", zap.Float64("power", s.Power), zap.Float64("distance", distance))
}

func (s *CastState) update(c *Control, dt float64) {
	c.aim()
	c.updateLine()
	if c.holding && c.reelIn(dt) {
		return
	}
	c.startBob()

	hits := c.world.Spheres(c.magnets(), collision.MaskAsteroid)
	if hit, ok := collision.FirstTagged(hits, collision.TagAsteroid); ok {
		if a, ok := hit.Payload.(*entity.Asteroid); ok {
			c.cue(audio.ObboReelIn).Play()
			c.Request(&ReelState{Catch: a})
		}
	}
}

func (s *CastState) exit(c *Control) {
	c.seq.Cancel()
	c.fling.Cancel()
	c.bob.Finish()
	c.castComplete = false
	c.cue(audio.ObboCast).Stop()
	c.bobberActive = false
	c.releaseMouse()
}

// flingBobber throws the bobber from the rod tip to the crosshair.
func (c *Control) flingBobber(distance float64) {
	if !c.in(Cast) {
		return
	}

	model := c.Player.Model
	c.Bobber.WrtReparentTo(model)
	tip := c.Player.RodTip.PosIn(model)
	cross := c.Crosshair.Node.Pos
	dir := cross.Sub(tip)
	if dir.Len() < 1e-9 {
		dir = scene.Forward
	}
	dir = dir.Normalize()

	c.Bobber.Pos = tip.Add(dir.Mul(flingLead))
	c.Bobber.LookAt(tip.Add(dir.Mul(flingLead + 1)))
	h, p := scene.HeadingPitch(dir)
	spin := 360 * distance * c.cfg.Fishing.BobberSpinSpeed
	d := c.cfg.Fishing.CastTime

	c.fling.Start(interval.Sequence(
		interval.Parallel(
			interval.LerpVec3From(d, interval.EaseOut,
				func() mgl64.Vec3 { return c.Bobber.Pos },
				func(v mgl64.Vec3) { c.Bobber.Pos = v },
				cross),
			interval.Lerp(d, interval.EaseOut, func(f float64) { c.Bobber.SetHpr(h, p, spin*f) }),
		),
		interval.Func(c.cue(audio.ObboCast).Stop),
		interval.Func(func() { c.castComplete = true }),
	))
}

// startBob idles the landed bobber up and down, and stops it while the
// line is pulled.
func (c *Control) startBob() {
	if !c.castComplete {
		return
	}
	if c.holding {
		if c.bob.Running() {
			c.bob.Finish()
		}
		return
	}
	if c.bob.Running() {
		return
	}

	q := c.Bobber.Rot
	up := q.Rotate(scene.Right).Add(q.Rotate(scene.Up)).Normalize().Mul(c.cfg.Fishing.CastBobMagnitude)
	start := c.Bobber.Pos
	top, down := start.Add(up), start.Sub(up)
	set := func(v mgl64.Vec3) { c.Bobber.Pos = v }
	t := c.cfg.Fishing.CastBobTime

	c.bob.Loop(interval.Sequence(
		interval.LerpVec3(t, interval.EaseOut, start, top, set),
		interval.LerpVec3(t, interval.EaseIn, top, start, set),
		interval.LerpVec3(t, interval.EaseOut, start, down, set),
		interval.LerpVec3(t, interval.EaseIn, down, start, set),
	))
}

// magnets returns the bobber capture spheres in world space.
func (c *Control) magnets() []collision.Sphere {
	if !c.bobberActive || c.Bobber.Stashed() {
		return nil
	}
	n := c.bobberCollider
	r := c.cfg.Fishing.MagnetRadius * n.WorldScale()
	out := make([]collision.Sphere, 0, len(magnetOffsets))
	for _, off := range magnetOffsets {
		out = append(out, collision.Sphere{Center: n.PointToWorld(off), Radius: r})
	}
	return out
}

// reelIn pulls the bobber towards the rod tip. Once it is close it hands
// the catch over or gives up; it reports whether it changed state.
func (c *Control) reelIn(dt float64) bool {
	if c.fling.Running() {
		c.fling.Cancel()
		c.cue(audio.ObboCast).Stop()
		c.castComplete = true
	}

	parent := c.Bobber.Parent()
	tip := c.Player.RodTip.PosIn(parent)
	off := c.Bobber.Pos.Sub(tip)
	d := off.Len()
	if d > c.cfg.Fishing.ReelMinDistance {
		step := math.Min(d, c.cfg.Fishing.ReelSpeed*dt)
		c.Bobber.Pos = c.Bobber.Pos.Sub(off.Mul(step / d))
		return false
	}

	if catch := c.catch; catch != nil {
		c.catch = nil
		c.Request(&ConsumeState{Catch: catch})
		return true
	}
	c.cue(audio.ObboReelIn).Stop()
	c.cue(audio.CaughtNothing).Play()
	c.toNormal()
	return true
}

// Reel

func (s *ReelState) enter(c *Control) {
	if a := s.Catch; a != nil {
		_, span := telemetry.Start(c.ctx, c.tracer, telemetry.SpanCatch,
			telemetry.KeyAsteroid.Int(a.Index()))
		defer span.End()

		c.cue(audio.AsteroidAttaches).Play()
		a.Stop()
		rock := a.Rock
		rock.WrtReparentTo(c.Bobber)
		c.snap.Start(interval.LerpVec3From(c.cfg.Fishing.MagnetSnapTime, interval.Linear,
			func() mgl64.Vec3 { return rock.Pos },
			func(v mgl64.Vec3) { rock.Pos = v },
			mgl64.Vec3{0, c.cfg.Fishing.MagnetSnapDist, 0}))
		rock.Scale = 1
		c.catch = a
		c.logger.Info("asteroid caught", zap.Int("index", a.Index()))
	}
	if !c.Player.Reel.IsPlaying() {
		c.Player.Reel.Play()
	}
}

func (s *ReelState) update(c *Control, dt float64) {
	c.aim()
	c.updateLine()
	c.reelIn(dt)
}

func (s *ReelState) exit(c *Control) {
	// The rock always ends up at the magnet anchor.
	c.snap.Finish()
	c.Player.Reel.Stop()
}

// Consume

func (s *ConsumeState) enter(c *Control) {
	c.cue(audio.ObboReelIn).Stop()
	c.cue(audio.AsteroidCaught).Play()

	a := s.Catch
	rock := a.Rock
	c.seq.Start(interval.Sequence(
		interval.LerpFloat(1.0, interval.Linear,
			func() float64 { return rock.Scale },
			func(v float64) { rock.Scale = v },
			0.001),
		interval.Func(func() { c.pool.Remove(a.Index()) }),
		interval.Func(c.toNormal),
	))
	c.bus.Emit(event.CaughtAsteroid)
	c.Camera.Shake(consumeShake)
}

func (s *ConsumeState) update(c *Control, dt float64) {
	c.updateLine()
}

func (s *ConsumeState) exit(c *Control) {
	c.seq.Cancel()
}
