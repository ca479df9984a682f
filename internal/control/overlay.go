package control

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/input"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/scene"
)

// Intro placement.
var (
	IntroPos     = mgl64.Vec3{-0.235157, -0.874935, 0.42331}
	ShipPosition = mgl64.Vec3{0.364267, -0.857099, 0.364267}
)

const (
	introHeading  = 45
	shipFlyIn     = 3.0
	shipFlyFrom   = 30
	shipRoll      = -60
	introCrash    = 2.85
	introWhiteout = 0.1
	introHold     = 1.0
	introFadeIn   = 2.0
	sproutDelay   = 1.0

	pauseFade    = 0.5
	pauseRestore = 1.0
)

var pauseTimes = [3]float64{0.4, 0.3, 0.3}

// Intro

func (s *IntroState) enter(c *Control) {
	c.overlay.HideHUD()
	c.Player.Root.Hide()
	c.Player.SetPos(IntroPos)
	c.Player.SetHeading(introHeading)
	c.blockGameplay()

	if c.cfg.Control.SkipIntro {
		return
	}

	c.cue(audio.Crash).Play()
	c.Ship.Show()
	c.Ship.Pos = ShipPosition.Mul(shipFlyFrom)
	h, p := scene.HeadingPitch(ShipPosition.Sub(c.Ship.Pos))
	c.Ship.SetHpr(h, p, shipRoll)
	c.flyIn.Start(interval.LerpVec3From(shipFlyIn, interval.Linear,
		func() mgl64.Vec3 { return c.Ship.Pos },
		func(v mgl64.Vec3) { c.Ship.Pos = v },
		ShipPosition))

	c.seq.Start(interval.Sequence(
		interval.Wait(introCrash),
		c.fadeTo(introWhiteout, 1),
		interval.Wait(introHold),
		interval.Func(c.toNormal),
	))
	c.scope.Accept(input.Escape, c.seq.Finish)
}

func (s *IntroState) update(c *Control, dt float64) {
	if c.cfg.Control.SkipIntro {
		c.toNormal()
	}
}

func (s *IntroState) exit(c *Control) {
	c.seq.Cancel()
	c.flyIn.Cancel()
	c.Ship.Hide()

	c.Player.Root.Show()
	c.overlay.ShowHUD()
	c.fader.Start(c.fadeTo(introFadeIn, 0))

	n := c.cfg.Universe.InitialSlots
	c.sprout.Start(interval.Sequence(
		interval.Wait(sproutDelay),
		interval.Func(func() { c.planet.SproutBuildSlots(n) }),
	))
}

// Pause

func (s *PauseState) enter(c *Control) {
	for _, l := range c.PauseLabels {
		l.Node.SetAlpha(0)
		l.Node.Show()
	}
	c.blockGameplay()

	steps := []interval.Interval{c.fadeTo(pauseFade, 1)}
	for i, l := range c.PauseLabels {
		steps = append(steps, labelFade(l, pauseTimes[i], 1))
	}
	scope := c.scope
	steps = append(steps,
		interval.Func(func() { scope.Accept(input.Quit, c.quit) }),
		interval.Func(func() { scope.Accept(input.Escape, c.toNormal) }),
	)
	c.fader.Start(interval.Sequence(steps...))
}

func (s *PauseState) update(c *Control, dt float64) {}

func (s *PauseState) exit(c *Control) {
	fades := []interval.Interval{c.fadeTo(pauseRestore, 0)}
	for _, l := range c.PauseLabels {
		fades = append(fades, labelFade(l, pauseRestore, 0))
	}
	labels := c.PauseLabels
	c.fader.Start(interval.Sequence(
		interval.Parallel(fades...),
		interval.Func(func() {
			for _, l := range labels {
				l.Node.Hide()
			}
		}),
	))
}

func labelFade(l *Label, d, alpha float64) interval.Interval {
	return interval.LerpFloat(d, interval.Linear, l.Node.Alpha, l.Node.SetAlpha, alpha)
}

// blockGameplay swallows the always-on inputs for the current scope.
func (c *Control) blockGameplay() {
	for _, name := range []string{input.Mouse1, input.Mouse1Up, input.Mouse3Up, input.Space} {
		c.scope.Block(name)
	}
}
