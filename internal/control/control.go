// Package control is the player control state machine: walking, the
// fishing phases, building and the pause overlay.
package control

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/camera"
	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/entity"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/input"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/piemenu"
	"github.com/samdwyer/obbo/internal/planet"
	"github.com/samdwyer/obbo/internal/scene"
	"github.com/samdwyer/obbo/internal/telemetry"
)

// ErrMissingDep is returned by New when a required collaborator is nil.
var ErrMissingDep = errors.New("missing control dependency")

// Pause overlay text.
var PauseText = [3]string{
	"Game Paused",
	"Press Q to quit the game",
	"Press escape to return to the game",
}

const (
	// profileGrows is how often the planet grows at start in profile mode.
	profileGrows = 4
	// consumeShake is the camera shake when an asteroid is swallowed.
	consumeShake = 0.8
)

// Deps are the collaborators a Control drives.
type Deps struct {
	Config *config.Config
	Logger *zap.Logger

	Player     *entity.Player
	Planet     Planet
	PlanetRoot *scene.Node
	Pool       *entity.AsteroidPool
	Logic      GameLogic
	World      *collision.World
	Sched      *interval.Scheduler
	// HUD is the parent of the build menu and the pause labels.
	HUD *scene.Node

	Input    *input.Dispatcher
	Bus      Bus
	Audio    audio.Bank
	Window   Window
	Viewport Viewport
	Overlay  Overlay

	Rand *rand.Rand
	// Quit is called when the player quits from the pause overlay.
	Quit func()
}

// Control owns the player's interaction state.
type Control struct {
	Player      *entity.Player
	Camera      *camera.Rig
	Crosshair   *Crosshair
	Cursor      *Marker
	Target      *Marker
	Bobber      *scene.Node
	Ship        *scene.Node
	Line        Line
	PauseLabels [3]*Label

	cfg    *config.Config
	logger *zap.Logger
	tracer trace.Tracer
	ctx    context.Context

	planet     Planet
	planetRoot *scene.Node
	pool       *entity.AsteroidPool
	logic      GameLogic
	world      *collision.World
	sched      *interval.Scheduler
	hud        *scene.Node
	input      *input.Dispatcher
	bus        Bus
	sfx        audio.Bank
	window     Window
	viewport   Viewport
	overlay    Overlay
	quit       func()

	state         State
	scope         *input.Scope
	base          *input.Scope
	pending       []State
	transitioning bool

	now       float64
	holding   bool
	downTime  float64
	downPos   mgl64.Vec3
	hasDown   bool
	cursorPos mgl64.Vec3
	hasCursor bool
	hovered   Slot
	target    mgl64.Vec3
	walking   bool

	bobberCollider *scene.Node
	bobberActive   bool
	aimHits        []collision.Hit
	castComplete   bool
	catch          *entity.Asteroid

	seq    *interval.Track
	fling  *interval.Track
	bob    *interval.Track
	snap   *interval.Track
	fader  *interval.Track
	flyIn  *interval.Track
	sprout *interval.Track

	grown        int
	growSub      uuid.UUID
	defaultMouse MouseMode
}

// New builds a Control. Call Start to enter the intro.
func New(d Deps) (*Control, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Quit == nil {
		d.Quit = func() {}
	}
	if d.HUD == nil {
		d.HUD = scene.NewNode("hud")
	}

	cfg := d.Config
	aimAnchor := d.Player.Root.AttachNew("model_pos")
	rig := camera.NewRig(d.Player.Root, aimAnchor, cfg.Camera, cfg.Control, d.Rand)
	if err := rig.SetView(cfg.Camera.AimView); err != nil {
		return nil, err
	}
	if err := rig.SetView(camera.ViewDefault); err != nil {
		return nil, err
	}

	c := &Control{
		Player:     d.Player,
		Camera:     rig,
		Crosshair:  newCrosshair(d.Player.Model),
		Cursor:     newMarker(d.PlanetRoot, "cursor"),
		Target:     newMarker(d.PlanetRoot, "target"),
		cfg:        cfg,
		logger:     d.Logger.Named("control"),
		tracer:     telemetry.Tracer("control"),
		ctx:        context.Background(),
		planet:     d.Planet,
		planetRoot: d.PlanetRoot,
		pool:       d.Pool,
		logic:      d.Logic,
		world:      d.World,
		sched:      d.Sched,
		hud:        d.HUD,
		input:      d.Input,
		bus:        d.Bus,
		sfx:        d.Audio,
		window:     d.Window,
		viewport:   d.Viewport,
		overlay:    d.Overlay,
		quit:       d.Quit,
		seq:        interval.NewTrack(d.Sched),
		fling:      interval.NewTrack(d.Sched),
		bob:        interval.NewTrack(d.Sched),
		snap:       interval.NewTrack(d.Sched),
		fader:      interval.NewTrack(d.Sched),
		flyIn:      interval.NewTrack(d.Sched),
		sprout:     interval.NewTrack(d.Sched),
	}
	if cfg.Control.ConfineMouse {
		c.defaultMouse = MouseConfined
	}

	c.Bobber = d.Player.RodTip.AttachNew("bobber")
	c.Bobber.Scale = cfg.Fishing.BobberScale
	c.Bobber.Stash()
	c.bobberCollider = c.Bobber.AttachNew("bobber_collider")

	c.Ship = d.PlanetRoot.AttachNew("ship")
	c.Ship.Hide()

	for i, text := range PauseText {
		l := &Label{Text: text, Node: d.HUD.AttachNew("pause_label")}
		l.Node.Pos = mgl64.Vec3{0, 0, 0.3 - 0.2*float64(i)}
		l.Node.SetAlpha(0)
		l.Node.Hide()
		c.PauseLabels[i] = l
	}

	// The charge animation lasts exactly as long as a full charge.
	if l := d.Player.Charge.Length(); l > 0 {
		d.Player.Charge.PlayRate = l / cfg.Fishing.ChargeMaxTime
	}
	return c, nil
}

func (d Deps) check() error {
	required := []struct {
		name  string
		isNil bool
	}{
		{"Config", d.Config == nil},
		{"Player", d.Player == nil},
		{"Planet", d.Planet == nil},
		{"PlanetRoot", d.PlanetRoot == nil},
		{"Pool", d.Pool == nil},
		{"Logic", d.Logic == nil},
		{"World", d.World == nil},
		{"Sched", d.Sched == nil},
		{"Input", d.Input == nil},
		{"Bus", d.Bus == nil},
		{"Audio", d.Audio == nil},
		{"Window", d.Window == nil},
		{"Viewport", d.Viewport == nil},
		{"Overlay", d.Overlay == nil},
	}
	for _, r := range required {
		if r.isNil {
			return fmt.Errorf("%w: %s", ErrMissingDep, r.name)
		}
	}
	return nil
}

// Start binds the always-on inputs and enters the intro.
func (c *Control) Start(ctx context.Context) {
	c.ctx = ctx

	c.base = c.input.Scope("control")
	c.base.Accept(input.Mouse1, c.onMouseDown)
	c.base.Accept(input.Mouse1Up, c.onMouseUp)
	c.base.Accept(input.Mouse3Up, c.cancel)
	if c.cfg.Control.EnableCheats {
		c.base.Accept(input.Space, c.grow)
	}
	c.growSub = c.bus.Subscribe(event.PlanetGrow, func(event.Event) { c.grow() })

	if c.cfg.Control.ProfileMode {
		for i := 0; i < profileGrows; i++ {
			c.grow()
		}
	}

	c.window.SetMouseMode(c.defaultMouse, false)
	c.Request(&IntroState{})
}

// Stop exits the current state and releases every binding and chain.
func (c *Control) Stop() {
	if c.state != nil {
		c.state.exit(c)
		c.state = nil
	}
	if c.scope != nil {
		c.scope.Close()
		c.scope = nil
	}
	if c.base != nil {
		c.base.Close()
		c.base = nil
	}
	c.bus.Unsubscribe(c.growSub)
	for _, t := range []*interval.Track{c.seq, c.fling, c.bob, c.snap, c.fader, c.flyIn, c.sprout} {
		t.Cancel()
	}
}

// Update advances the control clock, runs the current state and eases the
// camera. The scheduler is ticked by the caller.
func (c *Control) Update(dt float64) {
	c.now += dt
	if c.state != nil {
		c.state.update(c, dt)
	}
	c.Cursor.Model.Scale = pulse(c.now)
	c.Camera.Update(dt)
	c.Player.Update(dt)
}

// State returns the current state, or nil before Start.
func (c *Control) State() State {
	return c.state
}

// StateName returns the current state's name.
func (c *Control) StateName() StateName {
	if c.state == nil {
		return ""
	}
	return c.state.Name()
}

// Now returns the control clock in seconds.
func (c *Control) Now() float64 {
	return c.now
}

// Hovered returns the slot under the pointer, if any.
func (c *Control) Hovered() Slot {
	return c.hovered
}

// Menu returns the open build menu, or nil outside Build.
func (c *Control) Menu() *piemenu.Menu {
	if s, ok := c.state.(*BuildState); ok {
		return s.menu
	}
	return nil
}

// Walking reports whether the player has a walk target.
func (c *Control) Walking() bool {
	return c.walking
}

// Request moves to next if the transition table allows it. Requests made
// while a transition is running are queued and applied after it.
func (c *Control) Request(next State) bool {
	if c.transitioning {
		c.pending = append(c.pending, next)
		return true
	}

	from := c.StateName()
	to := next.Name()
	if !Allowed(from, to) {
		c.logger.Info("transition rejected",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false
	}

	_, span := telemetry.Start(c.ctx, c.tracer, telemetry.SpanTransition,
		telemetry.KeyFrom.String(string(from)),
		telemetry.KeyTo.String(string(to)),
	)

	c.transitioning = true
	if c.state != nil {
		c.state.exit(c)
	}
	if c.scope != nil {
		c.scope.Close()
	}
	c.state = next
	c.scope = c.input.Scope(string(to))
	next.enter(c)
	c.transitioning = false
	span.End()

	c.logger.Debug("state changed",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	for len(c.pending) > 0 {
		p := c.pending[0]
		c.pending = c.pending[1:]
		c.Request(p)
	}
	return true
}

// RequestNamed builds the named state and requests it. Unknown names are
// programming errors and panic.
func (c *Control) RequestNamed(name StateName, args ...any) bool {
	s, err := NewState(name, args...)
	if err != nil {
		panic(err)
	}
	return c.Request(s)
}

func (c *Control) in(name StateName) bool {
	return c.StateName() == name
}

func (c *Control) toNormal() {
	c.Request(&NormalState{})
}

func (c *Control) cue(name string) audio.Cue {
	return c.sfx.Cue(name)
}

func (c *Control) setView(view string) {
	if err := c.Camera.SetView(view); err != nil {
		// Views are validated in New.
		panic(err)
	}
}

func (c *Control) onMouseDown() {
	if c.hasCursor {
		c.downPos = c.cursorPos
		c.hasDown = true
	}
	c.holding = true
	c.downTime = c.now

	if c.in(Cast) && c.hovered == nil {
		c.Player.Reel.Play()
		c.cue(audio.ObboReelIn).Play()
	}
}

func (c *Control) onMouseUp() {
	if !c.holding {
		return
	}

	switch c.StateName() {
	case Normal:
		if slot := c.hovered; slot != nil {
			c.Request(&BuildState{Slot: slot})
			slot.OnBlur()
			c.hovered = nil
		}
	case Cast:
		c.Player.Reel.Stop()
		c.cue(audio.ObboReelIn).Stop()
	case Charge:
		if len(c.aimHits) > 0 {
			c.logger.Debug("cast obstructed", zap.Int("hits", len(c.aimHits)))
			c.toNormal()
		} else {
			hold := c.now - c.downTime
			c.Request(&CastState{Power: hold / c.cfg.Fishing.ChargeMaxTime})
		}
	}
	c.holding = false

	if c.hasCursor && c.in(Normal) {
		if c.hasDown {
			c.walkTo(c.downPos)
		}
		c.hasDown = false
	}
}

func (c *Control) walkTo(pos mgl64.Vec3) {
	c.Target.SetPos(pos)
	c.Target.Root.Show()
	c.target = pos.Normalize()
	c.walking = true
	if !c.Player.Walk.IsPlaying() {
		c.Player.Walk.Loop()
	}
}

func (c *Control) clearTarget() {
	c.walking = false
	c.Target.Root.Hide()
}

// cancel aborts a fishing phase. A hooked asteroid cannot be let go.
func (c *Control) cancel() {
	if c.catch != nil {
		return
	}
	switch c.StateName() {
	case Charge, Cast, Reel:
		c.cue(audio.CaughtNothing).Play()
		c.toNormal()
	}
}

// grow enlarges the planet on the face under the player.
func (c *Control) grow() {
	if c.planet.Size() >= c.cfg.Build.FinalPlanetSize {
		c.logger.Debug("planet fully grown", zap.Int("size", c.planet.Size()))
		return
	}

	face := planet.FaceOf(c.Player.Pos())
	if err := c.planet.Grow(c.ctx, face); err != nil {
		c.logger.Warn("planet grow failed", zap.Int("face", face), zap.Error(err))
		return
	}

	c.grown++
	if c.grown >= c.cfg.Build.MaxGrows {
		c.bus.Unsubscribe(c.growSub)
		if c.base != nil {
			c.base.Ignore(input.Space)
		}
	}

	c.cue(audio.PlanetGrows).Play()
	c.bobberCollider.Scale = math.Max(1, float64(c.planet.Size())*0.5)
	c.Player.ApplyPos()
	c.logger.Info("planet grew", zap.Int("size", c.planet.Size()), zap.Int("face", face))
}

// fadeTo eases the full screen fade.
func (c *Control) fadeTo(d, alpha float64) interval.Interval {
	return interval.LerpFloat(d, interval.Linear, c.overlay.Fade, c.overlay.SetFade, alpha)
}

// push moves the player out of obstacles.
func (c *Control) push() {
	const radius = 0.5

	center := c.Player.Root.PointToWorld(mgl64.Vec3{0, 0, radius})
	hits := c.world.Spheres([]collision.Sphere{{Center: center, Radius: radius}}, collision.MaskObstacle)
	for _, h := range hits {
		s := h.Collider.WorldSphere()
		away := center.Sub(s.Center)
		d := away.Len()
		depth := radius + s.Radius - d
		if depth <= 0 || d < 1e-9 {
			continue
		}
		c.Player.Push(c.planetRoot.VectorFromWorld(away.Mul(depth / d)))
	}
}
