package control

import (
	"context"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/entity"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/input"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/planet"
	"github.com/samdwyer/obbo/internal/scene"
)

const frame = 1.0 / 60

type fakeWindow struct {
	x, y   float64
	ok     bool
	moves  int
	mode   MouseMode
	hidden bool
}

func (w *fakeWindow) Pointer() (float64, float64, bool) { return w.x, w.y, w.ok }

func (w *fakeWindow) MovePointer(x, y float64) {
	w.x, w.y = x, y
	w.moves++
}

func (w *fakeWindow) SetMouseMode(mode MouseMode, hidden bool) {
	w.mode = mode
	w.hidden = hidden
}

type fakeViewport struct {
	origin, dir mgl64.Vec3
}

func (v *fakeViewport) PickRay(x, y float64) (mgl64.Vec3, mgl64.Vec3) {
	return v.origin, v.dir
}

type fakeOverlay struct {
	hud  bool
	fade float64
}

func (o *fakeOverlay) ShowHUD()          { o.hud = true }
func (o *fakeOverlay) HideHUD()          { o.hud = false }
func (o *fakeOverlay) Fade() float64     { return o.fade }
func (o *fakeOverlay) SetFade(a float64) { o.fade = a }

type fakeLogic struct {
	unlocked map[string][]string
	cost     map[string]int
	power    map[string]int
	blocks   int
	pw       int
	allow    bool
}

func (l *fakeLogic) Unlocked() map[string][]string { return l.unlocked }
func (l *fakeLogic) Cost(kind string) int          { return l.cost[kind] }
func (l *fakeLogic) Power(kind string) int         { return l.power[kind] }
func (l *fakeLogic) BlocksAvailable() int          { return l.blocks }
func (l *fakeLogic) PowerAvailable() int           { return l.pw }
func (l *fakeLogic) CanBuild(kind string) bool     { return l.allow }

type fakePlanet struct {
	size, free, queued int
}

func (p *fakePlanet) Size() int                             { return p.size }
func (p *fakePlanet) Scale() float64                        { return 5 }
func (p *fakePlanet) FreeBuildSlots() int                   { return p.free }
func (p *fakePlanet) QueuedBuildSlots() int                 { return p.queued }
func (p *fakePlanet) SproutBuildSlots(n int) int            { return 0 }
func (p *fakePlanet) Grow(ctx context.Context, f int) error { return nil }

type harness struct {
	t       *testing.T
	c       *Control
	cfg     *config.Config
	world   *collision.World
	sched   *interval.Scheduler
	bus     *event.Queue
	input   *input.Dispatcher
	sfx     *audio.SilentBank
	planet  *planet.Planet
	pool    *entity.AsteroidPool
	logic   *fakeLogic
	window  *fakeWindow
	view    *fakeViewport
	overlay *fakeOverlay
	quits   int
}

// newHarness builds a control on a size 1 planet and runs one frame.
// The pick ray points away from the planet.
func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()

	cfg := config.MustDefault()
	cfg.Control.SkipIntro = true
	if mutate != nil {
		mutate(cfg)
	}

	logger := zap.NewNop()
	h := &harness{
		t:     t,
		cfg:   cfg,
		world: collision.NewWorld(),
		sched: interval.NewScheduler(),
		bus:   event.NewQueue(logger),
		input: input.NewDispatcher(logger),
		sfx:   audio.NewSilentBank(),
		logic: &fakeLogic{
			unlocked: map[string][]string{"house": {"tent"}},
			cost:     map[string]int{"tent": 0},
			power:    map[string]int{"tent": 0},
		},
		window:  &fakeWindow{ok: true},
		view:    &fakeViewport{origin: mgl64.Vec3{0, 0, 1000}, dir: mgl64.Vec3{0, 0, 1}},
		overlay: &fakeOverlay{},
	}

	rng := rand.New(rand.NewSource(1))
	h.planet = planet.New(scene.NewNode("universe"), h.world, h.sched, rng, logger, planet.Options{
		Size:           cfg.Universe.PlanetSize,
		Radius:         cfg.Universe.PlanetRadius,
		RadiusPerSize:  cfg.Universe.RadiusPerSize,
		SlotsPerSprout: cfg.Universe.SlotsPerSprout,
	})
	h.planet.Generate(context.Background())
	// Keep the crashed ship out of the aim line.
	h.world.Remove(h.planet.Slot(planet.ShipFace, 0, 0).Collider)

	player := entity.NewPlayer(h.planet.Root, h.planet, cfg.Player.WalkSpeed)
	h.pool = entity.NewAsteroidPool(h.planet.Root, h.world, h.sched, rng, logger)

	c, err := New(Deps{
		Config:     cfg,
		Logger:     logger,
		Player:     player,
		Planet:     h.planet,
		PlanetRoot: h.planet.Root,
		Pool:       h.pool,
		Logic:      h.logic,
		World:      h.world,
		Sched:      h.sched,
		Input:      h.input,
		Bus:        h.bus,
		Audio:      h.sfx,
		Window:     h.window,
		Viewport:   h.view,
		Overlay:    h.overlay,
		Rand:       rng,
		Quit:       func() { h.quits++ },
	})
	require.NoError(t, err)
	h.c = c

	c.Start(context.Background())
	h.step(frame)
	if cfg.Control.SkipIntro {
		require.Equal(t, Normal, c.StateName())
	}
	return h
}

func (h *harness) step(dt float64) {
	h.sched.Tick(dt)
	h.c.Update(dt)
	h.bus.Flush()
}

func (h *harness) run(seconds float64) {
	n := int(seconds/frame + 0.5)
	for i := 0; i < n; i++ {
		h.step(frame)
	}
}

func (h *harness) press(name string) {
	h.input.Dispatch(name)
	h.bus.Flush()
}

// charge holds the mouse until Charge starts.
func (h *harness) charge() {
	h.press(input.Mouse1)
	for i := 0; i < 60 && h.c.StateName() != Charge; i++ {
		h.step(frame)
	}
	require.Equal(h.t, Charge, h.c.StateName())
}

// cast charges for one second and releases.
func (h *harness) cast() *CastState {
	h.charge()
	h.run(1.0)
	h.press(input.Mouse1Up)
	s, ok := h.c.State().(*CastState)
	require.True(h.t, ok, "state = %s, want Cast", h.c.StateName())
	return s
}

func (h *harness) sprouted() *planet.Slot {
	for _, s := range h.planet.Slots() {
		if s.Sprouted() && s.Free() {
			return s
		}
	}
	h.t.Fatal("no sprouted slot")
	return nil
}

func TestSkipIntro(t *testing.T) {
	h := newHarness(t, nil)

	assert.True(t, h.overlay.hud, "HUD shown after the intro")
	assert.False(t, h.c.Player.Root.Hidden())
	assert.InDelta(t, IntroPos.Normalize().X(), h.c.Player.Pos().X(), 1e-9)

	h.run(1.1)
	assert.Equal(t, h.cfg.Universe.InitialSlots, h.planet.FreeBuildSlots())
}

func TestChargeReleaseCasts(t *testing.T) {
	h := newHarness(t, nil)

	s := h.cast()
	assert.InDelta(t, 0.5, s.Power, 1e-9)
	assert.InDelta(t, 7.5, h.c.CastDistance(s.Power), 1e-9)
	assert.Equal(t, 1, h.sfx.Plays(audio.ObboCast))
	assert.True(t, h.c.Crosshair.Node.Hidden(), "crosshair hidden after Charge")
	assert.False(t, h.c.Bobber.Stashed())

	// The bobber lands on the crosshair.
	h.run(1.5)
	assert.True(t, h.c.castComplete)
	assert.InDelta(t, 0, h.c.Bobber.Pos.Sub(h.c.Crosshair.Node.Pos).Len(), h.cfg.Fishing.CastBobMagnitude+1e-6)
	assert.Equal(t, Cast, h.c.StateName())
}

func TestObstructedChargeReturnsToNormal(t *testing.T) {
	h := newHarness(t, nil)
	// Pointer at the top edge aims the rod into the ground.
	h.window.y = 1

	h.charge()
	h.run(1.0)
	assert.True(t, h.c.Crosshair.Obstructed())

	h.press(input.Mouse1Up)
	assert.Equal(t, Normal, h.c.StateName())
	assert.False(t, h.c.Crosshair.Obstructed(), "crosshair color reset on exit")
	assert.Equal(t, 0, h.sfx.Plays(audio.ObboCast))
}

func TestCastCapturesAsteroid(t *testing.T) {
	h := newHarness(t, nil)
	var caught int
	h.bus.Subscribe(event.CaughtAsteroid, func(event.Event) { caught++ })

	h.cast()
	h.run(1.5)

	a := h.pool.Spawn(1)
	a.Stop()
	a.Rock.SetWorldTransform(h.c.Bobber.WorldPos(), mgl64.QuatIdent(), a.Rock.WorldScale())
	h.step(frame)

	s, ok := h.c.State().(*ReelState)
	require.True(t, ok, "state = %s, want Reel", h.c.StateName())
	assert.Same(t, a, s.Catch)
	assert.Same(t, h.c.Bobber, a.Rock.Parent())

	// Reeling is not cancellable with a catch on the line.
	h.press(input.Mouse3Up)
	assert.Equal(t, Reel, h.c.StateName())

	for i := 0; i < 600 && h.c.StateName() == Reel; i++ {
		h.step(frame)
	}
	require.Equal(t, Consume, h.c.StateName())
	assert.Greater(t, h.c.Camera.Shaking(), 0.0)

	h.run(1.2)
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 0, h.pool.Len())
	assert.Equal(t, 1, caught)
	assert.Equal(t, 1, h.sfx.Plays(audio.AsteroidCaught))
}

func TestQuickReelSnapsRockToAnchor(t *testing.T) {
	h := newHarness(t, nil)
	h.cast()
	h.run(1.5)

	a := h.pool.Spawn(1)
	require.True(t, h.c.Request(&ReelState{Catch: a}))
	require.True(t, h.c.Request(&ConsumeState{Catch: a}))

	want := mgl64.Vec3{0, h.cfg.Fishing.MagnetSnapDist, 0}
	assert.Same(t, h.c.Bobber, a.Rock.Parent())
	assert.InDelta(t, 0, a.Rock.Pos.Sub(want).Len(), 1e-9)
	assert.Equal(t, Consume, h.c.StateName())
}

func TestEmptyReelReturnsToNormal(t *testing.T) {
	h := newHarness(t, nil)
	h.cast()
	h.run(1.5)

	h.press(input.Mouse1)
	assert.True(t, h.c.Player.Reel.IsPlaying())
	for i := 0; i < 600 && h.c.StateName() == Cast; i++ {
		h.step(frame)
	}
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 1, h.sfx.Plays(audio.CaughtNothing))
	assert.True(t, h.c.Bobber.Stashed())
	assert.False(t, h.c.Line.Visible)
}

func TestCancelCharge(t *testing.T) {
	h := newHarness(t, nil)
	h.charge()

	h.press(input.Escape)
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 1, h.sfx.Plays(audio.CaughtNothing))
	assert.Equal(t, MouseAbsolute, h.window.mode)
	assert.False(t, h.window.hidden)
}

func TestAimWrapsPointer(t *testing.T) {
	h := newHarness(t, nil)
	h.charge()

	h.window.x = 0.9
	h.step(frame)
	assert.Equal(t, 1, h.window.moves)
	assert.InDelta(t, -0.1, h.window.x, 1e-9)
}

func TestScopesReleasedOnExit(t *testing.T) {
	h := newHarness(t, nil)
	base := h.input.Bindings() - h.c.scope.Len()
	assert.Equal(t, 2, h.input.Scopes())

	h.press(input.Escape)
	require.Equal(t, Pause, h.c.StateName())
	paused := h.c.scope
	assert.False(t, h.input.Bound(input.Escape), "escape waits for the fade")
	assert.False(t, h.input.Bound(input.Mouse1), "gameplay input blocked")

	h.run(1.6)
	assert.InDelta(t, 1, h.overlay.fade, 1e-9)
	for _, l := range h.c.PauseLabels {
		assert.InDelta(t, 1, l.Node.Alpha(), 1e-9)
	}
	require.True(t, h.input.Bound(input.Quit))
	h.press(input.Quit)
	assert.Equal(t, 1, h.quits)

	h.press(input.Escape)
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 0, paused.Len())
	assert.False(t, h.input.Bound(input.Quit))
	assert.Equal(t, 2, h.input.Scopes())
	assert.Equal(t, base+h.c.scope.Len(), h.input.Bindings())

	h.run(1.1)
	assert.InDelta(t, 0, h.overlay.fade, 1e-9)
	for _, l := range h.c.PauseLabels {
		assert.True(t, l.Node.Hidden())
	}
}

func TestHoverAndBuild(t *testing.T) {
	h := newHarness(t, nil)
	h.run(1.1)
	slot := h.sprouted()

	h.view.origin = slot.Pos().Mul(100)
	h.view.dir = slot.Pos().Mul(-1)
	h.step(frame)
	require.Same(t, slot, h.c.Hovered())
	assert.Equal(t, planet.SlotHovered, slot.State())

	h.press(input.Mouse1)
	h.press(input.Mouse1Up)
	s, ok := h.c.State().(*BuildState)
	require.True(t, ok, "state = %s, want Build", h.c.StateName())
	assert.Same(t, slot, s.Slot)
	assert.Nil(t, h.c.Hovered())
	require.True(t, s.menu.Open())
	require.Len(t, s.menu.Items(), 1)
	assert.Equal(t, "Tent", s.menu.Items()[0].Name)

	// Rejected pick: stay in Build with the menu up.
	h.press("1")
	assert.Equal(t, Build, h.c.StateName())
	assert.True(t, s.menu.Open())
	assert.Equal(t, 1, h.sfx.Plays(audio.CaughtNothing))

	h.logic.allow = true
	h.press("1")
	assert.False(t, s.menu.Open())
	assert.True(t, s.walking)
	assert.Equal(t, 0, h.bus.Subscribers(event.Build("tent")))

	for i := 0; i < 1200 && h.c.StateName() == Build; i++ {
		h.step(frame)
	}
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, planet.SlotBuilt, slot.State())
	assert.Equal(t, "tent", slot.Kind())
	assert.Equal(t, 1, h.sfx.Plays(audio.BuildingPlaced))
}

func TestBuildMenuCancel(t *testing.T) {
	h := newHarness(t, nil)
	h.run(1.1)
	slot := h.sprouted()

	require.True(t, h.c.RequestNamed(Build, Slot(slot)))
	// The click that opened the menu must not walk the player.
	assert.False(t, h.input.Bound(input.Mouse1Up))

	h.press(input.Mouse1)
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 0, h.bus.Subscribers(event.Build("tent")))
	assert.True(t, slot.Free())
}

func TestBuildMenuPointerSelects(t *testing.T) {
	h := newHarness(t, nil)
	h.run(1.1)
	slot := h.sprouted()
	h.logic.allow = true

	require.True(t, h.c.RequestNamed(Build, Slot(slot)))
	s, ok := h.c.State().(*BuildState)
	require.True(t, ok)
	h.run(0.3)
	assert.Equal(t, -1, s.menu.Hovered(), "pointer at the menu center")

	x, y := s.menu.ButtonPos(0)
	h.window.x, h.window.y = x+0.02, y
	h.step(frame)
	assert.Equal(t, 0, s.menu.Hovered())
	assert.Equal(t, 1, h.sfx.Plays(audio.MenuHover))

	h.press(input.Mouse1)
	assert.Equal(t, Build, h.c.StateName())
	assert.True(t, s.walking)
	assert.Equal(t, "tent", s.kind)
	assert.False(t, s.menu.Open())
	assert.Equal(t, -1, s.menu.Hovered())
}

func TestChargeScopeDroppedOnExit(t *testing.T) {
	h := newHarness(t, nil)
	h.charge()
	h.run(0.5)
	charging := h.c.scope
	require.True(t, charging.Len() > 0)

	h.press(input.Mouse3Up)
	require.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 0, charging.Len())

	h.press(input.Mouse3Up)
	h.press(input.Mouse1Up)
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 1, h.sfx.Plays(audio.CaughtNothing))
	assert.Equal(t, 0, h.sfx.Plays(audio.ObboCast))
	assert.False(t, h.c.Walking())
}

func TestBuildScopeDroppedOnExit(t *testing.T) {
	h := newHarness(t, nil)
	h.run(1.1)
	slot := h.sprouted()
	h.logic.allow = true

	require.True(t, h.c.RequestNamed(Build, Slot(slot)))
	building := h.c.scope
	require.True(t, h.input.Bound("1"))
	h.press(input.Escape)
	require.Equal(t, Normal, h.c.StateName())

	assert.Equal(t, 0, building.Len())
	assert.False(t, h.input.Bound("1"))
	h.press("1")
	h.run(0.5)
	assert.Equal(t, Normal, h.c.StateName())
	assert.True(t, slot.Free())
	assert.Equal(t, 0, h.bus.Subscribers(event.Build("tent")))
}

func TestWalkRetargets(t *testing.T) {
	h := newHarness(t, nil)
	click := func(p mgl64.Vec3) {
		h.view.origin = p.Mul(100)
		h.view.dir = p.Mul(-1)
		h.step(frame)
		h.press(input.Mouse1)
		h.press(input.Mouse1Up)
	}

	first := mgl64.Vec3{1, 1, 1}.Normalize()
	second := mgl64.Vec3{-1, 1, 1}.Normalize()
	click(first)
	require.True(t, h.c.Walking())
	h.run(0.3)
	require.True(t, h.c.Walking())

	click(second)
	require.True(t, h.c.Walking())
	assert.InDelta(t, 0, h.c.target.Sub(second).Len(), 1e-6)

	for i := 0; i < 1200 && h.c.Walking(); i++ {
		h.step(frame)
	}
	assert.False(t, h.c.Walking())
	assert.InDelta(t, 0, h.c.Player.Pos().Sub(second).Len(), 1e-6)
	assert.Equal(t, 1, h.sfx.Plays(audio.MenuSpam))
}

func TestClickWalks(t *testing.T) {
	h := newHarness(t, nil)
	corner := mgl64.Vec3{1, 1, 1}.Normalize()
	h.view.origin = corner.Mul(100)
	h.view.dir = corner.Mul(-1)

	h.step(frame)
	require.True(t, h.c.hasCursor)
	assert.False(t, h.c.Cursor.Root.Hidden())

	h.press(input.Mouse1)
	h.press(input.Mouse1Up)
	require.True(t, h.c.Walking())
	assert.False(t, h.c.Target.Root.Hidden())
	assert.True(t, h.c.Player.Walk.IsPlaying())

	for i := 0; i < 1200 && h.c.Walking(); i++ {
		h.step(frame)
	}
	assert.False(t, h.c.Walking())
	assert.True(t, h.c.Target.Root.Hidden())
	assert.Equal(t, 1, h.sfx.Plays(audio.MenuSpam))
	assert.InDelta(t, 0, h.c.Player.Pos().Sub(corner).Len(), 1e-6)
}

func TestIllegalTransitionRejected(t *testing.T) {
	h := newHarness(t, nil)
	before := h.c.State()

	assert.False(t, h.c.Request(&ReelState{}))
	assert.False(t, h.c.Request(&CastState{Power: 1}))
	assert.False(t, h.c.Request(&IntroState{}))
	assert.Same(t, before, h.c.State())
}

func TestRequestNamedUnknownPanics(t *testing.T) {
	h := newHarness(t, nil)
	assert.Panics(t, func() { h.c.RequestNamed("Fly") })
	assert.Panics(t, func() { h.c.RequestNamed(Consume) })
	assert.Equal(t, Normal, h.c.StateName())
}

func TestNewState(t *testing.T) {
	_, err := NewState("Fly")
	assert.ErrorIs(t, err, ErrUnknownState)

	s, err := NewState(Cast, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 0.25, s.(*CastState).Power)

	s, err = NewState(Reel)
	require.NoError(t, err)
	assert.Nil(t, s.(*ReelState).Catch)

	_, err = NewState(Build)
	assert.Error(t, err)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to StateName
		want     bool
	}{
		{"", Intro, true},
		{"", Normal, false},
		{Intro, Normal, true},
		{Normal, Charge, true},
		{Normal, Cast, false},
		{Charge, Cast, true},
		{Cast, Reel, true},
		{Reel, Consume, true},
		{Consume, Normal, true},
		{Consume, Reel, false},
		{Build, Normal, true},
		{Build, Pause, false},
		{Pause, Normal, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.from, tt.to), "%q -> %q", tt.from, tt.to)
	}
}

func TestGrowCheat(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Control.EnableCheats = true })

	for i := 0; i < 6; i++ {
		h.press(input.Space)
	}
	assert.Equal(t, 5, h.planet.Size())
	assert.Equal(t, h.cfg.Build.MaxGrows, h.sfx.Plays(audio.PlanetGrows))
	assert.False(t, h.input.Bound(input.Space))
	assert.Equal(t, 0, h.bus.Subscribers(event.PlanetGrow))
	assert.InDelta(t, 2.5, h.c.bobberCollider.Scale, 1e-9)
	assert.InDelta(t, 1/h.planet.Scale(), h.c.Player.Root.Scale, 1e-9)
}

func TestGrowEvent(t *testing.T) {
	h := newHarness(t, nil)
	h.bus.Emit(event.PlanetGrow)
	h.bus.Flush()
	assert.Equal(t, 2, h.planet.Size())
	assert.False(t, h.input.Bound(input.Space), "cheat key off by default")
}

func TestOffer(t *testing.T) {
	logic := &fakeLogic{
		unlocked: map[string][]string{
			"power":  {"windmill"},
			"beacon": {"beacon"},
			"house":  {"tent"},
		},
		cost:   map[string]int{"windmill": 2, "beacon": 5, "tent": 1},
		power:  map[string]int{"windmill": 2, "beacon": -3, "tent": -1},
		blocks: 2,
		pw:     1,
	}
	bus := event.NewQueue(zap.NewNop())
	var msgs []event.Event
	bus.Subscribe(event.UpdateHUD, func(e event.Event) { msgs = append(msgs, e) })

	items := Offer(logic, &fakePlanet{size: 3, free: 4}, bus, 5)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Beacon", "Tent", "Windmill"}, []string{items[0].Name, items[1].Name, items[2].Name})
	assert.True(t, items[0].ShakeCost)
	assert.True(t, items[0].ShakePower)
	assert.False(t, items[1].ShakePower, "tent draws no more power than is spare")
	assert.False(t, items[2].ShakeCost)
	assert.Equal(t, event.Build("windmill"), items[2].Event)

	items = Offer(logic, &fakePlanet{size: 5, free: 1}, bus, 5)
	require.Len(t, items, 1)
	assert.Equal(t, "beacon", items[0].Building)

	delete(logic.unlocked, "beacon")
	items = Offer(logic, &fakePlanet{size: 5, queued: 1}, bus, 5)
	assert.Empty(t, items)
	bus.Flush()
	require.Len(t, msgs, 1)
	assert.Equal(t, NoRescueMsg, msgs[0].Arg(1))
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Deps{Config: config.MustDefault()})
	assert.ErrorIs(t, err, ErrMissingDep)
}

func TestIntroSequence(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Control.SkipIntro = false })
	require.Equal(t, Intro, h.c.StateName())
	assert.False(t, h.overlay.hud)
	assert.True(t, h.c.Player.Root.Hidden())
	assert.False(t, h.c.Ship.Hidden())

	h.run(3.0)
	assert.Equal(t, Intro, h.c.StateName())
	assert.Greater(t, h.overlay.fade, 0.99)

	h.run(1.1)
	assert.Equal(t, Normal, h.c.StateName())
	assert.True(t, h.c.Ship.Hidden())
	h.run(2.1)
	assert.InDelta(t, 0, h.overlay.fade, 1e-9)
}

func TestIntroSkippedWithEscape(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Control.SkipIntro = false })
	h.press(input.Escape)
	assert.Equal(t, Normal, h.c.StateName())
	assert.Equal(t, 1, h.sfx.Plays(audio.Crash))
}
