package game

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/control"
	"github.com/samdwyer/obbo/internal/economy"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/planet"
	"github.com/samdwyer/obbo/internal/ui"
)

const frame = 1.0 / 60

func newTestGame(t *testing.T) (*Game, *ui.Screen) {
	t.Helper()

	cfg := config.MustDefault()
	cfg.Control.SkipIntro = true
	cfg.Universe.Seed = 7

	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.Wrap(sim)
	require.NoError(t, err)
	sim.SetSize(80, 24)
	t.Cleanup(screen.Close)

	g, err := New(context.Background(), cfg, zap.NewNop(), audio.NewSilentBank(), screen)
	require.NoError(t, err)
	return g, screen
}

func start(t *testing.T, g *Game) {
	t.Helper()
	g.Universe().Start(context.Background())
	g.Tick(frame)
	require.Equal(t, control.Normal, g.Universe().Control.StateName())
}

func run(g *Game, seconds float64) {
	for elapsed := 0.0; elapsed < seconds; elapsed += 0.05 {
		g.Tick(0.05)
	}
}

func row(s *ui.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _ := s.Content(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestNewUniverse(t *testing.T) {
	g, _ := newTestGame(t)
	u := g.Universe()

	assert.Equal(t, 10, u.Pool.Len())
	assert.Equal(t, 1, u.Planet.Size())
	assert.Equal(t, 2, u.Ledger.BlocksAvailable())
	assert.NotNil(t, u.Control)
}

func TestRenderShowsPlayerAndHUD(t *testing.T) {
	g, screen := newTestGame(t)
	start(t, g)

	r, _ := screen.Content(40, 12)
	assert.Equal(t, ui.GlyphPlayer, r)

	top := row(screen, 0)
	assert.True(t, strings.HasPrefix(top, "blocks: 2  power: 0"), "top row %q", top)
	assert.Contains(t, top, string(control.Normal))
}

func TestCatchPaysBlocks(t *testing.T) {
	g, _ := newTestGame(t)
	start(t, g)
	u := g.Universe()

	u.Bus.Emit(event.CaughtAsteroid)
	g.Tick(frame)

	assert.Equal(t, 3, u.Ledger.BlocksAvailable())
	v, ok := u.HUD.Value(economy.HUDBlocks)
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestBuildChargesLedger(t *testing.T) {
	g, _ := newTestGame(t)
	start(t, g)
	u := g.Universe()

	// Build slots sprout a second after the intro.
	run(g, 1.5)
	var slot *planet.Slot
	for _, s := range u.Planet.Slots() {
		if s.Free() && s.Sprouted() {
			slot = s
			break
		}
	}
	require.NotNil(t, slot, "no sprouted slot")

	u.Bus.Emit(event.CaughtAsteroid)
	g.Tick(frame)
	require.True(t, u.Ledger.CanBuild("windmill"))

	require.NoError(t, slot.Build("windmill", 0.5))
	assert.Equal(t, 0, u.Ledger.BlocksAvailable())
	assert.Equal(t, 3, u.Ledger.PowerAvailable())

	run(g, 1)
	assert.Equal(t, planet.SlotBuilt, slot.State())
	assert.Equal(t, 1, u.Ledger.Built("windmill"))
}

func TestUnaffordableBuildRejected(t *testing.T) {
	g, _ := newTestGame(t)
	start(t, g)
	u := g.Universe()

	run(g, 1.5)
	var slot *planet.Slot
	for _, s := range u.Planet.Slots() {
		if s.Free() && s.Sprouted() {
			slot = s
			break
		}
	}
	require.NotNil(t, slot, "no sprouted slot")
	require.False(t, u.Ledger.CanBuild("windmill"))

	err := slot.Build("windmill", 0.5)
	assert.ErrorIs(t, err, economy.ErrNotEnoughBlocks)
	assert.True(t, slot.Free())
	assert.Equal(t, "", slot.Kind())
	assert.Equal(t, 2, u.Ledger.BlocksAvailable())
	assert.Equal(t, 0, u.Ledger.Built("windmill"))

	run(g, 1)
	assert.NotEqual(t, planet.SlotBuilt, slot.State())
}

func TestPauseThenQuit(t *testing.T) {
	g, screen := newTestGame(t)
	start(t, g)

	g.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	require.Equal(t, control.Pause, g.Universe().Control.StateName())

	run(g, 2)
	assert.Contains(t, row(screen, 11), control.PauseText[0])

	g.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.False(t, g.Running())
}

func TestCtrlCQuits(t *testing.T) {
	g, _ := newTestGame(t)
	start(t, g)

	g.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone))
	assert.False(t, g.Running())
}

func TestRunReturnsWhenContextEnds(t *testing.T) {
	g, _ := newTestGame(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the context ended")
	}
	assert.Equal(t, "", string(g.Universe().Control.StateName()))
}
