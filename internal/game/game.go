// Package game wires the universe to the terminal and runs the main loop.
package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/gamedata"
	"github.com/samdwyer/obbo/internal/ui"
)

const (
	// viewSpan is the view half height in planet radii.
	viewSpan = 2.5
	// maxStep caps dt after a stall so intervals do not jump.
	maxStep = 0.1
	// eventBuffer is how many terminal events may queue between ticks.
	eventBuffer = 64
)

// Game holds the entire game state.
type Game struct {
	cfg      *config.Config
	logger   *zap.Logger
	screen   *ui.Screen
	view     *ui.View
	renderer *ui.Renderer
	keys     *ui.Translator
	universe *Universe
	running  bool
}

// New creates a new game instance on screen.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, sfx audio.Bank, screen *ui.Screen) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	palette, err := gamedata.LoadPalette()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:     cfg,
		logger:  logger,
		screen:  screen,
		running: true,
	}
	g.view = ui.NewView(screen, nil, 1)
	g.keys = ui.NewTranslator(g.view)

	u, err := NewUniverse(ctx, cfg, logger, sfx, g.view, g.quit)
	if err != nil {
		return nil, err
	}
	g.universe = u
	g.view.Follow(u.Player.Root)
	g.renderer = ui.NewRenderer(screen, g.view, u.World, u.Registry, palette)
	return g, nil
}

// Universe returns the game world.
func (g *Game) Universe() *Universe {
	return g.universe
}

// Running reports whether the main loop keeps going.
func (g *Game) Running() bool {
	return g.running
}

func (g *Game) quit() {
	g.logger.Info("quit requested")
	g.running = false
}

// Run executes the main game loop until the player quits or ctx ends.
// Terminal events are read on their own goroutine and handled between
// ticks.
func (g *Game) Run(ctx context.Context) error {
	g.universe.Start(ctx)

	ctx, cancel := context.WithCancel(ctx)
	events := make(chan tcell.Event, eventBuffer)
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})

	grp.Go(func() error {
		defer cancel()
		defer g.screen.Close()
		defer g.universe.Stop()
		return g.loop(ctx, events)
	})

	return grp.Wait()
}

func (g *Game) loop(ctx context.Context, events <-chan tcell.Event) error {
	rate := g.cfg.Control.FrameRate
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	last := time.Now()
	for g.running {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			g.HandleEvent(ev)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			g.Tick(dt)
		}
	}
	return nil
}

// HandleEvent feeds one terminal event to the input bindings.
func (g *Game) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			g.quit()
			return
		}
	case *tcell.EventResize:
		g.screen.Sync()
		return
	}
	for _, name := range g.keys.Translate(ev) {
		g.universe.Dispatch(name)
	}
}

// Tick advances the world and draws a frame.
func (g *Game) Tick(dt float64) {
	if dt > maxStep {
		dt = maxStep
	}
	g.view.Span = g.universe.Planet.Scale() * viewSpan
	g.universe.Tick(dt)
	g.renderer.Render(ui.Frame{Control: g.universe.Control, HUD: g.universe.HUD})
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
