package game

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/control"
	"github.com/samdwyer/obbo/internal/economy"
	"github.com/samdwyer/obbo/internal/entity"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/gamedata"
	"github.com/samdwyer/obbo/internal/input"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/planet"
	"github.com/samdwyer/obbo/internal/scene"
	"github.com/samdwyer/obbo/internal/telemetry"
	"github.com/samdwyer/obbo/internal/ui"
)

// Front is the window, viewport and overlay the universe is shown on.
type Front interface {
	control.Window
	control.Viewport
	control.Overlay
}

// Universe is everything that lives in the game world, without a screen.
type Universe struct {
	Root     *scene.Node
	HUDRoot  *scene.Node
	World    *collision.World
	Sched    *interval.Scheduler
	Bus      *event.Queue
	Input    *input.Dispatcher
	Planet   *planet.Planet
	Pool     *entity.AsteroidPool
	Ledger   *economy.Ledger
	Player   *entity.Player
	Control  *control.Control
	HUD      *ui.HUD
	Registry *gamedata.BuildingRegistry

	logger *zap.Logger
}

// NewUniverse generates the planet, fills the asteroid pool and wires the
// player control to front. quit is called when the player quits.
func NewUniverse(ctx context.Context, cfg *config.Config, logger *zap.Logger, sfx audio.Bank, front Front, quit func()) (*Universe, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, span := telemetry.Start(ctx, telemetry.Tracer("game"), telemetry.SpanInit)
	defer span.End()

	seed := cfg.Universe.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	registry, err := gamedata.LoadBuildingRegistry()
	if err != nil {
		return nil, err
	}

	u := &Universe{
		Root:     scene.NewNode("universe"),
		HUDRoot:  scene.NewNode("hud"),
		World:    collision.NewWorld(),
		Sched:    interval.NewScheduler(),
		Bus:      event.NewQueue(logger),
		Input:    input.NewDispatcher(logger),
		HUD:      ui.NewHUD(),
		Registry: registry,
		logger:   logger,
	}

	u.Planet = planet.New(u.Root, u.World, u.Sched, rng, logger, planet.Options{
		Size:           cfg.Universe.PlanetSize,
		Radius:         cfg.Universe.PlanetRadius,
		RadiusPerSize:  cfg.Universe.RadiusPerSize,
		SlotsPerSprout: cfg.Universe.SlotsPerSprout,
	})
	u.Planet.Generate(ctx)

	u.Pool = entity.NewAsteroidPool(u.Planet.Root, u.World, u.Sched, rng, logger)
	u.Pool.Fill(cfg.Universe.Asteroids, u.Planet.Size())

	u.Ledger = economy.NewLedger(registry, u.Bus, logger, economy.Options{
		StartBlocks:       cfg.Build.StartBlocks,
		StartPower:        cfg.Build.StartPower,
		BlocksPerAsteroid: cfg.Build.BlocksPerAsteroid,
	})
	u.Planet.OnBuild(func(s *planet.Slot, kind string) error {
		return u.Ledger.Purchase(kind)
	})
	u.Planet.OnComplete(func(s *planet.Slot, kind string) { u.Ledger.Complete(kind) })

	u.Player = entity.NewPlayer(u.Planet.Root, u.Planet, cfg.Player.WalkSpeed)

	u.HUD.Listen(u.Bus)
	if r, ok := front.(interface{ ResetPointer() }); ok {
		u.Bus.Subscribe(event.ResetCursor, func(event.Event) { r.ResetPointer() })
	}

	u.Control, err = control.New(control.Deps{
		Config:     cfg,
		Logger:     logger,
		Player:     u.Player,
		Planet:     u.Planet,
		PlanetRoot: u.Planet.Root,
		Pool:       u.Pool,
		Logic:      u.Ledger,
		World:      u.World,
		Sched:      u.Sched,
		HUD:        u.HUDRoot,
		Input:      u.Input,
		Bus:        u.Bus,
		Audio:      sfx,
		Window:     front,
		Viewport:   front,
		Overlay:    front,
		Rand:       rng,
		Quit:       quit,
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		telemetry.KeySeed.Int64(seed),
		telemetry.KeyAsteroids.Int(u.Pool.Len()),
		telemetry.KeyPlanetSize.Int(u.Planet.Size()),
	)
	return u, nil
}

// Start publishes the starting stock and enters the intro.
func (u *Universe) Start(ctx context.Context) {
	u.Bus.Emit(event.UpdateHUD, economy.HUDBlocks, u.Ledger.BlocksAvailable())
	u.Bus.Emit(event.UpdateHUD, economy.HUDPower, u.Ledger.PowerAvailable())
	u.Control.Start(ctx)
	u.Bus.Flush()
}

// Dispatch feeds a named input to the bound handlers.
func (u *Universe) Dispatch(name string) bool {
	return u.Input.Dispatch(name)
}

// Tick advances the world by dt seconds. Intervals run first, then the
// player control, then the events raised during the tick are delivered.
func (u *Universe) Tick(dt float64) {
	u.Sched.Tick(dt)
	u.Control.Update(dt)
	u.HUD.Update(dt)
	u.Bus.Flush()
}

// Stop releases the player control.
func (u *Universe) Stop() {
	u.Control.Stop()
	u.Sched.CancelAll()
}
