// Package economy tracks blocks, power and unlocks for the build menu.
package economy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/gamedata"
)

var (
	ErrUnknownBuilding = errors.New("unknown building")
	ErrLocked          = errors.New("building is locked")
	ErrNotEnoughBlocks = errors.New("not enough blocks")
	ErrNotEnoughPower  = errors.New("not enough power")
)

// HUD keys sent with update_hud.
const (
	HUDBlocks = "blocks"
	HUDPower  = "power"
	HUDMsg    = "msg"
)

const rescuedMsg = "Obbo's beacon is lit. Help is on the way!"

// Options sets the starting stock.
type Options struct {
	StartBlocks       int
	StartPower        int
	BlocksPerAsteroid int
}

// Ledger is the game-logic collaborator of the build menu.
type Ledger struct {
	registry *gamedata.BuildingRegistry
	queue    *event.Queue
	logger   *zap.Logger

	blocks            int
	power             int
	collected         int
	blocksPerAsteroid int
	built             map[string]int
	rescued           bool
}

// NewLedger creates a ledger and subscribes it to caught_asteroid.
func NewLedger(registry *gamedata.BuildingRegistry, queue *event.Queue, logger *zap.Logger, opts Options) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BlocksPerAsteroid <= 0 {
		opts.BlocksPerAsteroid = 1
	}
	l := &Ledger{
		registry:          registry,
		queue:             queue,
		logger:            logger,
		blocks:            opts.StartBlocks,
		power:             opts.StartPower,
		blocksPerAsteroid: opts.BlocksPerAsteroid,
		built:             make(map[string]int),
	}
	queue.Subscribe(event.CaughtAsteroid, func(event.Event) { l.Collect(1) })
	return l
}

// Unlocked groups the kinds that can currently be offered by category.
func (l *Ledger) Unlocked() map[string][]string {
	return l.registry.Unlocked(l.collected)
}

// Cost returns the block cost of kind, or 0 if unknown.
func (l *Ledger) Cost(kind string) int {
	if def := l.registry.GetByID(kind); def != nil {
		return def.Cost
	}
	return 0
}

// Power returns the power delta of kind, or 0 if unknown.
func (l *Ledger) Power(kind string) int {
	if def := l.registry.GetByID(kind); def != nil {
		return def.Power
	}
	return 0
}

// BlocksAvailable returns the blocks in stock.
func (l *Ledger) BlocksAvailable() int {
	return l.blocks
}

// PowerAvailable returns the spare power.
func (l *Ledger) PowerAvailable() int {
	return l.power
}

// Collected returns how many asteroids were consumed.
func (l *Ledger) Collected() int {
	return l.collected
}

// Built returns how many buildings of kind were purchased.
func (l *Ledger) Built(kind string) int {
	return l.built[kind]
}

// Rescued reports whether the beacon was built.
func (l *Ledger) Rescued() bool {
	return l.rescued
}

// CanBuild reports whether kind is unlocked and affordable.
func (l *Ledger) CanBuild(kind string) bool {
	return l.check(kind) == nil
}

func (l *Ledger) check(kind string) error {
	def := l.registry.GetByID(kind)
	if def == nil {
		return fmt.Errorf("%w: %q", ErrUnknownBuilding, kind)
	}
	if l.collected < def.UnlockAt {
		return fmt.Errorf("%w: %s needs %d asteroids", ErrLocked, kind, def.UnlockAt)
	}
	if def.Cost > l.blocks {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrNotEnoughBlocks, kind, def.Cost, l.blocks)
	}
	if def.Power < 0 && -def.Power > l.power {
		return fmt.Errorf("%w: %s draws %d, have %d", ErrNotEnoughPower, kind, -def.Power, l.power)
	}
	return nil
}

// Purchase spends the cost of kind and applies its power delta.
func (l *Ledger) Purchase(kind string) error {
	if err := l.check(kind); err != nil {
		l.logger.Info("purchase rejected", zap.Error(err))
		return err
	}
	def := l.registry.GetByID(kind)
	l.blocks -= def.Cost
	l.power += def.Power
	l.built[kind]++

	l.logger.Info("building purchased",
		zap.String("kind", kind),
		zap.Int("blocks", l.blocks),
		zap.Int("power", l.power))
	l.queue.Emit(event.UpdateHUD, HUDBlocks, l.blocks)
	l.queue.Emit(event.UpdateHUD, HUDPower, l.power)
	return nil
}

// Complete is called when a building finishes. Growth buildings grow the
// planet and the beacon ends the game.
func (l *Ledger) Complete(kind string) {
	def := l.registry.GetByID(kind)
	if def == nil {
		return
	}
	if def.Grows {
		l.queue.Emit(event.PlanetGrow)
	}
	if def.ID == gamedata.BeaconID && !l.rescued {
		l.rescued = true
		l.queue.Emit(event.UpdateHUD, HUDMsg, rescuedMsg, 60)
	}
}

// Collect adds n caught asteroids worth of blocks.
func (l *Ledger) Collect(n int) {
	before := l.Unlocked()
	l.collected += n
	l.blocks += n * l.blocksPerAsteroid
	l.queue.Emit(event.UpdateHUD, HUDBlocks, l.blocks)

	if newly := countKinds(l.Unlocked()) - countKinds(before); newly > 0 {
		l.logger.Info("buildings unlocked", zap.Int("count", newly), zap.Int("collected", l.collected))
		l.queue.Emit(event.UpdateHUD, HUDMsg, fmt.Sprintf("%d new building(s) unlocked!", newly), 5)
	}
}

func countKinds(m map[string][]string) int {
	n := 0
	for _, kinds := range m {
		n += len(kinds)
	}
	return n
}
