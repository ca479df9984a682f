// Package planet provides the cube-sphere planet and its build slots.
package planet

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/scene"
	"github.com/samdwyer/obbo/internal/telemetry"
)

const (
	// MaxSize is the grid size of a fully grown planet.
	MaxSize = 5

	// ShipFace is the face holding the crashed ship in cell [0][0].
	ShipFace = 4
	ShipKind = "ship"

	shipRadius    = 0.4
	terrainRadius = 1.0
)

var (
	ErrFullyGrown  = errors.New("planet is fully grown")
	ErrUnknownFace = errors.New("unknown face")
)

// Options configures a planet.
type Options struct {
	Size           int
	Radius         float64
	RadiusPerSize  float64
	SlotsPerSprout int
}

// Planet is a cube projected onto a sphere. Every face holds a size x size
// grid of slots. Root is scaled to the planet radius so slot and player
// positions live on the unit sphere.
type Planet struct {
	Root  *scene.Node
	Faces [Faces]*Face

	opts    Options
	size    int
	world   *collision.World
	sched   *interval.Scheduler
	rng     *rand.Rand
	logger  *zap.Logger
	terrain *collision.Collider

	queue      []*Slot
	onBuild    []func(*Slot, string) error
	onComplete []func(*Slot, string)
}

// New creates an empty planet under parent. Call Generate to lay out the
// grid.
func New(parent *scene.Node, world *collision.World, sched *interval.Scheduler, rng *rand.Rand, logger *zap.Logger, opts Options) *Planet {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Size < 1 {
		opts.Size = 1
	}
	if opts.Size > MaxSize {
		opts.Size = MaxSize
	}
	if opts.Radius <= 0 {
		opts.Radius = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := &Planet{
		Root:   parent.AttachNew("planet"),
		opts:   opts,
		world:  world,
		sched:  sched,
		rng:    rng,
		logger: logger,
	}
	for i := range p.Faces {
		p.Faces[i] = &Face{Index: i}
	}
	return p
}

// Generate lays out the faces, places the crashed ship and queues every
// other cell for sprouting in random order.
func (p *Planet) Generate(ctx context.Context) {
	_, span := telemetry.Start(ctx, telemetry.Tracer("planet"), telemetry.SpanGenerate)
	defer span.End()

	startTime := time.Now()

	p.size = p.opts.Size
	p.Root.Scale = p.Scale()
	p.terrain = p.world.Add(&collision.Collider{
		Entity: "terrain",
		Node:   p.Root,
		Radius: terrainRadius,
		Into:   collision.MaskPick,
		Tag:    collision.TagTerrain,
	})

	var fresh []*Slot
	for _, f := range p.Faces {
		fresh = append(fresh, p.resize(f)...)
	}

	ship := p.Faces[ShipFace].Grid[0][0]
	ship.occupy(ShipKind)
	ship.Collider.Radius = shipRadius

	fresh = without(fresh, ship)
	p.shuffle(fresh)
	p.queue = fresh

	span.SetAttributes(
		telemetry.KeyPlanetSize.Int(p.size),
		telemetry.KeyPlanetScale.Float64(p.Scale()),
		telemetry.KeyQueuedSlots.Int(len(p.queue)),
		telemetry.KeyGenerationMS.Int64(time.Since(startTime).Milliseconds()),
	)
}

// Size returns the current grid size of each face.
func (p *Planet) Size() int {
	return p.size
}

// Scale returns the planet radius in world units.
func (p *Planet) Scale() float64 {
	s := p.size
	if s < 1 {
		s = p.opts.Size
	}
	return p.opts.Radius + p.opts.RadiusPerSize*float64(s-1)
}

// Slot returns the slot at grid[face][i][j], or nil when out of range.
func (p *Planet) Slot(face, i, j int) *Slot {
	if face < 0 || face >= Faces {
		return nil
	}
	g := p.Faces[face].Grid
	if i < 0 || i >= len(g) || j < 0 || j >= len(g[i]) {
		return nil
	}
	return g[i][j]
}

// Slots returns every slot, face by face.
func (p *Planet) Slots() []*Slot {
	var out []*Slot
	for _, f := range p.Faces {
		for _, row := range f.Grid {
			out = append(out, row...)
		}
	}
	return out
}

// FreeBuildSlots counts sprouted slots that can still take a building.
func (p *Planet) FreeBuildSlots() int {
	n := 0
	for _, s := range p.Slots() {
		if s.Free() {
			n++
		}
	}
	return n
}

// BuildSlotQueue returns the slots waiting to sprout, next first.
func (p *Planet) BuildSlotQueue() []*Slot {
	return p.queue
}

// QueuedBuildSlots returns how many slots wait to sprout.
func (p *Planet) QueuedBuildSlots() int {
	return len(p.queue)
}

// SproutBuildSlots makes up to n queued slots pickable and returns how many
// sprouted.
func (p *Planet) SproutBuildSlots(n int) int {
	if n > len(p.queue) {
		n = len(p.queue)
	}
	for _, s := range p.queue[:n] {
		s.sprout()
	}
	p.queue = p.queue[n:]
	if n > 0 {
		p.logger.Debug("build slots sprouted", zap.Int("count", n), zap.Int("queued", len(p.queue)))
	}
	return n
}

// Grow adds a row and column of cells to every face. New cells on face
// are queued ahead of the others.
func (p *Planet) Grow(ctx context.Context, face int) error {
	if face < 0 || face >= Faces {
		return fmt.Errorf("%w: %d", ErrUnknownFace, face)
	}
	if p.size >= MaxSize {
		return ErrFullyGrown
	}

	_, span := telemetry.Start(ctx, telemetry.Tracer("planet"), telemetry.SpanGrow,
		telemetry.KeyPlanetFace.Int(face))
	defer span.End()

	p.size++
	p.Root.Scale = p.Scale()

	var near, far []*Slot
	for _, f := range p.Faces {
		fresh := p.resize(f)
		if f.Index == face {
			near = append(near, fresh...)
		} else {
			far = append(far, fresh...)
		}
	}
	p.shuffle(near)
	p.shuffle(far)

	queue := make([]*Slot, 0, len(near)+len(p.queue)+len(far))
	queue = append(queue, near...)
	queue = append(queue, p.queue...)
	queue = append(queue, far...)
	p.queue = queue

	span.SetAttributes(
		telemetry.KeyPlanetSize.Int(p.size),
		telemetry.KeyQueuedSlots.Int(len(p.queue)),
	)
	p.logger.Info("planet grew", zap.Int("size", p.size), zap.Int("face", face))
	return nil
}

// OnBuild registers fn to run before a slot starts a building. An error
// from fn rejects the building and leaves the slot free.
func (p *Planet) OnBuild(fn func(s *Slot, kind string) error) {
	p.onBuild = append(p.onBuild, fn)
}

// OnComplete registers fn to run whenever a building finishes.
func (p *Planet) OnComplete(fn func(s *Slot, kind string)) {
	p.onComplete = append(p.onComplete, fn)
}

func (p *Planet) built(s *Slot, kind string) error {
	for _, fn := range p.onBuild {
		if err := fn(s, kind); err != nil {
			return err
		}
	}
	p.logger.Info("building queued",
		zap.String("kind", kind),
		zap.Int("face", s.Face), zap.Int("i", s.I), zap.Int("j", s.J))
	return nil
}

func (p *Planet) completed(s *Slot) {
	p.logger.Debug("building completed", zap.String("kind", s.kind))
	p.SproutBuildSlots(p.opts.SlotsPerSprout)
	for _, fn := range p.onComplete {
		fn(s, s.kind)
	}
}

// resize grows f's grid to the current size, repositions every cell and
// returns the cells it created.
func (p *Planet) resize(f *Face) []*Slot {
	var fresh []*Slot
	for i := 0; i < p.size; i++ {
		if i >= len(f.Grid) {
			f.Grid = append(f.Grid, nil)
		}
		for j := len(f.Grid[i]); j < p.size; j++ {
			s := newSlot(p, f.Index, i, j)
			f.Grid[i] = append(f.Grid[i], s)
			fresh = append(fresh, s)
		}
	}
	for i, row := range f.Grid {
		for j, s := range row {
			s.Node.Pos = f.CellDir(i, j, p.size)
			s.Node.Rot = mgl64.QuatBetweenVectors(scene.Up, s.Node.Pos)
		}
	}
	return fresh
}

func (p *Planet) shuffle(slots []*Slot) {
	p.rng.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})
}

func without(slots []*Slot, drop *Slot) []*Slot {
	out := slots[:0]
	for _, s := range slots {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
