package entity

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/scene"
)

const (
	// AsteroidRadius is the capture collider radius in rock space.
	AsteroidRadius = 0.3

	OrbitPeriod = 10.0
	SpinPeriod  = 3.0

	minBound = 0.03
	maxBound = 0.3
)

// Asteroid is an orbiting rock. Root sits at the planet center, Rotation
// carries the orbit and Rock is the visible body.
type Asteroid struct {
	Root     *scene.Node
	Rotation *scene.Node
	Rock     *scene.Node
	Collider *collision.Collider

	// Bounds is the rock's half-extent on each axis.
	Bounds mgl64.Vec3
	// Shade is the base grey level of the rock.
	Shade float64

	index int
	orbit *interval.Track
	spin  *interval.Track
}

// Index returns the asteroid's slot in its pool.
func (a *Asteroid) Index() int {
	return a.index
}

// Stop freezes the orbit and spin.
func (a *Asteroid) Stop() {
	a.orbit.Pause()
	a.spin.Pause()
}

// Orbiting reports whether the asteroid is still circling the planet.
func (a *Asteroid) Orbiting() bool {
	return a.orbit.Running() && !a.orbit.Paused()
}

// AsteroidPool owns the asteroids. Captured rocks are released by index.
type AsteroidPool struct {
	parent *scene.Node
	world  *collision.World
	sched  *interval.Scheduler
	rng    *rand.Rand
	logger *zap.Logger

	slots []*Asteroid
	free  []int
}

// NewAsteroidPool creates an empty pool that parents rocks under parent.
func NewAsteroidPool(parent *scene.Node, world *collision.World, sched *interval.Scheduler, rng *rand.Rand, logger *zap.Logger) *AsteroidPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsteroidPool{
		parent: parent,
		world:  world,
		sched:  sched,
		rng:    rng,
		logger: logger,
	}
}

// Fill spawns n asteroids sized for a planet of the given size.
func (p *AsteroidPool) Fill(n, planetSize int) {
	for i := 0; i < n; i++ {
		p.Spawn(planetSize)
	}
}

// Spawn creates one asteroid in a random orbit and starts it moving.
func (p *AsteroidPool) Spawn(planetSize int) *Asteroid {
	a := &Asteroid{
		Bounds: mgl64.Vec3{
			p.uniform(minBound, maxBound),
			p.uniform(minBound, maxBound),
			p.uniform(minBound, maxBound),
		},
		Shade: p.uniform(0.05, 0.25),
		orbit: interval.NewTrack(p.sched),
		spin:  interval.NewTrack(p.sched),
	}

	a.index = p.claim(a)
	name := fmt.Sprintf("asteroid-%d", a.index)

	a.Root = p.parent.AttachNew(name)
	base := a.Root.AttachNew("base_rotation")
	base.SetHpr(float64(p.rng.Intn(360)), float64(p.rng.Intn(180)-90), 0)
	a.Rotation = base.AttachNew("rotation")
	a.Rotation.Pos = mgl64.Vec3{0, 0, -1}
	a.Rock = a.Rotation.AttachNew("rock")
	size := float64(planetSize)
	a.Rock.Pos = mgl64.Vec3{size * p.uniform(2, 5), size * p.uniform(2, 5), 0}

	a.Collider = p.world.Add(&collision.Collider{
		Entity:  name,
		Node:    a.Rock,
		Radius:  AsteroidRadius,
		Into:    collision.MaskAsteroid,
		Tag:     collision.TagAsteroid,
		Payload: a,
	})

	a.orbit.Loop(interval.Lerp(OrbitPeriod, interval.Linear, func(f float64) {
		a.Rotation.SetHpr(360*f, 0, 0)
	}))
	a.spin.Loop(interval.Lerp(SpinPeriod, interval.Linear, func(f float64) {
		a.Rock.SetHpr(360*f, 360*f, 0)
	}))
	return a
}

func (p *AsteroidPool) claim(a *Asteroid) int {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		p.slots[idx] = a
		return idx
	}
	p.slots = append(p.slots, a)
	return len(p.slots) - 1
}

func (p *AsteroidPool) uniform(lo, hi float64) float64 {
	return lo + p.rng.Float64()*(hi-lo)
}

// Get returns the asteroid at index, or nil if the slot is empty.
func (p *AsteroidPool) Get(index int) *Asteroid {
	if index < 0 || index >= len(p.slots) {
		return nil
	}
	return p.slots[index]
}

// Remove destroys the asteroid at index and frees the slot for reuse. It
// reports whether an asteroid was removed.
func (p *AsteroidPool) Remove(index int) bool {
	a := p.Get(index)
	if a == nil {
		return false
	}
	a.orbit.Cancel()
	a.spin.Cancel()
	p.world.Remove(a.Collider)
	a.Rock.Remove()
	a.Root.Remove()

	p.slots[index] = nil
	p.free = append(p.free, index)
	p.logger.Debug("asteroid removed", zap.Int("index", index))
	return true
}

// Len returns the number of live asteroids.
func (p *AsteroidPool) Len() int {
	n := 0
	for _, a := range p.slots {
		if a != nil {
			n++
		}
	}
	return n
}

// All returns the live asteroids in index order.
func (p *AsteroidPool) All() []*Asteroid {
	out := make([]*Asteroid, 0, len(p.slots))
	for _, a := range p.slots {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
