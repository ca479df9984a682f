package planet

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/scene"
)

// ErrSlotTaken is returned when building on a slot that cannot take a
// building.
var ErrSlotTaken = errors.New("slot cannot be built on")

// SlotState is the lifecycle stage of a slot.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotHovered
	SlotQueued
	SlotBuilt
)

// String returns a human-readable state name.
func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotHovered:
		return "hovered"
	case SlotQueued:
		return "queued"
	case SlotBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// Rune returns the slot's display character.
func (s SlotState) Rune() rune {
	switch s {
	case SlotHovered:
		return '+'
	case SlotQueued:
		return '%'
	case SlotBuilt:
		return '#'
	default:
		return 'o'
	}
}

// SlotRadius is the pick radius of a slot in planet units.
const SlotRadius = 0.15

const sproutTime = 0.5

// Slot is one cell of a face grid that may hold a building.
type Slot struct {
	Face, I, J int

	// Node sits on the unit sphere in planet space. Building is its child
	// and carries the construction animation.
	Node     *scene.Node
	Building *scene.Node
	Collider *collision.Collider

	planet    *Planet
	state     SlotState
	kind      string
	sprouted  bool
	buildSlot bool
	track     *interval.Track
}

func newSlot(p *Planet, face, i, j int) *Slot {
	s := &Slot{
		Face:      face,
		I:         i,
		J:         j,
		planet:    p,
		buildSlot: true,
		track:     interval.NewTrack(p.sched),
	}
	s.Node = p.Root.AttachNew(fmt.Sprintf("slot-%d-%d-%d", face, i, j))
	s.Node.Stash()
	s.Building = s.Node.AttachNew("building")
	s.Building.Hide()
	s.Collider = p.world.Add(&collision.Collider{
		Entity:  s.Node.Name,
		Node:    s.Node,
		Radius:  SlotRadius,
		Into:    collision.MaskPick,
		Tag:     collision.TagBuildSpot,
		Payload: s,
	})
	return s
}

// Pos returns the slot position in planet space.
func (s *Slot) Pos() mgl64.Vec3 {
	return s.Node.Pos
}

// State returns the slot state.
func (s *Slot) State() SlotState {
	return s.state
}

// Kind returns the building kind, or "" when nothing was built.
func (s *Slot) Kind() string {
	return s.kind
}

// Sprouted reports whether the slot is visible and pickable.
func (s *Slot) Sprouted() bool {
	return s.sprouted
}

// IsBuildSlot reports whether the slot can ever take a building.
func (s *Slot) IsBuildSlot() bool {
	return s.buildSlot
}

// Free reports whether the slot is sprouted and waiting for a building.
func (s *Slot) Free() bool {
	return s.buildSlot && s.sprouted && (s.state == SlotEmpty || s.state == SlotHovered)
}

// OnHover highlights a free slot.
func (s *Slot) OnHover() {
	if s.state == SlotEmpty {
		s.state = SlotHovered
	}
}

// OnBlur clears the highlight.
func (s *Slot) OnBlur() {
	if s.state == SlotHovered {
		s.state = SlotEmpty
	}
}

// Build queues kind on the slot. The building rises over duration seconds
// and then counts as built. An OnBuild hook error leaves the slot as it
// was.
func (s *Slot) Build(kind string, duration float64) error {
	if !s.Free() {
		return fmt.Errorf("%w: %s is %s", ErrSlotTaken, s.Node.Name, s.state)
	}
	if err := s.planet.built(s, kind); err != nil {
		return fmt.Errorf("build %s on %s: %w", kind, s.Node.Name, err)
	}
	s.state = SlotQueued
	s.kind = kind
	s.Collider.Into = collision.MaskObstacle
	s.Collider.Tag = collision.TagObstacle
	s.Building.Scale = 0.001
	s.Building.Show()

	s.track.Start(interval.Sequence(
		interval.LerpFloat(duration, interval.EaseOut,
			func() float64 { return s.Building.Scale },
			func(v float64) { s.Building.Scale = v },
			1),
		interval.Func(s.finish),
	))
	return nil
}

func (s *Slot) finish() {
	s.state = SlotBuilt
	s.planet.completed(s)
}

func (s *Slot) sprout() {
	s.sprouted = true
	s.Node.Unstash()
	s.Node.Scale = 0.001
	s.track.Start(interval.LerpFloat(sproutTime, interval.EaseOut,
		func() float64 { return s.Node.Scale },
		func(v float64) { s.Node.Scale = v },
		1))
}

// occupy turns the slot into a permanent obstacle such as the crashed ship.
func (s *Slot) occupy(kind string) {
	s.track.Cancel()
	s.buildSlot = false
	s.sprouted = true
	s.state = SlotBuilt
	s.kind = kind
	s.Node.Unstash()
	s.Node.Scale = 1
	s.Building.Scale = 1
	s.Building.Show()
	s.Collider.Into = collision.MaskObstacle
	s.Collider.Tag = collision.TagObstacle
}
