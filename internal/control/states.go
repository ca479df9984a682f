package control

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/samdwyer/obbo/internal/entity"
	"github.com/samdwyer/obbo/internal/piemenu"
)

// ErrUnknownState is returned by NewState for names outside the table.
var ErrUnknownState = errors.New("unknown control state")

// StateName identifies a control state.
type StateName string

const (
	Intro   StateName = "Intro"
	Normal  StateName = "Normal"
	Charge  StateName = "Charge"
	Cast    StateName = "Cast"
	Reel    StateName = "Reel"
	Consume StateName = "Consume"
	Build   StateName = "Build"
	Pause   StateName = "Pause"
)

// transitions lists the legal edges. The empty name is the state before
// the first transition.
var transitions = map[StateName][]StateName{
	"":      {Intro},
	Intro:   {Normal},
	Normal:  {Charge, Build, Pause},
	Charge:  {Cast, Normal},
	Cast:    {Reel, Normal},
	Reel:    {Consume, Normal},
	Consume: {Normal},
	Build:   {Normal},
	Pause:   {Normal},
}

// Allowed reports whether the machine may move from one state to another.
func Allowed(from, to StateName) bool {
	for _, n := range transitions[from] {
		if n == to {
			return true
		}
	}
	return false
}

// State is one node of the control machine. Each state owns the input
// scope opened for it and the interval chains it starts.
type State interface {
	Name() StateName

	enter(c *Control)
	update(c *Control, dt float64)
	exit(c *Control)
}

// IntroState plays the crash landing.
type IntroState struct{}

// NormalState walks, picks and hovers.
type NormalState struct{}

// ChargeState aims while the mouse is held.
type ChargeState struct{}

// CastState flings the bobber and waits for a bite.
type CastState struct {
	// Power is the charge fraction; values above 1 are clamped.
	Power float64
}

// ReelState pulls the bobber back, with or without a catch.
type ReelState struct {
	Catch *entity.Asteroid
}

// ConsumeState swallows a caught asteroid.
type ConsumeState struct {
	Catch *entity.Asteroid
}

// BuildState offers the build menu for a slot and walks there.
type BuildState struct {
	Slot Slot

	menu    *piemenu.Menu
	subs    []uuid.UUID
	target  mgl64.Vec3
	kind    string
	walking bool
}

// PauseState shows the pause overlay.
type PauseState struct{}

func (*IntroState) Name() StateName   { return Intro }
func (*NormalState) Name() StateName  { return Normal }
func (*ChargeState) Name() StateName  { return Charge }
func (*CastState) Name() StateName    { return Cast }
func (*ReelState) Name() StateName    { return Reel }
func (*ConsumeState) Name() StateName { return Consume }
func (*BuildState) Name() StateName   { return Build }
func (*PauseState) Name() StateName   { return Pause }

// NewState builds a state from its name and arguments: Cast takes a
// float64 power, Reel an optional *entity.Asteroid, Consume a required
// *entity.Asteroid and Build a required Slot.
func NewState(name StateName, args ...any) (State, error) {
	switch name {
	case Intro:
		return &IntroState{}, nil
	case Normal:
		return &NormalState{}, nil
	case Charge:
		return &ChargeState{}, nil
	case Cast:
		power, _ := arg[float64](args, 0)
		return &CastState{Power: power}, nil
	case Reel:
		catch, _ := arg[*entity.Asteroid](args, 0)
		return &ReelState{Catch: catch}, nil
	case Consume:
		catch, ok := arg[*entity.Asteroid](args, 0)
		if !ok || catch == nil {
			return nil, fmt.Errorf("%s needs an asteroid", name)
		}
		return &ConsumeState{Catch: catch}, nil
	case Build:
		slot, ok := arg[Slot](args, 0)
		if !ok || slot == nil {
			return nil, fmt.Errorf("%s needs a slot", name)
		}
		return &BuildState{Slot: slot}, nil
	case Pause:
		return &PauseState{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
}

func arg[T any](args []any, i int) (T, bool) {
	var zero T
	if i >= len(args) {
		return zero, false
	}
	v, ok := args[i].(T)
	return v, ok
}
