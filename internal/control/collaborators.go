package control

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/samdwyer/obbo/internal/event"
)

// MouseMode is the pointer mode requested from the window.
type MouseMode int

const (
	MouseAbsolute MouseMode = iota
	MouseRelative
	MouseConfined
)

// Window owns the pointer. Positions are in [-1, 1] with y up.
type Window interface {
	Pointer() (x, y float64, ok bool)
	MovePointer(x, y float64)
	SetMouseMode(mode MouseMode, cursorHidden bool)
}

// Viewport turns pointer positions into world-space pick rays.
type Viewport interface {
	PickRay(x, y float64) (origin, dir mgl64.Vec3)
}

// Overlay is the 2D layer on top of the world.
type Overlay interface {
	ShowHUD()
	HideHUD()
	// Fade returns the opacity of the full screen fade, 0 when clear.
	Fade() float64
	SetFade(alpha float64)
}

// GameLogic answers what can be built.
type GameLogic interface {
	Unlocked() map[string][]string
	Cost(kind string) int
	Power(kind string) int
	BlocksAvailable() int
	PowerAvailable() int
	CanBuild(kind string) bool
}

// Planet is the body the player walks on.
type Planet interface {
	Size() int
	Scale() float64
	FreeBuildSlots() int
	QueuedBuildSlots() int
	SproutBuildSlots(n int) int
	Grow(ctx context.Context, face int) error
}

// Slot is a build slot on the planet.
type Slot interface {
	OnHover()
	OnBlur()
	Build(kind string, duration float64) error
	Pos() mgl64.Vec3
}

// Bus delivers game-wide events.
type Bus interface {
	Emit(t event.Type, args ...any)
	Subscribe(t event.Type, h event.Handler) uuid.UUID
	SubscribeOnce(t event.Type, h event.Handler) uuid.UUID
	Unsubscribe(id uuid.UUID) bool
}
