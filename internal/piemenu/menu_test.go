package piemenu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/scene"
)

type fixture struct {
	menu   *Menu
	queue  *event.Queue
	sfx    *audio.SilentBank
	sched  *interval.Scheduler
	hidden int
}

func newFixture(items ...Item) *fixture {
	f := &fixture{
		queue: event.NewQueue(zap.NewNop()),
		sfx:   audio.NewSilentBank(),
		sched: interval.NewScheduler(),
	}
	f.menu = New(scene.NewNode("hud"), items, func() { f.hidden++ }, f.queue, f.sfx, f.sched)
	return f
}

func items() []Item {
	return []Item{
		{Name: "Tent", Event: event.Build("tent"), Building: "tent", Cost: 2, Power: -1},
		{Name: "Windmill", Event: event.Build("windmill"), Building: "windmill", Cost: 3, Power: 3, ShakeCost: true},
		{Name: "Chest", Event: event.Build("chest"), Building: "chest", Cost: 4, Power: -1, ShakeCost: true, ShakePower: true},
	}
}

func TestPowerLabel(t *testing.T) {
	assert.Equal(t, "+3", Item{Power: 3}.PowerLabel())
	assert.Equal(t, "-2", Item{Power: -2}.PowerLabel())
	assert.Equal(t, "0", Item{}.PowerLabel())
	assert.Equal(t, "Tent\n2 B / -1 P", items()[0].Label())
}

func TestLayout(t *testing.T) {
	f := newFixture(items()...)
	buttons := f.menu.Buttons()
	require.Len(t, buttons, 3)

	for i, b := range buttons {
		a := float64(i) * 2 * math.Pi / 3
		assert.InDelta(t, Radius*math.Cos(a), b.Node.Pos.X(), 1e-9)
		assert.InDelta(t, Radius*math.Sin(a), b.Node.Pos.Z(), 1e-9)
	}
	assert.False(t, f.menu.Visible())
}

func TestItemAt(t *testing.T) {
	f := newFixture(items()...)
	assert.Equal(t, -1, f.menu.ItemAt(Size*Radius, 0), "closed menu")

	f.menu.Show(0.2, -0.1)
	f.sched.Tick(0.3)
	for i := range f.menu.Buttons() {
		x, y := f.menu.ButtonPos(i)
		a := float64(i) * 2 * math.Pi / 3
		assert.InDelta(t, 0.2+Size*Radius*math.Cos(a), x, 1e-9)
		assert.InDelta(t, -0.1+Size*Radius*math.Sin(a), y, 1e-9)
		assert.Equal(t, i, f.menu.ItemAt(x+0.05, y-0.05))
	}
	assert.Equal(t, -1, f.menu.ItemAt(0.2, -0.1), "menu center")
	assert.Equal(t, -1, f.menu.ItemAt(-0.9, 0.9))

	f.menu.Hide(true)
	x, y := f.menu.ButtonPos(0)
	assert.Equal(t, -1, f.menu.ItemAt(x, y))
}

func TestShowAndHide(t *testing.T) {
	f := newFixture(items()...)

	f.menu.Show(0, 0)
	assert.True(t, f.menu.Visible())
	assert.True(t, f.menu.Open())
	f.sched.Tick(0.3)
	assert.InDelta(t, Size, f.menu.Root.Scale, 1e-9)
	assert.InDelta(t, -360, f.menu.Roll(), 1e-9)

	f.menu.Hide(false)
	assert.Equal(t, 1, f.hidden)
	assert.False(t, f.menu.Open())
	assert.True(t, f.menu.Visible(), "circle stays up while it closes")
	f.sched.Tick(0.15)
	assert.False(t, f.menu.Visible())
	assert.Equal(t, 1, f.sfx.Plays(audio.MenuAccept))

	f.menu.Show(0, 0)
	f.menu.Hide(true)
	assert.Equal(t, 1, f.hidden, "ignored callback")
}

func TestSelect(t *testing.T) {
	f := newFixture(items()...)

	var got []event.Event
	for _, it := range items() {
		f.queue.Subscribe(it.Event, func(e event.Event) { got = append(got, e) })
	}
	var shakes []any
	f.queue.Subscribe(event.Shake, func(e event.Event) { shakes = append(shakes, e.Arg(0)) })

	assert.False(t, f.menu.Select(0), "closed menu ignores selections")

	f.menu.Show(0, 0)
	assert.True(t, f.menu.Select(0))
	assert.True(t, f.menu.Select(1))
	assert.True(t, f.menu.Select(2))
	assert.False(t, f.menu.Select(3))
	f.queue.Flush()

	require.Len(t, got, 1)
	assert.Equal(t, event.Build("tent"), got[0].Type)
	assert.Equal(t, []any{ShakeBlocks, ShakeBlocks, ShakePower}, shakes)
	assert.Equal(t, 2, f.sfx.Plays(audio.CaughtNothing))
	assert.True(t, f.menu.Open())
}

func TestHoverSpins(t *testing.T) {
	f := newFixture(items()...)
	f.menu.Show(0, 0)

	f.menu.Hover(1)
	assert.Equal(t, 1, f.menu.Hovered())
	assert.Equal(t, 1, f.sfx.Plays(audio.MenuHover))
	f.sched.Tick(0.25)
	h, _ := scene.HeadingPitch(f.menu.Buttons()[1].Geom.WorldQuat().Rotate(scene.Forward))
	assert.NotZero(t, h)

	f.menu.Hover(-1)
	assert.Equal(t, -1, f.menu.Hovered())
	f.menu.Destroy()
	assert.False(t, f.menu.Open())
}
