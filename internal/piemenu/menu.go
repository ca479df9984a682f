// Package piemenu provides the radial build menu.
package piemenu

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/scene"
)

const (
	// Size is the scale of the fully open menu.
	Size = 0.5
	// Radius is the distance of the buttons from the menu center.
	Radius = 0.75
	// ButtonRadius is the pointer hit radius of a button, before the menu
	// scale is applied.
	ButtonRadius = 0.4

	showTime  = 0.3
	hideTime  = 0.15
	spinTime  = 1.0
	closedMin = 0.1
)

// Shake arguments sent when an item is not affordable.
const (
	ShakeBlocks = "blocks"
	ShakePower  = "power"
)

// Item is one entry of the menu. Items are immutable.
type Item struct {
	Name       string
	Event      event.Type
	Building   string
	Cost       int
	Power      int
	ShakeCost  bool
	ShakePower bool
}

// PowerLabel renders the power delta with an explicit plus sign.
func (i Item) PowerLabel() string {
	if i.Power > 0 {
		return fmt.Sprintf("+%d", i.Power)
	}
	return fmt.Sprintf("%d", i.Power)
}

// Label is the button text.
func (i Item) Label() string {
	return fmt.Sprintf("%s\n%d B / %s P", i.Name, i.Cost, i.PowerLabel())
}

// Affordable reports whether selecting the item sends its event.
func (i Item) Affordable() bool {
	return !i.ShakeCost && !i.ShakePower
}

// Emitter receives the events sent by menu items.
type Emitter interface {
	Emit(t event.Type, args ...any)
}

// Button places an item on the circle.
type Button struct {
	Item Item
	Node *scene.Node
	Geom *scene.Node
}

// Menu is a radial menu of items. Hiding it runs the hide callback unless
// told otherwise.
type Menu struct {
	Root *scene.Node

	items   []Item
	buttons []Button
	queue   Emitter
	sfx     audio.Bank
	onHide  func()

	track   *interval.Track
	spin    *interval.Track
	roll    float64
	open    bool
	hovered int
}

// New builds a hidden menu under parent.
func New(parent *scene.Node, items []Item, onHide func(), queue Emitter, sfx audio.Bank, sched *interval.Scheduler) *Menu {
	m := &Menu{
		Root:    parent.AttachNew("pie_menu"),
		items:   items,
		queue:   queue,
		sfx:     sfx,
		onHide:  onHide,
		track:   interval.NewTrack(sched),
		spin:    interval.NewTrack(sched),
		hovered: -1,
	}
	m.layout()
	m.Root.Hide()
	return m
}

func (m *Menu) layout() {
	if len(m.items) == 0 {
		return
	}
	step := 360 / float64(len(m.items))
	for i, item := range m.items {
		a := mgl64.DegToRad(float64(i) * step)
		n := m.Root.AttachNew("button-" + item.Building)
		n.Pos = mgl64.Vec3{Radius * math.Cos(a), 0, Radius * math.Sin(a)}
		m.buttons = append(m.buttons, Button{Item: item, Node: n, Geom: n.AttachNew("geom")})
	}
}

// Items returns the menu items in button order.
func (m *Menu) Items() []Item {
	return m.items
}

// Buttons returns the laid out buttons.
func (m *Menu) Buttons() []Button {
	return m.buttons
}

// Visible reports whether the menu circle is on screen, including while
// the close animation runs.
func (m *Menu) Visible() bool {
	return !m.Root.Hidden()
}

// Open reports whether the menu accepts selections.
func (m *Menu) Open() bool {
	return m.open
}

// Roll returns the circle's roll in degrees.
func (m *Menu) Roll() float64 {
	return m.roll
}

// Hovered returns the hovered button index, or -1.
func (m *Menu) Hovered() int {
	return m.hovered
}

// ButtonPos returns where button i sits in the space the menu was built
// in, with the current scale and roll applied.
func (m *Menu) ButtonPos(i int) (x, y float64) {
	p := m.buttons[i].Node.PosIn(m.Root.Parent())
	return p.X(), p.Z()
}

// ItemAt returns the index of the button nearest to (x, y) within the hit
// radius, or -1. A closed menu has nothing under the pointer.
func (m *Menu) ItemAt(x, y float64) int {
	if !m.open {
		return -1
	}
	best, bestDist := -1, ButtonRadius*m.Root.Scale
	for i := range m.buttons {
		bx, by := m.ButtonPos(i)
		if d := math.Hypot(x-bx, y-by); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Show opens the menu centered on (x, y) in screen space.
func (m *Menu) Show(x, y float64) {
	m.open = true
	m.Root.Pos = mgl64.Vec3{x, 0, y}
	m.Root.Show()
	m.track.Start(interval.Parallel(
		interval.Lerp(showTime, interval.Linear, func(f float64) {
			m.Root.Scale = closedMin + (Size-closedMin)*f
		}),
		interval.Lerp(showTime, interval.Linear, func(f float64) {
			m.setRoll(-180 - 180*f)
		}),
	))
}

// Hide closes the menu. The hide callback runs unless ignoreCallback is
// set.
func (m *Menu) Hide(ignoreCallback bool) {
	m.open = false
	m.sfx.Cue(audio.MenuAccept).Play()
	m.Hover(-1)
	m.track.Start(interval.Sequence(
		interval.Parallel(
			interval.Lerp(hideTime, interval.Linear, func(f float64) {
				m.Root.Scale = Size + (closedMin-Size)*f
			}),
			interval.Lerp(hideTime, interval.Linear, func(f float64) {
				m.setRoll(360 - 540*f)
			}),
		),
		interval.Func(m.Root.Hide),
	))
	if m.onHide != nil && !ignoreCallback {
		m.onHide()
	}
}

// Select activates the button at index i. It reports whether the index
// named a button of an open menu.
func (m *Menu) Select(i int) bool {
	if !m.open || i < 0 || i >= len(m.items) {
		return false
	}
	m.Send(m.items[i])
	return true
}

// Send emits the item's event when it is affordable. Otherwise the HUD
// shakes the missing resources.
func (m *Menu) Send(item Item) {
	if item.Affordable() {
		m.queue.Emit(item.Event)
		m.sfx.Cue(audio.MenuAccept).Play()
		return
	}
	if item.ShakeCost {
		m.queue.Emit(event.Shake, ShakeBlocks)
	}
	if item.ShakePower {
		m.queue.Emit(event.Shake, ShakePower)
	}
	m.sfx.Cue(audio.CaughtNothing).Play()
}

// Hover spins the button at index i. Any other index stops the spin.
func (m *Menu) Hover(i int) {
	if i == m.hovered {
		return
	}
	m.spin.Finish()
	m.hovered = -1
	if i < 0 || i >= len(m.buttons) {
		return
	}
	m.hovered = i
	geom := m.buttons[i].Geom
	m.spin.Loop(interval.Lerp(spinTime, interval.Linear, func(f float64) {
		geom.SetHpr(360*f, 0, 0)
	}))
	m.sfx.Cue(audio.MenuHover).Play()
}

// Destroy stops the animations and removes the menu from the scene.
func (m *Menu) Destroy() {
	m.open = false
	m.track.Cancel()
	m.spin.Cancel()
	m.Root.Remove()
}

func (m *Menu) setRoll(r float64) {
	m.roll = r
	m.Root.SetHpr(0, 0, r)
}
