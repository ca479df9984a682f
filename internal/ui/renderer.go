package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/control"
	"github.com/samdwyer/obbo/internal/gamedata"
	"github.com/samdwyer/obbo/internal/piemenu"
	"github.com/samdwyer/obbo/internal/planet"
	"github.com/samdwyer/obbo/internal/scene"
)

// Glyphs of the things drawn on top of the planet.
const (
	GlyphPlayer    = '@'
	GlyphCursor    = 'x'
	GlyphTarget    = 'X'
	GlyphCrosshair = '¤'
	GlyphBobber    = '•'
	GlyphLine      = '·'
	GlyphShip      = 'A'
	GlyphAsteroid  = '*'
	GlyphTerrain   = '.'
	GlyphObstacle  = '#'
	GlyphStar      = '.'
)

// lineSamples is how many points of the fishing line are drawn.
const lineSamples = 12

const renderMask = collision.MaskPick | collision.MaskObstacle | collision.MaskAsteroid

// Frame is what one render draws.
type Frame struct {
	Control *control.Control
	HUD     *HUD
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen   *Screen
	view     *View
	world    *collision.World
	registry *gamedata.BuildingRegistry
	styles   styles
}

type styles struct {
	star, terrain                tcell.Style
	slot, hovered, queued        tcell.Style
	cursor, target, player       tcell.Style
	asteroid, bobber, line, ship tcell.Style
	crosshair, warning           tcell.Style
	text, fade                   tcell.Style
}

func newStyles(p gamedata.Palette) styles {
	bg := color(p.Background)
	fg := func(hex string) tcell.Style {
		return tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(color(hex))
	}
	return styles{
		star:      tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(bg),
		terrain:   fg(p.Terrain),
		slot:      fg(p.Slot),
		hovered:   fg(p.SlotHovered).Bold(true),
		queued:    fg(p.SlotQueued),
		cursor:    fg(p.Cursor),
		target:    fg(p.Target).Bold(true),
		player:    fg(p.Player).Bold(true),
		asteroid:  fg(p.Asteroid),
		bobber:    fg(p.Bobber).Bold(true),
		line:      fg(p.Line),
		ship:      fg(p.Ship).Bold(true),
		crosshair: fg(p.Crosshair).Bold(true),
		warning:   fg(p.CrosshairWarning).Bold(true),
		text:      tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite),
		fade:      tcell.StyleDefault.Background(tcell.ColorBlack),
	}
}

func color(hex string) tcell.Color {
	c, err := gamedata.ParseHexColor(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	return c
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, view *View, world *collision.World, registry *gamedata.BuildingRegistry, palette gamedata.Palette) *Renderer {
	return &Renderer{
		screen:   screen,
		view:     view,
		world:    world,
		registry: registry,
		styles:   newStyles(palette),
	}
}

// Render draws the planet, the markers and the overlays.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()
	r.drawWorld()

	c := f.Control
	r.drawMarkers(c)
	r.drawFade()
	if m := c.Menu(); m != nil && m.Visible() {
		r.drawMenu(m)
	}
	if r.view.HUDVisible() {
		r.drawHUD(c, f.HUD)
	}
	r.drawPause(c)

	r.screen.Show()
}

// drawWorld casts one pick ray per cell and draws the first thing it hits.
func (r *Renderer) drawWorld() {
	w, h := r.screen.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := r.view.CellToPointer(x, y)
			origin, dir := r.view.PickRay(px, py)
			hits := r.world.Ray(origin, dir, renderMask)
			if len(hits) == 0 {
				if (x*7+y*13)%47 == 0 {
					r.screen.SetContent(x, y, GlyphStar, r.styles.star)
				}
				continue
			}
			ch, style := r.hitGlyph(hits[0])
			r.screen.SetContent(x, y, ch, style)
		}
	}
}

func (r *Renderer) hitGlyph(hit collision.Hit) (rune, tcell.Style) {
	if hit.Tag == collision.TagAsteroid {
		return GlyphAsteroid, r.styles.asteroid
	}
	// Slots keep their payload when a building turns them into obstacles.
	if s, ok := hit.Payload.(*planet.Slot); ok && (s.Sprouted() || s.Kind() != "") {
		return r.slotGlyph(s)
	}
	if hit.Tag == collision.TagObstacle {
		return GlyphObstacle, r.styles.terrain
	}
	return GlyphTerrain, r.styles.terrain
}

func (r *Renderer) slotGlyph(s *planet.Slot) (rune, tcell.Style) {
	state := s.State()
	if s.Kind() == planet.ShipKind {
		return GlyphShip, r.styles.ship
	}
	switch state {
	case planet.SlotHovered:
		return state.Rune(), r.styles.hovered
	case planet.SlotQueued, planet.SlotBuilt:
		if def := r.registry.GetByID(s.Kind()); def != nil {
			style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(def.TCellColor())
			if state == planet.SlotQueued {
				style = style.Dim(true)
			}
			return def.GlyphRune(), style
		}
		return state.Rune(), r.styles.queued
	}
	return state.Rune(), r.styles.slot
}

func (r *Renderer) drawMarkers(c *control.Control) {
	if c.Line.Visible {
		a := c.Player.Root.PointToWorld(c.Line.A)
		b := c.Player.Root.PointToWorld(c.Line.B)
		for i := 1; i < lineSamples; i++ {
			t := float64(i) / lineSamples
			r.plot(a.Add(b.Sub(a).Mul(t)), GlyphLine, r.styles.line)
		}
	}

	r.plotNode(c.Target.Root, GlyphTarget, r.styles.target)
	r.plotNode(c.Cursor.Root, GlyphCursor, r.styles.cursor)
	r.plotNode(c.Ship, GlyphShip, r.styles.ship)
	r.plotNode(c.Player.Root, GlyphPlayer, r.styles.player)

	cross := r.styles.crosshair
	if c.Crosshair.Obstructed() {
		cross = r.styles.warning
	}
	r.plotNode(c.Crosshair.Node, GlyphCrosshair, cross)
	r.plotNode(c.Bobber, GlyphBobber, r.styles.bobber)
}

func (r *Renderer) plotNode(n *scene.Node, ch rune, style tcell.Style) {
	if n.Hidden() {
		return
	}
	r.plot(n.WorldPos(), ch, style)
}

func (r *Renderer) plot(p mgl64.Vec3, ch rune, style tcell.Style) {
	if x, y, ok := r.view.Project(p); ok {
		r.screen.SetContent(x, y, ch, style)
	}
}

// drawFade blanks the screen once the fade is more opaque than not.
func (r *Renderer) drawFade() {
	if r.view.Fade() < 0.5 {
		return
	}
	w, h := r.screen.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', r.styles.fade)
		}
	}
}

func (r *Renderer) drawMenu(m *piemenu.Menu) {
	for i, item := range m.Items() {
		line := fmt.Sprintf(" %d %s %d B / %s P ", i+1, item.Name, item.Cost, item.PowerLabel())
		style := r.styles.text
		if !item.Affordable() {
			style = r.styles.warning
		}
		if i == m.Hovered() {
			style = style.Reverse(true)
		}
		// Labels sit on their buttons.
		x, y := r.view.PointerToCell(m.ButtonPos(i))
		r.screen.Text(x-len(line)/2, y, line, style)
	}
}

func (r *Renderer) drawHUD(c *control.Control, hud *HUD) {
	x := 0
	for _, key := range hud.Keys() {
		v, _ := hud.Value(key)
		style := r.styles.text
		if hud.Shaking(key) {
			style = r.styles.warning
		}
		x = r.screen.Text(x, 0, fmt.Sprintf("%s: %s  ", key, v), style)
	}

	w, h := r.screen.Size()
	state := string(c.StateName())
	r.screen.Text(w-len(state)-1, 0, state, r.styles.text)
	if msg := hud.Message(); msg != "" {
		r.screen.Text((w-len(msg))/2, h-1, msg, r.styles.text.Bold(true))
	}
}

func (r *Renderer) drawPause(c *control.Control) {
	w, h := r.screen.Size()
	for i, l := range c.PauseLabels {
		if l == nil || l.Node.Hidden() || l.Node.Alpha() < 0.5 {
			continue
		}
		r.screen.Text((w-len(l.Text))/2, h/2-1+i*2, l.Text, r.styles.text)
	}
}
