package control

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/event"
	"github.com/samdwyer/obbo/internal/gamedata"
	"github.com/samdwyer/obbo/internal/input"
	"github.com/samdwyer/obbo/internal/interval"
	"github.com/samdwyer/obbo/internal/piemenu"
	"github.com/samdwyer/obbo/internal/telemetry"
)

// NoRescueMsg is shown when the last slot is taken and no beacon can be
// built on it.
const NoRescueMsg = "Looks like Obbo will not be rescued!!!"

const noRescueTime = 60

// Offer lists the menu items for the unlocked buildings. On a fully grown
// planet with one slot left only the beacon is offered.
func Offer(logic GameLogic, p Planet, bus Bus, finalSize int) []piemenu.Item {
	unlocked := logic.Unlocked()
	categories := make([]string, 0, len(unlocked))
	for cat := range unlocked {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var kinds []string
	for _, cat := range categories {
		kinds = append(kinds, unlocked[cat]...)
	}

	if p.FreeBuildSlots()+p.QueuedBuildSlots() == 1 && p.Size() == finalSize {
		var last []string
		for _, k := range kinds {
			if k == gamedata.BeaconID {
				last = append(last, k)
			}
		}
		kinds = last
		if len(kinds) == 0 {
			bus.Emit(event.UpdateHUD, "msg", NoRescueMsg, noRescueTime)
		}
	}

	blocks := logic.BlocksAvailable()
	power := logic.PowerAvailable()
	items := make([]piemenu.Item, 0, len(kinds))
	for _, k := range kinds {
		cost := logic.Cost(k)
		pw := logic.Power(k)
		items = append(items, piemenu.Item{
			Name:       capitalize(k),
			Event:      event.Build(k),
			Building:   k,
			Cost:       cost,
			Power:      pw,
			ShakeCost:  cost > blocks,
			ShakePower: pw < 0 && -pw > power,
		})
	}
	return items
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func (s *BuildState) enter(c *Control) {
	c.scope.Block(input.Mouse1Up)
	c.scope.Accept(input.Mouse1, func() {
		if !s.menu.Open() {
			return
		}
		if i := s.point(c); i >= 0 {
			s.menu.Select(i)
			return
		}
		s.menu.Hide(false)
	})
	c.scope.Accept(input.Escape, c.toNormal)

	c.clearTarget()

	items := Offer(c.logic, c.planet, c.bus, c.cfg.Build.FinalPlanetSize)
	s.menu = piemenu.New(c.hud, items, c.toNormal, c.bus, c.sfx, c.sched)
	for i, item := range items {
		i := i
		kind := item.Building
		s.subs = append(s.subs, c.bus.Subscribe(item.Event, func(event.Event) { c.build(s, kind) }))
		if key, ok := input.MenuKey(i); ok {
			c.scope.Accept(key, func() { s.menu.Select(i) })
		}
	}

	c.hasDown = false
	s.menu.Show(0, 0)
}

// build commits to placing kind on the state's slot and walks there.
// Unaffordable picks leave the menu open.
func (c *Control) build(s *BuildState, kind string) {
	if !c.in(Build) || c.state != s || s.walking {
		return
	}
	if !c.logic.CanBuild(kind) {
		c.logger.Debug("build rejected", zap.String("kind", kind))
		c.cue(audio.CaughtNothing).Play()
		return
	}

	c.cue(audio.MenuAccept).Play()
	target := s.Slot.Pos()
	dir := target.Sub(c.Player.Pos())
	if dir.Len() > 1e-9 {
		target = target.Sub(dir.Normalize().Mul(c.cfg.Build.Standoff / c.planet.Scale()))
	}
	if target.Len() > 1e-9 {
		target = target.Normalize()
	}

	s.target = target
	s.kind = kind
	s.walking = true
	s.menu.Hide(true)
	c.unsubscribe(s)
	c.Player.Walk.Loop()
}

func (c *Control) unsubscribe(s *BuildState) {
	for _, id := range s.subs {
		c.bus.Unsubscribe(id)
	}
	s.subs = nil
}

// point hovers the button under the pointer and returns its index, or -1.
func (s *BuildState) point(c *Control) int {
	x, y, ok := c.window.Pointer()
	if !ok {
		s.menu.Hover(-1)
		return -1
	}
	i := s.menu.ItemAt(x, y)
	s.menu.Hover(i)
	return i
}

func (s *BuildState) update(c *Control, dt float64) {
	if !s.walking {
		s.point(c)
		return
	}
	if !c.Player.MoveToward(s.target, dt) {
		return
	}

	s.walking = false
	c.Player.Walk.Stop()
	c.Player.LookToward(s.Slot.Pos())
	c.Player.Build.Loop()

	_, span := telemetry.Start(c.ctx, c.tracer, telemetry.SpanBuild,
		telemetry.KeyBuilding.String(s.kind))
	defer span.End()

	d := c.cfg.Build.Duration
	if err := s.Slot.Build(s.kind, d); err != nil {
		telemetry.Fail(span, err)
		c.logger.Warn("build failed", zap.String("kind", s.kind), zap.Error(err))
		c.Player.Build.Stop()
		c.cue(audio.CaughtNothing).Play()
		c.toNormal()
		return
	}
	pos := s.Slot.Pos()
	c.logger.Info("building placed", zap.String("kind", s.kind), zap.Float64s("slot", pos[:]))

	c.seq.Start(interval.Sequence(
		interval.Wait(d),
		interval.Func(func() {
			c.cue(audio.BuildingPlaced).Play()
			c.Player.Build.Stop()
			c.toNormal()
		}),
	))
	c.cue(audio.ObboBuild).Play()
}

func (s *BuildState) exit(c *Control) {
	c.seq.Cancel()
	if s.menu != nil {
		s.menu.Destroy()
	}
	c.unsubscribe(s)
	c.Player.Walk.Stop()
	c.Player.Build.Stop()
}
