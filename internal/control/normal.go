package control

import (
	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/camera"
	"github.com/samdwyer/obbo/internal/collision"
	"github.com/samdwyer/obbo/internal/input"
)

func (s *NormalState) enter(c *Control) {
	c.Crosshair.Node.Hide()
	c.setView(camera.ViewDefault)
	c.Bobber.Stash()
	c.Line.Visible = false
	c.Player.Reel.Stop()
	c.Player.Idle.Loop()

	c.scope.Accept(input.Escape, func() { c.Request(&PauseState{}) })
	c.holding = false
}

func (s *NormalState) update(c *Control, dt float64) {
	walk := c.cue(audio.ObboWalk)
	if c.walking {
		if !walk.Playing() {
			walk.Play()
		}
		if c.Player.MoveToward(c.target, dt) {
			c.cue(audio.MenuSpam).Play()
			walk.Stop()
			c.Player.Walk.Stop()
			c.clearTarget()
		}
	} else if !c.Player.Walk.IsPlaying() && !c.Player.Idle.IsPlaying() {
		c.Player.Idle.Loop()
		walk.Stop()
	}

	x, y, ok := c.window.Pointer()
	if !ok {
		c.hasCursor = false
		c.Cursor.Root.Hide()
		return
	}

	c.Camera.Orbit(x, y)
	c.push()
	c.Player.ApplyPos()
	c.pick(x, y)

	if c.holding && c.now-c.downTime > c.cfg.Control.ClickHoldThreshold {
		c.downTime = c.now
		c.Request(&ChargeState{})
	}
}

func (s *NormalState) exit(c *Control) {
	c.Cursor.Root.Hide()
	c.blur()
	c.Player.Walk.Stop()
	c.Player.Idle.Stop()
	c.cue(audio.ObboWalk).Stop()
}

// pick casts the pointer ray and updates the hovered slot or the ground
// cursor.
func (c *Control) pick(x, y float64) {
	origin, dir := c.viewport.PickRay(x, y)
	hits := c.world.Ray(origin, dir, collision.MaskPick)
	if len(hits) == 0 {
		c.hasCursor = false
		c.Cursor.Root.Hide()
		c.blur()
		return
	}

	point := c.planetRoot.PointFromWorld(hits[0].Point).Normalize()
	if hits[0].Tag != collision.TagBuildSpot {
		c.blur()
		c.cursorPos = point
		c.hasCursor = true
		c.Cursor.SetPos(point)
		c.Cursor.Root.Show()
		return
	}

	var nearest Slot
	best := 0.0
	for _, h := range hits {
		if h.Tag != collision.TagBuildSpot {
			continue
		}
		slot, ok := h.Payload.(Slot)
		if !ok {
			continue
		}
		d := slot.Pos().Sub(point).Len()
		if nearest == nil || d < best {
			nearest, best = slot, d
		}
	}
	if nearest == nil {
		return
	}
	if nearest != c.hovered {
		c.blur()
		nearest.OnHover()
		c.hovered = nearest
	}
	c.hasCursor = false
	c.Cursor.Root.Hide()
}

func (c *Control) blur() {
	if c.hovered != nil {
		c.hovered.OnBlur()
		c.hovered = nil
	}
}
