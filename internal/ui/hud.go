package ui

import (
	"fmt"
	"sort"

	"github.com/samdwyer/obbo/internal/event"
)

const (
	// defaultMsgTime is how long a message without a duration stays up.
	defaultMsgTime = 5.0
	// shakeTime is how long a shaken HUD value stays highlighted.
	shakeTime = 0.5
)

// HUD holds the values sent with update_hud and the shake highlights.
type HUD struct {
	values map[string]string
	msg    string
	msgTTL float64
	shakes map[string]float64
}

// NewHUD creates an empty HUD.
func NewHUD() *HUD {
	return &HUD{
		values: make(map[string]string),
		shakes: make(map[string]float64),
	}
}

// Listen subscribes the HUD to update_hud and shake.
func (h *HUD) Listen(q *event.Queue) {
	q.Subscribe(event.UpdateHUD, h.onUpdate)
	q.Subscribe(event.Shake, h.onShake)
}

func (h *HUD) onUpdate(ev event.Event) {
	key, ok := ev.Arg(0).(string)
	if !ok {
		return
	}
	value := fmt.Sprint(ev.Arg(1))
	if key != "msg" {
		h.values[key] = value
		return
	}

	h.msg = value
	h.msgTTL = defaultMsgTime
	switch d := ev.Arg(2).(type) {
	case int:
		h.msgTTL = float64(d)
	case float64:
		h.msgTTL = d
	}
}

func (h *HUD) onShake(ev event.Event) {
	if key, ok := ev.Arg(0).(string); ok {
		h.shakes[key] = shakeTime
	}
}

// Update expires the message and the shake highlights.
func (h *HUD) Update(dt float64) {
	if h.msg != "" {
		h.msgTTL -= dt
		if h.msgTTL <= 0 {
			h.msg = ""
		}
	}
	for k, t := range h.shakes {
		if t -= dt; t <= 0 {
			delete(h.shakes, k)
		} else {
			h.shakes[k] = t
		}
	}
}

// Value returns the last value sent for key.
func (h *HUD) Value(key string) (string, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Keys returns the known value keys in order.
func (h *HUD) Keys() []string {
	keys := make([]string, 0, len(h.values))
	for k := range h.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Message returns the current message, or "" when none is up.
func (h *HUD) Message() string {
	return h.msg
}

// Shaking reports whether key is highlighted.
func (h *HUD) Shaking(key string) bool {
	return h.shakes[key] > 0
}
