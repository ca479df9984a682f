package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/obbo/internal/input"
)

// Translator turns terminal events into input names. Mouse button edges
// become presses and releases, and every mouse report moves the pointer.
type Translator struct {
	view    *View
	buttons tcell.ButtonMask
}

// NewTranslator creates a translator that moves the pointer of view.
func NewTranslator(view *View) *Translator {
	return &Translator{view: view}
}

// Translate returns the input names ev produces, in order.
func (t *Translator) Translate(ev tcell.Event) []string {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		return t.mouse(ev)
	case *tcell.EventKey:
		if name, ok := keyName(ev); ok {
			return []string{name}
		}
	}
	return nil
}

func (t *Translator) mouse(ev *tcell.EventMouse) []string {
	x, y := ev.Position()
	t.view.SetCell(x, y)

	now := ev.Buttons()
	pressed := now &^ t.buttons
	released := t.buttons &^ now
	t.buttons = now

	var names []string
	if pressed&tcell.Button1 != 0 {
		names = append(names, input.Mouse1)
	}
	if released&tcell.Button1 != 0 {
		names = append(names, input.Mouse1Up)
	}
	// tcell numbers the right button 2.
	if released&tcell.Button2 != 0 {
		names = append(names, input.Mouse3Up)
	}
	return names
}

func keyName(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return input.Escape, true
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r == ' ':
			return input.Space, true
		case r == 'q' || r == 'Q':
			return input.Quit, true
		case r >= '1' && r <= '9':
			return string(r), true
		}
	}
	return "", false
}
