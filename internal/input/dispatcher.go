// Package input routes named input events ("mouse1", "escape", ...) to
// handlers registered in stacked scopes.
package input

import (
	"go.uber.org/zap"
)

// Input names produced by the front-end.
const (
	Mouse1    = "mouse1"
	Mouse1Up  = "mouse1-up"
	Mouse3Up  = "mouse3-up"
	Escape    = "escape"
	Quit      = "q"
	Space     = "space"
	MenuFirst = "1"
)

// MenuKey returns the input name that selects the i-th menu entry.
// Only the first nine entries have a key.
func MenuKey(i int) (string, bool) {
	if i < 0 || i > 8 {
		return "", false
	}
	return string(rune('1' + i)), true
}

// Handler reacts to an input event.
type Handler func()

// Dispatcher delivers input events to the innermost scope that binds them.
type Dispatcher struct {
	scopes []*Scope
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher with no scopes.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger}
}

// Scope pushes a new, empty scope on top of the stack.
func (d *Dispatcher) Scope(name string) *Scope {
	s := &Scope{name: name, bindings: make(map[string]binding), d: d}
	d.scopes = append(d.scopes, s)
	return s
}

// Dispatch runs the handler bound to name in the innermost scope that has
// one. Blocked names stop the search without running anything. It reports
// whether a handler ran.
func (d *Dispatcher) Dispatch(name string) bool {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		b, ok := d.scopes[i].bindings[name]
		if !ok {
			continue
		}
		if b.handler == nil {
			d.logger.Debug("input blocked", zap.String("input", name), zap.String("scope", d.scopes[i].name))
			return false
		}
		b.handler()
		return true
	}
	return false
}

// Bindings returns the total number of bindings across all scopes.
func (d *Dispatcher) Bindings() int {
	n := 0
	for _, s := range d.scopes {
		n += len(s.bindings)
	}
	return n
}

// Bound reports whether any scope binds name to a handler.
func (d *Dispatcher) Bound(name string) bool {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if b, ok := d.scopes[i].bindings[name]; ok {
			return b.handler != nil
		}
	}
	return false
}

// Scopes returns the number of open scopes.
func (d *Dispatcher) Scopes() int {
	return len(d.scopes)
}

func (d *Dispatcher) remove(s *Scope) {
	for i, cur := range d.scopes {
		if cur == s {
			d.scopes = append(d.scopes[:i], d.scopes[i+1:]...)
			return
		}
	}
}

type binding struct {
	handler Handler
}

// Scope is a set of bindings that is added and removed as a unit.
type Scope struct {
	name     string
	bindings map[string]binding
	d        *Dispatcher
	closed   bool
}

// Accept binds name to h, replacing any binding of name in this scope.
func (s *Scope) Accept(name string, h Handler) {
	if s.closed {
		return
	}
	s.bindings[name] = binding{handler: h}
}

// Block swallows name so outer scopes never see it.
func (s *Scope) Block(name string) {
	if s.closed {
		return
	}
	s.bindings[name] = binding{}
}

// Ignore removes the binding of name from this scope.
func (s *Scope) Ignore(name string) {
	delete(s.bindings, name)
}

// Close removes every binding and detaches the scope. Calling Close more
// than once is a no-op.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.bindings = make(map[string]binding)
	s.d.remove(s)
}

// Len returns the number of bindings held by the scope.
func (s *Scope) Len() int {
	return len(s.bindings)
}

// Name returns the scope's name.
func (s *Scope) Name() string {
	return s.name
}
