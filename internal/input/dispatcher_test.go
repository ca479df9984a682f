package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInnermostScopeWins(t *testing.T) {
	d := NewDispatcher(nil)
	var got []string

	base := d.Scope("base")
	base.Accept(Escape, func() { got = append(got, "base") })

	top := d.Scope("pause")
	top.Accept(Escape, func() { got = append(got, "pause") })

	assert.True(t, d.Dispatch(Escape))
	top.Close()
	assert.True(t, d.Dispatch(Escape))

	assert.Equal(t, []string{"pause", "base"}, got)
}

func TestBlockSwallowsOuterBinding(t *testing.T) {
	d := NewDispatcher(nil)
	clicks := 0
	d.Scope("base").Accept(Mouse1, func() { clicks++ })

	build := d.Scope("build")
	build.Block(Mouse1)

	assert.False(t, d.Dispatch(Mouse1))
	assert.False(t, d.Bound(Mouse1))
	assert.Equal(t, 0, clicks)

	build.Close()
	assert.True(t, d.Dispatch(Mouse1))
	assert.Equal(t, 1, clicks)
}

func TestCloseLeavesNoBindings(t *testing.T) {
	d := NewDispatcher(nil)
	s := d.Scope("charge")
	s.Accept(Escape, func() {})
	s.Accept(Mouse3Up, func() {})
	assert.Equal(t, 2, d.Bindings())

	s.Close()
	s.Close()
	assert.Equal(t, 0, d.Bindings())
	assert.Equal(t, 0, d.Scopes())

	// A closed scope cannot be revived by late registrations.
	s.Accept(Quit, func() {})
	assert.Equal(t, 0, d.Bindings())
}

func TestIgnore(t *testing.T) {
	d := NewDispatcher(nil)
	s := d.Scope("pause")
	s.Accept(Quit, func() {})
	s.Ignore(Quit)
	assert.False(t, d.Dispatch(Quit))
	assert.Equal(t, 0, s.Len())
}

func TestMenuKey(t *testing.T) {
	k, ok := MenuKey(0)
	assert.True(t, ok)
	assert.Equal(t, MenuFirst, k)

	k, ok = MenuKey(8)
	assert.True(t, ok)
	assert.Equal(t, "9", k)

	_, ok = MenuKey(9)
	assert.False(t, ok)
}
