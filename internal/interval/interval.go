// Package interval provides timed, composable value transitions that are
// advanced once per frame by a Scheduler.
package interval

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Interval is a timed transition. Begin is called before the first Step,
// Step receives the local time in [0, Duration], and End is called once the
// interval has been stepped to its full duration.
type Interval interface {
	Duration() float64
	Begin()
	Step(t float64)
	End()
}

// Blend shapes the progress of a Lerp.
type Blend int

const (
	Linear Blend = iota
	EaseIn
	EaseOut
	EaseInOut
)

// Apply maps linear progress f in [0, 1] onto the blend curve.
func (b Blend) Apply(f float64) float64 {
	f = mgl64.Clamp(f, 0, 1)
	switch b {
	case EaseIn:
		return f * f * (3 - f) / 2
	case EaseOut:
		return f * (3 - f*f) / 2
	case EaseInOut:
		return f * f * (3 - 2*f)
	default:
		return f
	}
}

// lerp drives fn with blended progress over a fixed duration.
type lerp struct {
	duration float64
	blend    Blend
	begin    func()
	fn       func(f float64)
}

func (l *lerp) Duration() float64 { return l.duration }

func (l *lerp) Begin() {
	if l.begin != nil {
		l.begin()
	}
}

func (l *lerp) Step(t float64) {
	if l.duration <= 0 {
		l.fn(1)
		return
	}
	l.fn(l.blend.Apply(t / l.duration))
}

func (l *lerp) End() {}

// Lerp calls fn with the blended progress of the interval on every step.
func Lerp(duration float64, blend Blend, fn func(f float64)) Interval {
	return &lerp{duration: duration, blend: blend, fn: fn}
}

// LerpFloat moves a scalar from the value returned by get when the interval
// begins to the given end value.
func LerpFloat(duration float64, blend Blend, get func() float64, set func(float64), to float64) Interval {
	l := &lerp{duration: duration, blend: blend}
	var from float64
	l.begin = func() { from = get() }
	l.fn = func(f float64) { set(from + (to-from)*f) }
	return l
}

// LerpVec3 moves a vector between two fixed endpoints.
func LerpVec3(duration float64, blend Blend, from, to mgl64.Vec3, set func(mgl64.Vec3)) Interval {
	return Lerp(duration, blend, func(f float64) {
		set(from.Add(to.Sub(from).Mul(f)))
	})
}

// LerpVec3From moves a vector from the value returned by get when the
// interval begins to the given end value.
func LerpVec3From(duration float64, blend Blend, get func() mgl64.Vec3, set func(mgl64.Vec3), to mgl64.Vec3) Interval {
	l := &lerp{duration: duration, blend: blend}
	var from mgl64.Vec3
	l.begin = func() { from = get() }
	l.fn = func(f float64) { set(from.Add(to.Sub(from).Mul(f))) }
	return l
}

type funcInterval struct {
	fn   func()
	done bool
}

func (f *funcInterval) Duration() float64 { return 0 }
func (f *funcInterval) Begin()            { f.done = false }

func (f *funcInterval) Step(float64) {
	if f.done {
		return
	}
	f.done = true
	f.fn()
}

func (f *funcInterval) End() {}

// Func runs fn once, instantly.
func Func(fn func()) Interval {
	return &funcInterval{fn: fn}
}

type wait struct{ duration float64 }

func (w wait) Duration() float64 { return w.duration }
func (w wait) Begin()            {}
func (w wait) Step(float64)      {}
func (w wait) End()              {}

// Wait does nothing for the given duration.
func Wait(duration float64) Interval {
	return wait{duration: math.Max(duration, 0)}
}

// sequence runs children back to back.
type sequence struct {
	children []Interval
	starts   []float64
	duration float64
	idx      int
	begun    bool
}

// Sequence runs the given intervals one after another.
func Sequence(children ...Interval) Interval {
	s := &sequence{children: children, starts: make([]float64, len(children))}
	for i, c := range children {
		s.starts[i] = s.duration
		s.duration += c.Duration()
	}
	return s
}

func (s *sequence) Duration() float64 { return s.duration }

func (s *sequence) Begin() {
	s.idx = 0
	s.begun = false
}

func (s *sequence) Step(t float64) {
	for s.idx < len(s.children) {
		c := s.children[s.idx]
		local := t - s.starts[s.idx]
		if local < 0 {
			return
		}
		if !s.begun {
			c.Begin()
			s.begun = true
		}
		if local < c.Duration() {
			c.Step(local)
			return
		}
		c.Step(c.Duration())
		c.End()
		s.idx++
		s.begun = false
	}
}

func (s *sequence) End() {
	s.Step(s.duration)
}

// parallel runs children side by side.
type parallel struct {
	children []Interval
	ended    []bool
	duration float64
}

// Parallel runs the given intervals at the same time. Its duration is that
// of the longest child.
func Parallel(children ...Interval) Interval {
	p := &parallel{children: children, ended: make([]bool, len(children))}
	for _, c := range children {
		p.duration = math.Max(p.duration, c.Duration())
	}
	return p
}

func (p *parallel) Duration() float64 { return p.duration }

func (p *parallel) Begin() {
	for i, c := range p.children {
		p.ended[i] = false
		c.Begin()
	}
}

func (p *parallel) Step(t float64) {
	for i, c := range p.children {
		if p.ended[i] {
			continue
		}
		if t < c.Duration() {
			c.Step(t)
			continue
		}
		c.Step(c.Duration())
		c.End()
		p.ended[i] = true
	}
}

func (p *parallel) End() {
	p.Step(p.duration)
}
