package interval

// Playback is a running instance of an Interval owned by a Scheduler.
type Playback struct {
	ival   Interval
	t      float64
	loop   bool
	paused bool
	done   bool
	onDone []func()
}

// Scheduler advances every active playback once per tick.
type Scheduler struct {
	active []*Playback
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Start begins playing iv once. The interval is stepped to time zero
// immediately, so leading Func intervals fire before Start returns.
func (s *Scheduler) Start(iv Interval) *Playback {
	return s.play(iv, false)
}

// Loop begins playing iv repeatedly until it is cancelled or finished.
func (s *Scheduler) Loop(iv Interval) *Playback {
	return s.play(iv, true)
}

func (s *Scheduler) play(iv Interval, loop bool) *Playback {
	p := &Playback{ival: iv, loop: loop}
	s.active = append(s.active, p)
	p.begin()
	if iv.Duration() <= 0 {
		// A zero-length loop would spin forever.
		iv.End()
		p.complete()
	}
	return p
}

// Tick advances all running playbacks by dt seconds. Playbacks started
// during the tick are first advanced on the next one.
func (s *Scheduler) Tick(dt float64) {
	snapshot := make([]*Playback, len(s.active))
	copy(snapshot, s.active)

	for _, p := range snapshot {
		if p.done || p.paused {
			continue
		}
		p.advance(dt)
	}

	live := s.active[:0]
	for _, p := range s.active {
		if !p.done {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = live
}

// Active returns the number of playbacks that have not completed.
func (s *Scheduler) Active() int {
	n := 0
	for _, p := range s.active {
		if !p.done {
			n++
		}
	}
	return n
}

// CancelAll stops every playback without completing it.
func (s *Scheduler) CancelAll() {
	for _, p := range s.active {
		p.done = true
	}
	s.active = nil
}

func (p *Playback) begin() {
	p.t = 0
	p.ival.Begin()
	p.ival.Step(0)
}

func (p *Playback) advance(dt float64) {
	d := p.ival.Duration()
	p.t += dt
	for p.t >= d && !p.done {
		p.ival.Step(d)
		p.ival.End()
		if !p.loop {
			p.complete()
			return
		}
		p.t -= d
		p.ival.Begin()
	}
	if !p.done {
		p.ival.Step(p.t)
	}
}

func (p *Playback) complete() {
	if p.done {
		return
	}
	p.done = true
	for _, fn := range p.onDone {
		fn()
	}
}

// Pause suspends the playback at its current time.
func (p *Playback) Pause() {
	p.paused = true
}

// Resume continues a paused playback.
func (p *Playback) Resume() {
	p.paused = false
}

// Finish jumps to the end of the interval, firing any remaining steps.
// A looping playback stops after the current pass.
func (p *Playback) Finish() {
	if p.done {
		return
	}
	p.ival.Step(p.ival.Duration())
	p.ival.End()
	p.complete()
}

// Cancel stops the playback where it is. Remaining steps never run.
func (p *Playback) Cancel() {
	p.done = true
}

// OnDone registers fn to run when the playback completes normally or via
// Finish. Cancelled playbacks do not run it.
func (p *Playback) OnDone(fn func()) {
	p.onDone = append(p.onDone, fn)
}

// Done reports whether the playback has stopped.
func (p *Playback) Done() bool {
	return p.done
}

// Paused reports whether the playback is paused.
func (p *Playback) Paused() bool {
	return p.paused
}

// Elapsed returns the local time within the current pass.
func (p *Playback) Elapsed() float64 {
	return p.t
}

// Track holds at most one playback for an owner. Starting a new playback
// cancels the previous one.
type Track struct {
	sched *Scheduler
	cur   *Playback
}

// NewTrack creates a track bound to the scheduler.
func NewTrack(s *Scheduler) *Track {
	return &Track{sched: s}
}

// Start cancels the current playback and plays iv once.
func (t *Track) Start(iv Interval) *Playback {
	t.Cancel()
	t.cur = t.sched.Start(iv)
	return t.cur
}

// Loop cancels the current playback and plays iv repeatedly.
func (t *Track) Loop(iv Interval) *Playback {
	t.Cancel()
	t.cur = t.sched.Loop(iv)
	return t.cur
}

// Cancel stops the current playback, if any.
func (t *Track) Cancel() {
	if t.cur != nil {
		t.cur.Cancel()
		t.cur = nil
	}
}

// Finish completes the current playback, if any.
func (t *Track) Finish() {
	if t.cur != nil {
		cur := t.cur
		t.cur = nil
		cur.Finish()
	}
}

// Pause suspends the current playback.
func (t *Track) Pause() {
	if t.cur != nil {
		t.cur.Pause()
	}
}

// Resume continues the current playback.
func (t *Track) Resume() {
	if t.cur != nil {
		t.cur.Resume()
	}
}

// Paused reports whether the current playback is paused.
func (t *Track) Paused() bool {
	return t.cur != nil && t.cur.Paused()
}

// Running reports whether the track has a live playback.
func (t *Track) Running() bool {
	return t.cur != nil && !t.cur.Done()
}
