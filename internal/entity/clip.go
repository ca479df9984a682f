package entity

// Clip is a named, time-based animation handle. The renderer reads Frame;
// gameplay code only starts and stops clips.
type Clip struct {
	Name      string
	Frames    int
	FrameRate float64
	// PlayRate scales playback speed.
	PlayRate float64

	t       float64
	playing bool
	looping bool
}

// NewClip creates a stopped clip.
func NewClip(name string, frames int, frameRate float64) *Clip {
	return &Clip{Name: name, Frames: frames, FrameRate: frameRate, PlayRate: 1}
}

// Length returns the clip's length in seconds at play rate 1.
func (c *Clip) Length() float64 {
	if c.FrameRate <= 0 {
		return 0
	}
	return float64(c.Frames) / c.FrameRate
}

// Play starts the clip once from the beginning.
func (c *Clip) Play() {
	c.t = 0
	c.playing = true
	c.looping = false
}

// Loop starts the clip from the beginning and repeats it.
func (c *Clip) Loop() {
	c.t = 0
	c.playing = true
	c.looping = true
}

// Stop halts the clip at its current frame.
func (c *Clip) Stop() {
	c.playing = false
	c.looping = false
}

// IsPlaying reports whether the clip is advancing.
func (c *Clip) IsPlaying() bool {
	return c.playing
}

// IsLooping reports whether the clip repeats.
func (c *Clip) IsLooping() bool {
	return c.playing && c.looping
}

// Advance moves the clip forward by dt seconds.
func (c *Clip) Advance(dt float64) {
	if !c.playing {
		return
	}
	length := c.Length()
	if length <= 0 {
		c.playing = false
		return
	}
	c.t += dt * c.PlayRate
	if c.t < length {
		return
	}
	if c.looping {
		for c.t >= length {
			c.t -= length
		}
		return
	}
	c.t = length
	c.playing = false
}

// Frame returns the current frame index.
func (c *Clip) Frame() int {
	if c.Frames <= 0 {
		return 0
	}
	f := int(c.t * c.FrameRate)
	if f >= c.Frames {
		f = c.Frames - 1
	}
	return f
}
