package audio

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
)

func TestSilentBankTracksPlays(t *testing.T) {
	b := NewSilentBank()
	c := b.Cue(ObboWalk)

	assert.False(t, c.Playing())
	c.Play()
	c.Play()
	assert.True(t, c.Playing())
	assert.Equal(t, 2, b.Plays(ObboWalk))

	c.Stop()
	assert.False(t, c.Playing())
	assert.Same(t, c, b.Cue(ObboWalk), "cues are shared by name")
	assert.Equal(t, 0, b.Plays(Crash))
}

func TestDefaultSpecs(t *testing.T) {
	assert.InDelta(t, 0.8, DefaultSpecs[ObboReelIn].Volume, 1e-9)
	assert.InDelta(t, 0.4, DefaultSpecs[MenuSpam].Volume, 1e-9)
	assert.True(t, DefaultSpecs[ObboWalk].Loop)
	for name, s := range DefaultSpecs {
		assert.Greater(t, s.Tone, 0.0, name)
		assert.Greater(t, s.Length, 0.0, name)
	}
}

type constStreamer struct{}

func (constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{1, 1}
	}
	return len(samples), true
}

func (constStreamer) Err() error { return nil }

func TestStopperEndsStream(t *testing.T) {
	st := &stopper{streamer: constStreamer{}}
	st.playing.Store(true)

	buf := make([][2]float64, 8)
	n, ok := st.Stream(buf)
	assert.Equal(t, 8, n)
	assert.True(t, ok)

	st.stop()
	n, ok = st.Stream(buf)
	assert.Equal(t, 0, n)
	assert.False(t, ok)
}

func TestNewVolume(t *testing.T) {
	buf := make([][2]float64, 4)

	_, _ = newVolume(constStreamer{}, 0.5).Stream(buf)
	assert.InDelta(t, 0.5, buf[0][0], 1e-9)

	_, _ = newVolume(constStreamer{}, 0).Stream(buf)
	assert.InDelta(t, 0.0, buf[0][0], 1e-9)

	var _ beep.Streamer = &stopper{}
}
