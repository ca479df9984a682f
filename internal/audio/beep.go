package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

// BeepBank plays cues through the system speaker. Each cue is decoded
// from <dir>/<name>.wav, or synthesized as a short tone when the file is
// missing.
type BeepBank struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	format  beep.Format
	buffers map[string]*beep.Buffer
	specs   map[string]Spec
	cues    map[string]*beepCue
	logger  *zap.Logger
}

// NewBeepBank initializes the speaker and loads every cue in specs.
func NewBeepBank(dir string, specs map[string]Spec, logger *zap.Logger) (*BeepBank, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	b := &BeepBank{
		mixer:   &beep.Mixer{},
		format:  beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2},
		buffers: make(map[string]*beep.Buffer),
		specs:   specs,
		cues:    make(map[string]*beepCue),
		logger:  logger,
	}

	for name, spec := range specs {
		buf, err := b.load(filepath.Join(dir, name+".wav"))
		if errors.Is(err, fs.ErrNotExist) {
			buf, err = b.synthesize(spec)
		}
		if err != nil {
			logger.Warn("sound cue unavailable", zap.String("cue", name), zap.Error(err))
			continue
		}
		b.buffers[name] = buf
	}

	speaker.Play(b.mixer)
	return b, nil
}

func (b *BeepBank) load(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(b.format)
	if format.SampleRate != sampleRate {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	} else {
		buf.Append(streamer)
	}
	return buf, nil
}

func (b *BeepBank) synthesize(spec Spec) (*beep.Buffer, error) {
	if spec.Tone <= 0 || spec.Length <= 0 {
		return nil, errors.New("no sample and no tone configured")
	}
	tone, err := generators.SineTone(sampleRate, spec.Tone)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize %.0f Hz tone: %w", spec.Tone, err)
	}
	buf := beep.NewBuffer(b.format)
	buf.Append(beep.Take(sampleRate.N(time.Duration(spec.Length*float64(time.Second))), tone))
	return buf, nil
}

// Cue returns the cue for name. Names without a loaded buffer play
// silently.
func (b *BeepBank) Cue(name string) Cue {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.cues[name]; ok {
		return c
	}
	buf, ok := b.buffers[name]
	if !ok {
		return &SilentCue{name: name}
	}
	c := &beepCue{bank: b, buf: buf, spec: b.specs[name]}
	b.cues[name] = c
	return c
}

// Close stops every cue.
func (b *BeepBank) Close() {
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
}

type beepCue struct {
	bank    *BeepBank
	buf     *beep.Buffer
	spec    Spec
	mu      sync.Mutex
	current *stopper
}

// Play restarts the cue from the beginning.
func (c *beepCue) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.stop()
	}

	var s beep.Streamer = c.buf.Streamer(0, c.buf.Len())
	if c.spec.Loop {
		s = beep.Loop(-1, c.buf.Streamer(0, c.buf.Len()))
	}
	st := &stopper{}
	st.streamer = beep.Seq(newVolume(s, c.spec.Volume), beep.Callback(st.stop))
	st.playing.Store(true)
	c.current = st

	speaker.Lock()
	c.bank.mixer.Add(st)
	speaker.Unlock()
}

func (c *beepCue) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.stop()
	}
}

func (c *beepCue) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.playing.Load()
}

// stopper ends its stream as soon as stop is called, which drops it from
// the mixer.
type stopper struct {
	streamer beep.Streamer
	playing  atomic.Bool
}

func (s *stopper) stop() {
	s.playing.Store(false)
}

func (s *stopper) Stream(samples [][2]float64) (int, bool) {
	if !s.playing.Load() {
		return 0, false
	}
	return s.streamer.Stream(samples)
}

func (s *stopper) Err() error {
	return s.streamer.Err()
}

// newVolume wraps s at a linear volume. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
