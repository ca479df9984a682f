// Package audio plays named sound cues.
package audio

// Cue names.
const (
	MenuAccept       = "menu_accept"
	MenuHover        = "menu_hover"
	MenuSpam         = "menu_spam"
	AsteroidAttaches = "astroid_attaches"
	AsteroidCaught   = "astroid_collected"
	BuildingPlaced   = "building_placed"
	CaughtNothing    = "catched_nothing"
	ObboBuild        = "obbo_build"
	ObboCast         = "obbo_cast"
	ObboCharge       = "obbo_charge"
	ObboReelIn       = "obbo_reel_in"
	ObboWalk         = "obbo_walk"
	PlanetGrows      = "planet_grows"
	Crash            = "crash"
)

// Cue is a loaded sound handle.
type Cue interface {
	Play()
	Stop()
	Playing() bool
}

// Bank hands out cues by name. Unknown names yield a silent cue.
type Bank interface {
	Cue(name string) Cue
}

// Spec describes how a cue is played.
type Spec struct {
	Volume float64
	Loop   bool
	// Tone and Length shape the synthesized fallback when no sample file
	// is available.
	Tone   float64
	Length float64
}

// DefaultSpecs lists every cue the game uses.
var DefaultSpecs = map[string]Spec{
	MenuAccept:       {Volume: 1, Tone: 880, Length: 0.08},
	MenuHover:        {Volume: 1, Tone: 660, Length: 0.04},
	MenuSpam:         {Volume: 0.4, Tone: 990, Length: 0.05},
	AsteroidAttaches: {Volume: 1, Tone: 330, Length: 0.2},
	AsteroidCaught:   {Volume: 1, Tone: 523, Length: 0.4},
	BuildingPlaced:   {Volume: 1, Tone: 440, Length: 0.3},
	CaughtNothing:    {Volume: 1, Tone: 150, Length: 0.25},
	ObboBuild:        {Volume: 1, Tone: 262, Length: 0.6},
	ObboCast:         {Volume: 1, Tone: 700, Length: 0.3},
	ObboCharge:       {Volume: 1, Tone: 392, Length: 1.0},
	ObboReelIn:       {Volume: 0.8, Tone: 294, Length: 0.5},
	ObboWalk:         {Volume: 1, Loop: true, Tone: 110, Length: 0.25},
	PlanetGrows:      {Volume: 1, Tone: 196, Length: 0.8},
	Crash:            {Volume: 1, Tone: 60, Length: 1.2},
}

// SilentCue tracks play state without producing sound.
type SilentCue struct {
	name    string
	playing bool
	plays   int
}

func (c *SilentCue) Play() {
	c.playing = true
	c.plays++
}

func (c *SilentCue) Stop() { c.playing = false }

func (c *SilentCue) Playing() bool { return c.playing }

// Plays returns how many times Play was called.
func (c *SilentCue) Plays() int { return c.plays }

// Name returns the cue name.
func (c *SilentCue) Name() string { return c.name }

// SilentBank is a Bank for headless runs and tests.
type SilentBank struct {
	cues map[string]*SilentCue
}

// NewSilentBank creates an empty silent bank.
func NewSilentBank() *SilentBank {
	return &SilentBank{cues: make(map[string]*SilentCue)}
}

// Cue returns the silent cue for name, creating it on first use.
func (b *SilentBank) Cue(name string) Cue {
	return b.Silent(name)
}

// Silent returns the concrete cue for name.
func (b *SilentBank) Silent(name string) *SilentCue {
	c, ok := b.cues[name]
	if !ok {
		c = &SilentCue{name: name}
		b.cues[name] = c
	}
	return c
}

// Plays returns how many times the named cue was played.
func (b *SilentBank) Plays(name string) int {
	if c, ok := b.cues[name]; ok {
		return c.plays
	}
	return 0
}
