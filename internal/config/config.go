// Package config loads game settings from the embedded defaults, an
// optional YAML file and environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/samdwyer/obbo/data"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Camera views.
const (
	ViewDefault  = "default"
	ViewCharging = "charging"
)

// Config holds all game settings.
type Config struct {
	Control   ControlConfig   `yaml:"control"`
	Fishing   FishingConfig   `yaml:"fishing"`
	Build     BuildConfig     `yaml:"build"`
	Camera    CameraConfig    `yaml:"camera"`
	Player    PlayerConfig    `yaml:"player"`
	Universe  UniverseConfig  `yaml:"universe"`
	Audio     AudioConfig     `yaml:"audio"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ControlConfig tunes pointer handling and debug switches.
type ControlConfig struct {
	ClickHoldThreshold float64 `yaml:"click_hold_threshold"`
	InvertYAxis        bool    `yaml:"invert_y_axis"`
	ConfineMouse       bool    `yaml:"confine_mouse"`
	EnableCheats       bool    `yaml:"enable_cheats"`
	ProfileMode        bool    `yaml:"profile_mode"`
	SkipIntro          bool    `yaml:"skip_intro"`
	FrameRate          float64 `yaml:"frame_rate"`
}

// FishingConfig tunes the charge, cast and reel phases.
type FishingConfig struct {
	ChargeMaxTime    float64 `yaml:"charge_max_time"`
	CastTime         float64 `yaml:"cast_time"`
	CastMinDistance  float64 `yaml:"cast_min_distance"`
	CastMaxDistance  float64 `yaml:"cast_max_distance"`
	CastBobMagnitude float64 `yaml:"cast_bob_magnitude"`
	CastBobTime      float64 `yaml:"cast_bob_time"`
	CastFlingFrames  int     `yaml:"cast_fling_frames"`
	BobberSpinSpeed  float64 `yaml:"bobber_spin_speed"`
	BobberScale      float64 `yaml:"bobber_scale"`
	MagnetRadius     float64 `yaml:"magnet_radius"`
	MagnetSnapTime   float64 `yaml:"magnet_snap_time"`
	MagnetSnapDist   float64 `yaml:"magnet_snap_dist"`
	ReelSpeed        float64 `yaml:"reel_speed"`
	ReelMinDistance  float64 `yaml:"reel_min_distance"`
}

// BuildConfig tunes placement and the economy.
type BuildConfig struct {
	Standoff          float64 `yaml:"standoff"`
	Duration          float64 `yaml:"duration"`
	FinalPlanetSize   int     `yaml:"final_planet_size"`
	MaxGrows          int     `yaml:"max_grows"`
	BlocksPerAsteroid int     `yaml:"blocks_per_asteroid"`
	StartBlocks       int     `yaml:"start_blocks"`
	StartPower        int     `yaml:"start_power"`
}

// CameraConfig tunes the camera rig.
type CameraConfig struct {
	RotateSpeed      float64 `yaml:"rotate_speed"`
	CastXSensitivity float64 `yaml:"cast_x_sensitivity"`
	StartHeading     float64 `yaml:"start_heading"`
	AimView          string  `yaml:"aim_view"`
	ShakeDecay       float64 `yaml:"shake_decay"`
}

// PlayerConfig tunes locomotion.
type PlayerConfig struct {
	WalkSpeed float64 `yaml:"walk_speed"`
}

// UniverseConfig sets up the world.
type UniverseConfig struct {
	Seed           int64   `yaml:"seed"`
	Asteroids      int     `yaml:"asteroids"`
	PlanetSize     int     `yaml:"planet_size"`
	PlanetRadius   float64 `yaml:"planet_radius"`
	RadiusPerSize  float64 `yaml:"radius_per_size"`
	InitialSlots   int     `yaml:"initial_slots"`
	SlotsPerSprout int     `yaml:"slots_per_sprout"`
}

// AudioConfig selects the sound backend.
type AudioConfig struct {
	Enabled bool   `yaml:"enabled"`
	SFXDir  string `yaml:"sfx_dir"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	File     string `yaml:"file"`
}

// TelemetryConfig toggles OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	var c Config
	if err := decode(data.Defaults(), &c); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	return &c, nil
}

// MustDefault returns the embedded defaults, panicking on error.
func MustDefault() *Config {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the defaults, overlays the file at path when it is not empty,
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := decode(raw, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

func decode(raw []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(c)
}

// ApplyEnv overrides settings from OBBO_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, key, v)
		}
		*dst = b
		return nil
	}

	str("OBBO_LOG_LEVEL", &c.Log.Level)
	str("OBBO_LOG_FILE", &c.Log.File)
	str("OBBO_SFX_DIR", &c.Audio.SFXDir)

	if v, ok := lookup("OBBO_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: OBBO_SEED=%q is not an integer", ErrInvalid, v)
		}
		c.Universe.Seed = seed
	}

	for key, dst := range map[string]*bool{
		"OBBO_SKIP_INTRO":    &c.Control.SkipIntro,
		"OBBO_ENABLE_CHEATS": &c.Control.EnableCheats,
		"OBBO_PROFILE_MODE":  &c.Control.ProfileMode,
		"OBBO_INVERT_Y":      &c.Control.InvertYAxis,
		"OBBO_AUDIO":         &c.Audio.Enabled,
		"OBBO_TELEMETRY":     &c.Telemetry.Enabled,
	} {
		if err := flag(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks settings the game cannot run without.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Camera.CastXSensitivity > 0.5, "camera.cast_x_sensitivity must be greater than 0.5")
	check(c.Camera.RotateSpeed > 0, "camera.rotate_speed must be positive")
	check(c.Camera.AimView == ViewDefault || c.Camera.AimView == ViewCharging,
		fmt.Sprintf("camera.aim_view %q is not a known view", c.Camera.AimView))
	check(c.Control.ClickHoldThreshold >= 0, "control.click_hold_threshold must not be negative")
	check(c.Control.FrameRate > 0, "control.frame_rate must be positive")
	check(c.Fishing.ChargeMaxTime > 0, "fishing.charge_max_time must be positive")
	check(c.Fishing.CastTime > 0, "fishing.cast_time must be positive")
	check(c.Fishing.CastMinDistance >= 0, "fishing.cast_min_distance must not be negative")
	check(c.Fishing.CastMinDistance <= c.Fishing.CastMaxDistance,
		"fishing.cast_min_distance must not exceed fishing.cast_max_distance")
	check(c.Fishing.CastBobTime > 0, "fishing.cast_bob_time must be positive")
	check(c.Fishing.ReelSpeed > 0, "fishing.reel_speed must be positive")
	check(c.Fishing.ReelMinDistance > 0, "fishing.reel_min_distance must be positive")
	check(c.Fishing.MagnetRadius > 0, "fishing.magnet_radius must be positive")
	check(c.Build.Duration > 0, "build.duration must be positive")
	check(c.Build.FinalPlanetSize >= 1, "build.final_planet_size must be at least 1")
	check(c.Universe.PlanetSize >= 1 && c.Universe.PlanetSize <= c.Build.FinalPlanetSize,
		"universe.planet_size must be between 1 and build.final_planet_size")
	check(c.Universe.PlanetRadius > 0, "universe.planet_radius must be positive")
	check(c.Universe.Asteroids >= 0, "universe.asteroids must not be negative")
	check(c.Player.WalkSpeed > 0, "player.walk_speed must be positive")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// CastDistance maps a charge hold time to a cast distance.
func (f FishingConfig) CastDistance(hold float64) float64 {
	power := hold / f.ChargeMaxTime
	if power < 0 {
		power = 0
	}
	if power > 1 {
		power = 1
	}
	d := power * f.CastMaxDistance
	if d < f.CastMinDistance {
		return f.CastMinDistance
	}
	return d
}
