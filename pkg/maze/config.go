package maze

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Config holds the empirical constants of every piece template. They were
// tuned by eye so that a marble rolls through the assembled maze; change
// them together.
type Config struct {
	// World Z of a piece is Level.Height*location.z + Level.Offset, so that
	// pieces at integer levels stack without overlapping.
	Level struct {
		Height float64 `yaml:"height"`
		Offset float64 `yaml:"offset"`
	} `yaml:"level"`

	Segments int `yaml:"segments"`
	Rings    int `yaml:"rings"`

	Support   SupportConfig   `yaml:"support"`
	Track     TrackConfig     `yaml:"track"`
	Funnel    FunnelConfig    `yaml:"funnel"`
	Collector CollectorConfig `yaml:"collector"`
	Marble    MarbleConfig    `yaml:"marble"`
}

// SupportConfig shapes the hollow tube every other piece starts from.
type SupportConfig struct {
	Radius     float64 `yaml:"radius"`
	HalfHeight float64 `yaml:"half_height"`
	Inset      float64 `yaml:"inset"`
	LipDrop    float64 `yaml:"lip_drop"`
	Friction   float64 `yaml:"friction"`
}

// BoreRadius is the radius of the passage left by the cap inset.
func (s SupportConfig) BoreRadius() float64 {
	return s.Radius - s.Inset
}

// TrackConfig places the channel, its bore cutter and the entry ramp.
type TrackConfig struct {
	Tilt       float64    `yaml:"tilt"`
	LengthPad  float64    `yaml:"length_pad"`
	CutterTrim float64    `yaml:"cutter_trim"`
	EndInset   float64    `yaml:"end_inset"`
	// Nudge lifts the channel off the bore axis. Its Z should equal the
	// support wall thickness so the channel floor meets the bore floor.
	Nudge mgl64.Vec3 `yaml:"nudge"`
	Ramp  RampConfig `yaml:"ramp"`
}

// RampConfig is a small tilted plane inside a piece.
type RampConfig struct {
	HalfWidth float64    `yaml:"half_width"`
	HalfDepth float64    `yaml:"half_depth"`
	Tilt      float64    `yaml:"tilt"`
	Offset    mgl64.Vec3 `yaml:"offset"`
}

// FunnelConfig sets how far the funnel and support base flare.
type FunnelConfig struct {
	Flare float64 `yaml:"flare"`
}

// CollectorConfig places the exit bore, the egress ramp, the retaining
// ring and the floor disc of the collector.
type CollectorConfig struct {
	HoleHalfLength float64    `yaml:"hole_half_length"`
	HoleTilt       float64    `yaml:"hole_tilt"`
	HoleOffset     mgl64.Vec3 `yaml:"hole_offset"`
	Ramp           RampConfig `yaml:"ramp"`
	RingScale      float64    `yaml:"ring_scale"`
	RingHeight     float64    `yaml:"ring_height"`
	DiscTilt       float64    `yaml:"disc_tilt"`
	DiscLift       float64    `yaml:"disc_lift"`
}

// MarbleConfig shapes the dynamic ball.
type MarbleConfig struct {
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// DefaultConfig returns the constants the piece templates were tuned with.
func DefaultConfig() Config {
	var c Config
	c.Level.Height = 1.5
	c.Level.Offset = 0.75
	c.Segments = 32
	c.Rings = 16
	c.Support = SupportConfig{
		Radius:     0.5,
		HalfHeight: 0.75,
		Inset:      0.125,
		LipDrop:    0.1,
		Friction:   0.1,
	}
	c.Track = TrackConfig{
		Tilt:       1.65,
		LengthPad:  0.3,
		CutterTrim: 0.6,
		EndInset:   0.45,
		Nudge:      mgl64.Vec3{0, 0, 0.125},
		Ramp: RampConfig{
			HalfWidth: 0.375,
			HalfDepth: 0.5,
			Tilt:      0.7,
			Offset:    mgl64.Vec3{0, 0, -0.2},
		},
	}
	c.Funnel = FunnelConfig{Flare: 1.5}
	c.Collector = CollectorConfig{
		HoleHalfLength: 0.4,
		HoleTilt:       1.5707963267948966,
		HoleOffset:     mgl64.Vec3{0, -0.5, 0.3},
		Ramp: RampConfig{
			HalfWidth: 0.35,
			HalfDepth: 0.3,
			Tilt:      0.5,
			Offset:    mgl64.Vec3{0, -0.25, 0.05},
		},
		RingScale:  3,
		RingHeight: 0.3,
		DiscTilt:   0.1,
		DiscLift:   0.16,
	}
	c.Marble = MarbleConfig{
		Radius:      0.25,
		Mass:        1,
		Friction:    0.5,
		Restitution: 0.2,
	}
	return c
}

// WorldPos applies the level stacking rule to a piece location.
func (c Config) WorldPos(loc mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{loc[0], loc[1], loc[2]*c.Level.Height + c.Level.Offset}
}

// ParseConfig overlays YAML data onto the defaults. Keys absent from data
// keep their default value.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("maze: parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a YAML file and overlays it onto the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("maze: load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate rejects constants no piece can be built with.
func (c Config) Validate() error {
	switch {
	case c.Level.Height <= 0:
		return fmt.Errorf("maze: level.height %g: %w", c.Level.Height, ErrInvalidParameter)
	case c.Segments < 3:
		return fmt.Errorf("maze: segments %d: %w", c.Segments, ErrInvalidParameter)
	case c.Rings < 2:
		return fmt.Errorf("maze: rings %d: %w", c.Rings, ErrInvalidParameter)
	case c.Support.Radius <= 0 || c.Support.HalfHeight <= 0:
		return fmt.Errorf("maze: support size %gx%g: %w", c.Support.Radius, c.Support.HalfHeight, ErrInvalidParameter)
	case c.Support.Inset <= 0 || c.Support.Inset >= c.Support.Radius:
		return fmt.Errorf("maze: support.inset %g: %w", c.Support.Inset, ErrInvalidParameter)
	case c.Funnel.Flare <= 0:
		return fmt.Errorf("maze: funnel.flare %g: %w", c.Funnel.Flare, ErrInvalidParameter)
	case c.Marble.Radius <= 0:
		return fmt.Errorf("maze: marble.radius %g: %w", c.Marble.Radius, ErrInvalidParameter)
	}
	return nil
}
