package uiparticle

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LogConfig struct {
	Prefix string `toml:"prefix"`
	Debug  bool   `toml:"debug"`
	Silent bool   `toml:"silent"`
}

// EmitterConfig mirrors the knobs of the reference CPU simulation so a demo
// scene can be described in the same file.
type EmitterConfig struct {
	MaxParticles     int             `toml:"max_particles"`
	SpawnRate        float32         `toml:"spawn_rate"`
	Lifetime         [2]float32      `toml:"lifetime"`
	StartSpeed       [2]float32      `toml:"start_speed"`
	StartSize        [2]float32      `toml:"start_size"`
	Gravity          float32         `toml:"gravity"`
	Drag             float32         `toml:"drag"`
	ConeAngleDegrees float32         `toml:"cone_angle_degrees"`
	Space            SimulationSpace `toml:"space"`
	Prewarm          bool            `toml:"prewarm"`
	SubEmitters      bool            `toml:"sub_emitters"`
	Trails           bool            `toml:"trails"`
	TrailsWorldSpace bool            `toml:"trails_world_space"`
	Seed             int64           `toml:"seed"`
}

type DemoConfig struct {
	Elements     int           `toml:"elements"`
	Frames       int           `toml:"frames"`
	FrameRate    float32       `toml:"frame_rate"`
	StencilDepth int           `toml:"stencil_depth"`
	Emitter      EmitterConfig `toml:"emitter"`
}

type Config struct {
	Log LogConfig `toml:"log"`
	// Strict turns contract violations in the variant caches into panics.
	Strict           bool       `toml:"strict"`
	MaxMaterialSlots int        `toml:"max_material_slots"`
	AlphaEpsilon     float32    `toml:"alpha_epsilon"`
	Demo             DemoConfig `toml:"demo"`
}

func DefaultConfig() Config {
	return Config{
		Log:              LogConfig{Prefix: "UIParticle"},
		MaxMaterialSlots: 8,
		AlphaEpsilon:     1e-6,
		Demo: DemoConfig{
			Elements:  4,
			Frames:    120,
			FrameRate: 60,
			Emitter: EmitterConfig{
				MaxParticles:     256,
				SpawnRate:        40,
				Lifetime:         [2]float32{0.5, 1.5},
				StartSpeed:       [2]float32{20, 60},
				StartSize:        [2]float32{4, 10},
				Gravity:          30,
				Drag:             0.2,
				ConeAngleDegrees: 25,
				Space:            SpaceLocal,
				Seed:             1,
			},
		},
	}
}

// ParseConfig overlays data onto DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func (c Config) Validate() error {
	if c.MaxMaterialSlots < 1 {
		return fmt.Errorf("max_material_slots must be >= 1, got %d", c.MaxMaterialSlots)
	}
	if c.AlphaEpsilon < 0 {
		return fmt.Errorf("alpha_epsilon must be >= 0, got %g", c.AlphaEpsilon)
	}
	if c.Demo.FrameRate <= 0 {
		return fmt.Errorf("demo.frame_rate must be > 0, got %g", c.Demo.FrameRate)
	}
	return nil
}

// Marshal renders c back to TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
