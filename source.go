package uiparticle

import (
	"fmt"
	"strings"

	"github.com/gekko3d/uiparticle/core"
)

type SimulationSpace int

const (
	SpaceLocal SimulationSpace = iota
	SpaceWorld
	SpaceCustom
)

func (s SimulationSpace) String() string {
	switch s {
	case SpaceLocal:
		return "local"
	case SpaceWorld:
		return "world"
	case SpaceCustom:
		return "custom"
	}
	return fmt.Sprintf("SimulationSpace(%d)", int(s))
}

func (s SimulationSpace) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SimulationSpace) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "local":
		*s = SpaceLocal
	case "world":
		*s = SpaceWorld
	case "custom":
		*s = SpaceCustom
	default:
		return fmt.Errorf("unknown simulation space %q", text)
	}
	return nil
}

type RenderMode int

const (
	RenderBillboard RenderMode = iota
	RenderStretchedBillboard
	RenderHorizontalBillboard
	RenderVerticalBillboard
	RenderMesh
	RenderNone
)

type BakeMeshOptions int

const (
	BakeDefault          BakeMeshOptions = 0
	BakeRotationAndScale BakeMeshOptions = 1 << iota
	BakePosition
)

// SimulationSettings is the subset of a particle system's main, sub-emitter
// and trail modules the baker and element care about.
type SimulationSettings struct {
	Space SimulationSpace
	// CustomSpace is only read when Space is SpaceCustom; nil falls back to local.
	CustomSpace      *core.Transform
	Prewarm          bool
	SubEmitters      bool
	TrailsEnabled    bool
	TrailsWorldSpace bool
}

// ParticleSystem is the simulation handle. The element never owns it.
type ParticleSystem interface {
	Name() string
	Transform() *core.Transform
	Settings() SimulationSettings
	IsAlive() bool
	IsPlaying() bool
	ParticleCount() int
	Play()
	Pause()
	Stop()
	Clear()
}

// ParticleRenderer turns the live simulation into geometry. Both bake calls
// write into a cleared mesh and may fail; implementations may also panic.
type ParticleRenderer interface {
	BakeMesh(dst *core.Mesh, cam *core.Camera, opts BakeMeshOptions) error
	BakeTrailsMesh(dst *core.Mesh, cam *core.Camera, opts BakeMeshOptions) error
	// SharedMaterials returns [main] or [main, trail].
	SharedMaterials() []*core.Material
	RenderMode() RenderMode
	Mesh() *core.Mesh
	Enabled() bool
	SpriteTexture() *core.Texture
	GetPropertyBlock(dst *core.PropertyBlock)
}

// ParticleSource bundles the simulation with its renderer.
type ParticleSource interface {
	ParticleSystem
	Renderer() ParticleRenderer
}
