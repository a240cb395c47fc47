package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
)

// DrawTarget is the host's per-element submission object.
type DrawTarget interface {
	// SetMesh copies m; the caller keeps ownership.
	SetMesh(m *core.Mesh)
	SetMaterialCount(n int)
	MaterialCount() int
	SetMaterial(m *core.Material, slot int)
	Material(slot int) *core.Material
	Clear()
	InheritedAlpha() float32
}

// Canvas resolves the camera used for baking.
type Canvas interface {
	WorldCamera() *core.Camera
	// EditorCamera is the scene-view camera while editing, nil otherwise.
	EditorCamera() *core.Camera
}

// Masking computes how many clipping ancestors enclose t.
type Masking interface {
	StencilDepth(t *core.Transform) int
}

// MaterialModifier is a post-processing hook applied after masking and
// texture overrides. Implementations receive and return a material so
// several can be chained.
type MaterialModifier interface {
	ModifiedMaterial(base *core.Material) *core.Material
}

// MaterialModifierFunc adapts a function to MaterialModifier.
type MaterialModifierFunc func(base *core.Material) *core.Material

func (f MaterialModifierFunc) ModifiedMaterial(base *core.Material) *core.Material {
	return f(base)
}

type PlayModeState int

const (
	EnteredEditMode PlayModeState = iota
	ExitingEditMode
	EnteredPlayMode
	ExitingPlayMode
)
