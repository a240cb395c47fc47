package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
)

// MemoryTarget is a headless DrawTarget that keeps the last submitted mesh
// and material slots. The demo and tests draw into it.
type MemoryTarget struct {
	Alpha float32

	mesh      *core.Mesh
	materials []*core.Material
	meshSets  int
	clears    int
}

func NewMemoryTarget() *MemoryTarget {
	return &MemoryTarget{Alpha: 1, mesh: core.NewMesh()}
}

func (t *MemoryTarget) SetMesh(m *core.Mesh) {
	t.mesh.CopyFrom(m)
	t.meshSets++
}

func (t *MemoryTarget) SetMaterialCount(n int) {
	if n < 0 {
		n = 0
	}
	for len(t.materials) < n {
		t.materials = append(t.materials, nil)
	}
	for i := n; i < len(t.materials); i++ {
		t.materials[i] = nil
	}
	t.materials = t.materials[:n]
}

func (t *MemoryTarget) MaterialCount() int {
	return len(t.materials)
}

func (t *MemoryTarget) SetMaterial(m *core.Material, slot int) {
	if slot < 0 || slot >= len(t.materials) {
		return
	}
	t.materials[slot] = m
}

func (t *MemoryTarget) Material(slot int) *core.Material {
	if slot < 0 || slot >= len(t.materials) {
		return nil
	}
	return t.materials[slot]
}

func (t *MemoryTarget) Clear() {
	t.mesh.Clear()
	t.SetMaterialCount(0)
	t.clears++
}

func (t *MemoryTarget) InheritedAlpha() float32 {
	return t.Alpha
}

// Mesh is the last mesh pushed with SetMesh.
func (t *MemoryTarget) Mesh() *core.Mesh {
	return t.mesh
}

func (t *MemoryTarget) MeshSets() int {
	return t.meshSets
}

func (t *MemoryTarget) Clears() int {
	return t.clears
}

// StaticCanvas returns fixed cameras.
type StaticCanvas struct {
	Camera *core.Camera
	Editor *core.Camera
}

func (c StaticCanvas) WorldCamera() *core.Camera  { return c.Camera }
func (c StaticCanvas) EditorCamera() *core.Camera { return c.Editor }

// FixedMasking reports the same stencil depth for every transform.
type FixedMasking int

func (m FixedMasking) StencilDepth(*core.Transform) int { return int(m) }
