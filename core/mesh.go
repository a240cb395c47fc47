package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Vertex struct {
	Position mgl32.Vec3
	Color    [4]float32 // RGBA (0..1)
	UV       mgl32.Vec2
}

// Bounds is an axis-aligned box. An empty mesh has zero bounds.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is a shared vertex buffer with one index stream per sub-mesh.
// Each sub-mesh is drawn with its own material slot.
type Mesh struct {
	Vertices  []Vertex
	SubMeshes [][]uint32
	Bounds    Bounds
}

func NewMesh() *Mesh {
	return &Mesh{}
}

// Clear drops geometry but keeps buffer capacity for reuse.
func (m *Mesh) Clear() {
	m.Vertices = m.Vertices[:0]
	for i := range m.SubMeshes {
		m.SubMeshes[i] = m.SubMeshes[i][:0]
	}
	m.SubMeshes = m.SubMeshes[:0]
	m.Bounds = Bounds{}
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) SubMeshCount() int {
	return len(m.SubMeshes)
}

func (m *Mesh) TriangleCount() int {
	n := 0
	for _, sm := range m.SubMeshes {
		n += len(sm) / 3
	}
	return n
}

func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// subMesh grows the sub-mesh list so index i exists, reusing old slices.
func (m *Mesh) subMesh(i int) []uint32 {
	for len(m.SubMeshes) <= i {
		if len(m.SubMeshes) < cap(m.SubMeshes) {
			m.SubMeshes = m.SubMeshes[:len(m.SubMeshes)+1]
			m.SubMeshes[len(m.SubMeshes)-1] = m.SubMeshes[len(m.SubMeshes)-1][:0]
		} else {
			m.SubMeshes = append(m.SubMeshes, nil)
		}
	}
	return m.SubMeshes[i]
}

func (m *Mesh) AddTriangle(subMesh int, v0, v1, v2 Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v0, v1, v2)
	idx := m.subMesh(subMesh)
	m.SubMeshes[subMesh] = append(idx, base, base+1, base+2)
}

// AddQuad appends v0..v3 (counter-clockwise) as two triangles.
func (m *Mesh) AddQuad(subMesh int, v0, v1, v2, v3 Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v0, v1, v2, v3)
	idx := m.subMesh(subMesh)
	m.SubMeshes[subMesh] = append(idx, base, base+1, base+2, base, base+2, base+3)
}

// AppendIndices appends raw indices to a sub-mesh, growing the list as needed.
func (m *Mesh) AppendIndices(subMesh int, indices ...uint32) {
	idx := m.subMesh(subMesh)
	m.SubMeshes[subMesh] = append(idx, indices...)
}

func (m *Mesh) RecalculateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	inf := float32(math.Inf(1))
	minV := mgl32.Vec3{inf, inf, inf}
	maxV := mgl32.Vec3{-inf, -inf, -inf}
	for _, v := range m.Vertices {
		for a := 0; a < 3; a++ {
			if v.Position[a] < minV[a] {
				minV[a] = v.Position[a]
			}
			if v.Position[a] > maxV[a] {
				maxV[a] = v.Position[a]
			}
		}
	}
	m.Bounds = Bounds{Min: minV, Max: maxV}
}

// CopyFrom replaces the contents of m with a deep copy of src.
func (m *Mesh) CopyFrom(src *Mesh) {
	if src == m {
		return
	}
	m.Clear()
	if src == nil {
		return
	}
	m.Vertices = append(m.Vertices, src.Vertices...)
	for i, sm := range src.SubMeshes {
		idx := m.subMesh(i)
		m.SubMeshes[i] = append(idx, sm...)
	}
	m.Bounds = src.Bounds
}

// CombineInstance pairs a source mesh with the matrix applied while combining.
type CombineInstance struct {
	Mesh      *Mesh
	Transform mgl32.Mat4
}

// CombineMeshes overwrites m with the given instances. With mergeSubMeshes
// every index lands in sub-mesh 0; otherwise each source sub-mesh keeps its
// own slot, in instance order. Bounds are left to the caller.
func (m *Mesh) CombineMeshes(instances []CombineInstance, mergeSubMeshes bool) {
	m.Clear()
	slot := 0
	for _, ci := range instances {
		if ci.Mesh == nil {
			continue
		}
		base := uint32(len(m.Vertices))
		for _, v := range ci.Mesh.Vertices {
			v.Position = mgl32.TransformCoordinate(v.Position, ci.Transform)
			m.Vertices = append(m.Vertices, v)
		}
		srcSubs := ci.Mesh.SubMeshes
		if len(srcSubs) == 0 && !mergeSubMeshes {
			// Keep slot numbering stable for empty sources.
			m.subMesh(slot)
			slot++
			continue
		}
		for _, sm := range srcSubs {
			target := slot
			if mergeSubMeshes {
				target = 0
			}
			idx := m.subMesh(target)
			for _, i := range sm {
				idx = append(idx, base+i)
			}
			m.SubMeshes[target] = idx
			if !mergeSubMeshes {
				slot++
			}
		}
	}
}

// CombineMesh is the single-instance form of CombineMeshes.
func (m *Mesh) CombineMesh(src *Mesh, transform mgl32.Mat4) {
	m.CombineMeshes([]CombineInstance{{Mesh: src, Transform: transform}}, false)
}
