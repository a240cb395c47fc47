package core

// MeshPool hands out reusable meshes so per-frame baking never allocates.
// It is not safe for concurrent use; it lives on the render callback.
type MeshPool struct {
	free    []*Mesh
	rented  int
	created int
}

func NewMeshPool() *MeshPool {
	return &MeshPool{}
}

func (p *MeshPool) Rent() *Mesh {
	p.rented++
	if n := len(p.free); n > 0 {
		m := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return m
	}
	p.created++
	return NewMesh()
}

// Return clears m and puts it back. Returning nil is a no-op.
func (p *MeshPool) Return(m *Mesh) {
	if m == nil {
		return
	}
	m.Clear()
	p.rented--
	p.free = append(p.free, m)
}

// Outstanding is the number of meshes rented and not yet returned.
func (p *MeshPool) Outstanding() int {
	return p.rented
}

// Created is the number of meshes ever allocated by the pool.
func (p *MeshPool) Created() int {
	return p.created
}
