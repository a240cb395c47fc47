package cpusim

import (
	"errors"
	"fmt"

	"github.com/gekko3d/uiparticle"
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNilCamera = errors.New("camera is nil")
	ErrTrailsOff = errors.New("trails module is disabled")
)

func (s *System) SharedMaterials() []*core.Material { return s.materials }
func (s *System) RenderMode() uiparticle.RenderMode  { return s.renderMode }
func (s *System) Mesh() *core.Mesh                   { return s.mesh }
func (s *System) Enabled() bool                      { return s.rendererEnabled }
func (s *System) SpriteTexture() *core.Texture       { return s.sprite }

// SetMaterials assigns the main and, optionally, the trail material.
func (s *System) SetMaterials(main, trail *core.Material) {
	s.materials = s.materials[:0]
	s.materials = append(s.materials, main)
	if trail != nil {
		s.materials = append(s.materials, trail)
	}
}

func (s *System) SetRenderMode(m uiparticle.RenderMode) { s.renderMode = m }
func (s *System) SetMesh(m *core.Mesh)                  { s.mesh = m }
func (s *System) SetRendererEnabled(v bool)             { s.rendererEnabled = v }
func (s *System) SetSpriteTexture(t *core.Texture)      { s.sprite = t }

// PropertyBlock holds animated overrides handed out by GetPropertyBlock.
func (s *System) PropertyBlock() *core.PropertyBlock { return &s.block }

func (s *System) GetPropertyBlock(dst *core.PropertyBlock) {
	dst.Clear()
	s.block.CopyTo(dst)
}

func (s *System) Shape() uiparticle.Shape { return s.shape }

func (s *System) SetShape(shape uiparticle.Shape) { s.shape = shape }

func (s *System) TextureSheet() (uiparticle.TextureSheetMode, int) {
	return s.sheetMode, s.uvMask
}

func (s *System) SetTextureSheet(mode uiparticle.TextureSheetMode, uvChannelMask int) {
	s.sheetMode, s.uvMask = mode, uvChannelMask
}

// BakeMesh writes one camera-facing quad (or one mesh instance) per live
// particle into sub-mesh 0 of dst. Render mode None, or Mesh without a mesh,
// bakes an empty mesh.
func (s *System) BakeMesh(dst *core.Mesh, cam *core.Camera, opts uiparticle.BakeMeshOptions) error {
	if cam == nil {
		return ErrNilCamera
	}
	dst.Clear()
	if s.renderMode == uiparticle.RenderNone || (s.renderMode == uiparticle.RenderMesh && s.mesh == nil) {
		return nil
	}

	right := cam.GetRight()
	up := cam.GetUp()
	pl := &s.pool
	for i := 0; i < pl.alive; i++ {
		center := s.bakePoint(pl.pos[i], opts)
		half := pl.size[i] * 0.5
		color := pl.color[i]

		if s.renderMode == uiparticle.RenderMesh {
			s.appendMeshInstance(dst, center, pl.size[i], color)
			continue
		}

		r := right.Mul(half)
		u := up.Mul(half)
		dst.AddQuad(0,
			core.Vertex{Position: center.Sub(r).Sub(u), Color: color, UV: mgl32.Vec2{0, 0}},
			core.Vertex{Position: center.Add(r).Sub(u), Color: color, UV: mgl32.Vec2{1, 0}},
			core.Vertex{Position: center.Add(r).Add(u), Color: color, UV: mgl32.Vec2{1, 1}},
			core.Vertex{Position: center.Sub(r).Add(u), Color: color, UV: mgl32.Vec2{0, 1}},
		)
	}
	return nil
}

func (s *System) appendMeshInstance(dst *core.Mesh, center mgl32.Vec3, size float32, color [4]float32) {
	base := uint32(len(dst.Vertices))
	for _, v := range s.mesh.Vertices {
		v.Position = center.Add(v.Position.Mul(size))
		v.Color = color
		dst.Vertices = append(dst.Vertices, v)
	}
	for _, sm := range s.mesh.SubMeshes {
		for _, i := range sm {
			dst.AppendIndices(0, base+i)
		}
	}
}

// BakeTrailsMesh writes a ribbon per particle history into sub-mesh 0 of dst.
func (s *System) BakeTrailsMesh(dst *core.Mesh, cam *core.Camera, opts uiparticle.BakeMeshOptions) error {
	if cam == nil {
		return ErrNilCamera
	}
	if !s.cfg.Trails {
		return ErrTrailsOff
	}
	dst.Clear()

	forward := cam.GetForward()
	world := s.worldTrails()
	pl := &s.pool
	for i := 0; i < pl.alive; i++ {
		points := pl.trail[i]
		if len(points) == 0 {
			continue
		}
		head := pl.pos[i]
		if world {
			head = s.localToWorld(head)
		}
		width := pl.size[i] * s.trailWidth * 0.5
		color := pl.color[i]

		prev := s.trailPoint(points[0], world, opts)
		for k := 1; k <= len(points); k++ {
			var next mgl32.Vec3
			if k == len(points) {
				next = s.trailPoint(head, world, opts)
			} else {
				next = s.trailPoint(points[k], world, opts)
			}
			dir := next.Sub(prev)
			if dir.Len() < 1e-6 {
				continue
			}
			side := dir.Cross(forward)
			if side.Len() < 1e-6 {
				prev = next
				continue
			}
			side = side.Normalize().Mul(width)
			dst.AddQuad(0,
				core.Vertex{Position: prev.Sub(side), Color: color, UV: mgl32.Vec2{0, 0}},
				core.Vertex{Position: next.Sub(side), Color: color, UV: mgl32.Vec2{1, 0}},
				core.Vertex{Position: next.Add(side), Color: color, UV: mgl32.Vec2{1, 1}},
				core.Vertex{Position: prev.Add(side), Color: color, UV: mgl32.Vec2{0, 1}},
			)
			prev = next
		}
	}
	return nil
}

// trailPoint leaves world-space trail points alone; the baker removes the
// system position afterwards.
func (s *System) trailPoint(p mgl32.Vec3, world bool, opts uiparticle.BakeMeshOptions) mgl32.Vec3 {
	if world {
		return p
	}
	return s.bakePoint(p, opts)
}

func (s *System) String() string {
	return fmt.Sprintf("%s(%d particles)", s.name, s.pool.alive)
}
