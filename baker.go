package uiparticle

import (
	"errors"
	"fmt"

	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoCamera = errors.New("no camera to bake mesh")

const defaultAlphaEpsilon = 1e-6

// Baker snapshots particle systems into element meshes. Its two scratch
// meshes are reused across elements and frames; a Baker must only be used
// from the render callback.
type Baker struct {
	logger       Logger
	alphaEpsilon float32
	// pool supplies element meshes; a Scheduler built on this baker rents from it.
	pool         *core.MeshPool
	cis          [2]core.CombineInstance
}

func NewBaker(pool *core.MeshPool, logger Logger) *Baker {
	if pool == nil {
		pool = core.NewMeshPool()
	}
	return &Baker{
		logger:       orNop(logger),
		alphaEpsilon: defaultAlphaEpsilon,
		pool:         pool,
	}
}

// SetAlphaEpsilon sets the inherited alpha at or below which baking is skipped.
func (b *Baker) SetAlphaEpsilon(eps float32) {
	if eps < 0 {
		eps = 0
	}
	b.alphaEpsilon = eps
}

// scratch meshes live as long as the baker and stay out of the element pool.
func (b *Baker) scratch(i int) *core.Mesh {
	if b.cis[i].Mesh == nil {
		b.cis[i].Mesh = core.NewMesh()
	}
	b.cis[i].Mesh.Clear()
	return b.cis[i].Mesh
}

// Bake writes e's current particles into out and returns the number of
// sub-meshes produced (0, 1 or 2). The count is also pushed to e, which
// re-resolves its materials when it changes.
//
// When no camera can be resolved, ErrNoCamera is returned and out is left
// as it was.
func (b *Baker) Bake(e *UIParticle, out *core.Mesh) (int, error) {
	src := e.Source()
	if src == nil || src.Renderer() == nil {
		// Misconfigured elements render nothing.
		out.Clear()
		e.setSubStreamCount(0)
		return 0, nil
	}

	if !src.IsAlive() || src.ParticleCount() == 0 || b.invisible(e) || unrenderable(src.Renderer()) {
		out.Clear()
		e.setSubStreamCount(0)
		return 0, nil
	}

	cam := e.resolveCamera()
	if cam == nil {
		return 0, fmt.Errorf("UIParticle %s: %w", e.Name(), ErrNoCamera)
	}

	pr := src.Renderer()
	t := src.Transform()
	settings := src.Settings()
	matrix := ScaledMatrix(t, settings)

	// Main particles.
	b.cis[0].Transform = matrix
	if err := pr.BakeMesh(b.scratch(0), cam, BakeRotationAndScale); err != nil {
		return 0, fmt.Errorf("UIParticle %s: bake main: %w", e.Name(), err)
	}

	subMeshCount := 1
	if settings.TrailsEnabled {
		b.cis[1].Transform = TrailMatrix(t, settings, matrix)
		if err := b.bakeTrails(pr, cam); err != nil {
			b.logger.Errorf("UIParticle %s: bake trails: %v", e.Name(), err)
		} else {
			subMeshCount++
		}
	}

	e.setSubStreamCount(subMeshCount)

	if subMeshCount == 1 {
		out.CombineMesh(b.cis[0].Mesh, b.cis[0].Transform)
	} else {
		out.CombineMeshes(b.cis[:], false)
	}
	out.RecalculateBounds()
	return subMeshCount, nil
}

// bakeTrails converts a panicking trail bake into an error.
func (b *Baker) bakeTrails(pr ParticleRenderer, cam *core.Camera) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return pr.BakeTrailsMesh(b.scratch(1), cam, BakeRotationAndScale)
}

// unrenderable reports a renderer configuration that can never produce
// geometry. Such elements render nothing rather than fail every frame.
func unrenderable(r ParticleRenderer) bool {
	switch r.RenderMode() {
	case RenderNone:
		return true
	case RenderMesh:
		return r.Mesh() == nil
	}
	return false
}

func (b *Baker) invisible(e *UIParticle) bool {
	target := e.Target()
	if target == nil {
		return true
	}
	return mgl32.Abs(target.InheritedAlpha()) <= b.alphaEpsilon
}
