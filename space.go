package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

// effectiveSpace resolves Custom without a custom transform to Local.
func effectiveSpace(s SimulationSettings) SimulationSpace {
	if s.Space == SpaceCustom && s.CustomSpace == nil {
		return SpaceLocal
	}
	return s.Space
}

// ScaledMatrix maps baked particle geometry into the local frame of t.
//
//   - Local:  inv(R) * inv(S), undoing the rotation and lossy scale the bake
//     applied so the UI transform reapplies them exactly once.
//   - World:  t's world-to-local matrix.
//   - Custom: world-to-local * Translate(custom space world position).
func ScaledMatrix(t *core.Transform, s SimulationSettings) mgl32.Mat4 {
	switch effectiveSpace(s) {
	case SpaceLocal:
		invRotate := t.WorldRotation().Conjugate().Mat4()
		scale := t.LossyScale()
		invScale := mgl32.Scale3D(inverse(scale.X()), inverse(scale.Y()), inverse(scale.Z()))
		return invRotate.Mul4(invScale)
	case SpaceWorld:
		return t.WorldToObject()
	case SpaceCustom:
		p := s.CustomSpace.WorldPosition()
		return t.WorldToObject().Mul4(mgl32.Translate3D(p.X(), p.Y(), p.Z()))
	}
	return mgl32.Ident4()
}

// TrailMatrix is the matrix for the trail sub-mesh. Local simulations with
// world-space trails report trail vertices offset by the system's world
// position, so that offset is removed first.
func TrailMatrix(t *core.Transform, s SimulationSettings, main mgl32.Mat4) mgl32.Mat4 {
	if s.Space == SpaceLocal && s.TrailsWorldSpace {
		p := t.WorldPosition()
		return main.Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
	}
	return main
}

func inverse(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1 / v
}
