package uiparticle

import (
	"testing"

	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const matEps = 1e-4

func rotatedScaled() *core.Transform {
	tr := core.NewTransform()
	tr.Position = mgl32.Vec3{12, -4, 3}
	tr.Rotation = mgl32.AnglesToQuat(0.3, 1.1, -0.7, mgl32.XYZ)
	tr.Scale = mgl32.Vec3{2, 0.5, 3}
	return tr
}

func TestScaledMatrix_LocalUndoesRotationAndScale(t *testing.T) {
	tr := rotatedScaled()
	m := ScaledMatrix(tr, SimulationSettings{Space: SpaceLocal})

	s := tr.LossyScale()
	S := mgl32.Scale3D(s.X(), s.Y(), s.Z())
	R := tr.WorldRotation().Mat4()

	got := m.Mul4(S).Mul4(R)
	assert.True(t, got.ApproxEqualThreshold(mgl32.Ident4(), matEps), "derived * S * R = %v", got)
}

func TestScaledMatrix_LocalIgnoresPosition(t *testing.T) {
	tr := rotatedScaled()
	m := ScaledMatrix(tr, SimulationSettings{Space: SpaceLocal})

	origin := mgl32.TransformCoordinate(mgl32.Vec3{}, m)
	assert.True(t, origin.ApproxEqualThreshold(mgl32.Vec3{}, matEps))
}

func TestScaledMatrix_WorldIsWorldToLocal(t *testing.T) {
	parent := core.NewTransform()
	parent.Position = mgl32.Vec3{100, 0, 0}
	tr := rotatedScaled()
	tr.Parent = parent

	m := ScaledMatrix(tr, SimulationSettings{Space: SpaceWorld})

	assert.True(t, m.ApproxEqualThreshold(tr.ObjectToWorld().Inv(), matEps))
	p := mgl32.TransformCoordinate(tr.WorldPosition(), m)
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{}, matEps), "world origin of element maps to local origin, got %v", p)
}

func TestScaledMatrix_CustomTranslatesByCustomSpace(t *testing.T) {
	tr := rotatedScaled()
	custom := core.NewTransform()
	custom.Position = mgl32.Vec3{5, 6, 7}

	m := ScaledMatrix(tr, SimulationSettings{Space: SpaceCustom, CustomSpace: custom})
	want := tr.WorldToObject().Mul4(mgl32.Translate3D(5, 6, 7))
	assert.True(t, m.ApproxEqualThreshold(want, matEps))

	// A point given relative to the custom space lands where its world position would.
	rel := tr.WorldPosition().Sub(custom.Position)
	p := mgl32.TransformCoordinate(rel, m)
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{}, matEps), "got %v", p)
}

func TestScaledMatrix_CustomWithoutSpaceFallsBackToLocal(t *testing.T) {
	tr := rotatedScaled()
	custom := ScaledMatrix(tr, SimulationSettings{Space: SpaceCustom})
	local := ScaledMatrix(tr, SimulationSettings{Space: SpaceLocal})
	assert.True(t, custom.ApproxEqualThreshold(local, matEps))
}

func TestTrailMatrix(t *testing.T) {
	tr := rotatedScaled()
	local := SimulationSettings{Space: SpaceLocal, TrailsEnabled: true, TrailsWorldSpace: true}
	main := ScaledMatrix(tr, local)

	trail := TrailMatrix(tr, local, main)
	want := main.Mul4(mgl32.Translate3D(-12, 4, -3))
	assert.True(t, trail.ApproxEqualThreshold(want, matEps))

	// World-space trail point sitting on the emitter maps to the local origin.
	p := mgl32.TransformCoordinate(tr.WorldPosition(), trail)
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{}, matEps))

	for _, s := range []SimulationSettings{
		{Space: SpaceLocal, TrailsEnabled: true},
		{Space: SpaceWorld, TrailsEnabled: true, TrailsWorldSpace: true},
	} {
		m := ScaledMatrix(tr, s)
		assert.Equal(t, m, TrailMatrix(tr, s, m), "space %v worldSpace %v", s.Space, s.TrailsWorldSpace)
	}
}

func TestSimulationSpace_Text(t *testing.T) {
	var s SimulationSpace
	assert.NoError(t, s.UnmarshalText([]byte("World")))
	assert.Equal(t, SpaceWorld, s)
	assert.Error(t, s.UnmarshalText([]byte("screen")))

	b, err := SpaceCustom.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "custom", string(b))
}
