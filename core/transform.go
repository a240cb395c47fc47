package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node in a parent chain. Position, Rotation and Scale are
// relative to Parent, or to the world when Parent is nil.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Parent   *Transform
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// LocalMatrix returns T * R * S for this node only.
func (t *Transform) LocalMatrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	m := t.LocalMatrix()
	for p := t.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (t *Transform) WorldToObject() mgl32.Mat4 {
	if t.Parent == nil {
		// inv(M) = inv(S) * inv(R) * inv(T)
		invScale := mgl32.Scale3D(safeInv(t.Scale.X()), safeInv(t.Scale.Y()), safeInv(t.Scale.Z()))
		invRotate := t.Rotation.Conjugate().Mat4()
		invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

		return invScale.Mul4(invRotate).Mul4(invTranslate)
	}
	return t.ObjectToWorld().Inv()
}

func (t *Transform) WorldPosition() mgl32.Vec3 {
	return mgl32.TransformCoordinate(mgl32.Vec3{}, t.ObjectToWorld())
}

// WorldRotation composes rotations up the chain: ParentRot * LocalRot.
func (t *Transform) WorldRotation() mgl32.Quat {
	q := t.Rotation
	for p := t.Parent; p != nil; p = p.Parent {
		q = p.Rotation.Mul(q)
	}
	return q.Normalize()
}

// LossyScale is the per-axis product of scales up the chain. It ignores the
// skew a rotated parent with non-uniform scale would introduce.
func (t *Transform) LossyScale() mgl32.Vec3 {
	s := t.Scale
	for p := t.Parent; p != nil; p = p.Parent {
		s = mgl32.Vec3{s.X() * p.Scale.X(), s.Y() * p.Scale.Y(), s.Z() * p.Scale.Z()}
	}
	return s
}

func safeInv(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1.0 / v
}
