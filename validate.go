package uiparticle

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type ShapeType int

const (
	ShapeSphere ShapeType = iota
	ShapeHemisphere
	ShapeCone
	ShapeBox
	ShapeCircle
	ShapeEdge
	ShapeRectangle
)

type TextureSheetMode int

const (
	TextureSheetGrid TextureSheetMode = iota
	TextureSheetSprites
)

// Shape describes the emitter shape module for validation. Rotations are
// Euler angles in degrees.
type Shape struct {
	Type     ShapeType
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// ShapeProvider is implemented by sources that can describe their shape and
// texture sheet setup.
type ShapeProvider interface {
	Shape() Shape
	TextureSheet() (mode TextureSheetMode, uvChannelMask int)
}

// Description is a plain snapshot of an element's configuration.
type Description struct {
	Name              string
	RaycastTarget     bool
	SystemCount       int
	SourceMatches     bool
	Rotation          mgl32.Vec3 // transform Euler angles, degrees
	LossyScale        mgl32.Vec3
	HasRenderer       bool
	RendererEnabled   bool
	HasSharedMaterial bool
	RenderMode        RenderMode
	HasMesh           bool
	Shape             Shape
	TextureSheetMode  TextureSheetMode
	UVChannelMask     int
	TrailsEnabled     bool
	HasTrailMaterial  bool
}

type Finding struct {
	Message string
}

func (f Finding) Error() string { return f.Message }

// Validate reports configuration problems that make an element render
// nothing or render wrong. It has no side effects; tooling calls it, the
// frame loop never does.
func Validate(d Description) []Finding {
	var out []Finding
	add := func(format string, args ...any) {
		out = append(out, Finding{Message: fmt.Sprintf(format, args...)})
	}

	if d.RaycastTarget {
		add("Raycast Target should be disabled.")
	}
	if d.SystemCount > 1 {
		add("Multiple ParticleSystems are not supported. Please use only one ParticleSystem.")
	}
	if d.SystemCount == 0 {
		add("No ParticleSystem is assigned.")
		return out
	}
	if !d.SourceMatches {
		add("The ParticleSystem component is not the same as the one assigned to the element.")
	}
	if mgl32.FloatEqual(d.LossyScale.Z(), 0) {
		add("The zero lossyScale.z will not render particles.")
	}

	if !d.HasRenderer {
		add("The ParticleSystemRenderer component is missing.")
		return out
	}
	if d.RendererEnabled {
		add("The ParticleSystemRenderer of %s is enabled.", d.Name)
	}
	if !d.HasSharedMaterial {
		add("The ParticleSystemRenderer's sharedMaterial is not set. (%s)", d.Name)
	}
	if d.RenderMode == RenderMesh && !d.HasMesh {
		add("The ParticleSystemRenderer's mesh is null. Please assign a mesh.")
	}
	if d.RenderMode == RenderNone {
		add("The ParticleSystemRenderer's renderMode is None. Please set it to Billboard, Mesh, or Stretched Billboard.")
	}

	if d.Shape.Type == ShapeCone {
		if ok, detail := validConeShape(d.Rotation, d.Shape); !ok {
			add("The ParticleSystem with Cone shape is not setup properly: %s", detail)
		}
	}

	if d.TextureSheetMode == TextureSheetSprites && d.UVChannelMask == 0 {
		add("The uvChannelMask of TextureSheetAnimationModule is not set to UV0. (%s)", d.Name)
	}

	if d.TrailsEnabled && !d.HasTrailMaterial {
		add("The ParticleSystemRenderer's trailMaterial is not set. (%s)", d.Name)
	}
	return out
}

// validConeShape accepts the two cone setups that stay flat in UI space:
// heading straight up or down with a flattened y scale, or unrotated with
// the shape turned 90 degrees about y and a flattened x scale.
func validConeShape(rot mgl32.Vec3, shape Shape) (bool, string) {
	eq := mgl32.FloatEqual
	sr, ss := shape.Rotation, shape.Scale

	pitch := float32(math.Mod(float64(rot.X()), 180))
	if (eq(pitch, 90) || eq(pitch, -90)) && eq(rot.Y(), 0) && eq(rot.Z(), 0) &&
		eq(sr.X(), 0) && eq(sr.Z(), 0) &&
		ss.ApproxEqual(mgl32.Vec3{1, 0, 1}) {
		return true, ""
	}

	if rot.ApproxEqual(mgl32.Vec3{}) &&
		eq(sr.Y(), 90) && eq(sr.Z(), 0) &&
		eq(ss.X(), 0) {
		return true, ""
	}

	return false, fmt.Sprintf("Rotation: %v, Shape Rotation: %v, Shape Scale: %v", rot, sr, ss)
}

// Describe snapshots a live element for Validate.
func Describe(e *UIParticle) Description {
	d := Description{
		Name:          e.Name(),
		RaycastTarget: e.RaycastTarget(),
	}
	src := e.Source()
	if src == nil {
		return d
	}
	d.Name = src.Name()
	d.SystemCount = 1
	d.SourceMatches = true

	t := src.Transform()
	d.LossyScale = t.LossyScale()
	d.Rotation = eulerDegrees(t.WorldRotation())

	settings := src.Settings()
	d.TrailsEnabled = settings.TrailsEnabled

	if r := src.Renderer(); r != nil {
		d.HasRenderer = true
		d.RendererEnabled = r.Enabled()
		shared := r.SharedMaterials()
		d.HasSharedMaterial = len(shared) > 0 && shared[0] != nil
		d.HasTrailMaterial = len(shared) > 1 && shared[1] != nil
		d.RenderMode = r.RenderMode()
		d.HasMesh = r.Mesh() != nil
	}

	if sp, ok := src.(ShapeProvider); ok {
		d.Shape = sp.Shape()
		d.TextureSheetMode, d.UVChannelMask = sp.TextureSheet()
	}
	return d
}

// eulerDegrees converts q to Euler angles in degrees for R = Rz * Ry * Rx.
func eulerDegrees(q mgl32.Quat) mgl32.Vec3 {
	m := q.Mat4()
	// Column-major: m[col*4+row].
	sy := mgl32.Clamp(-m[2], -1, 1)
	y := float32(math.Asin(float64(sy)))
	var x, z float32
	if mgl32.Abs(sy) < 0.9999 {
		x = float32(math.Atan2(float64(m[6]), float64(m[10])))
		z = float32(math.Atan2(float64(m[1]), float64(m[0])))
	} else {
		x = float32(math.Atan2(float64(-m[9]), float64(m[5])))
	}
	return mgl32.Vec3{mgl32.RadToDeg(x), mgl32.RadToDeg(y), mgl32.RadToDeg(z)}
}
