package uiparticle

import (
	"errors"

	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

var errBakeFailed = errors.New("bake failed")

// fakeSource is a scripted particle source.
type fakeSource struct {
	name      string
	transform *core.Transform
	settings  SimulationSettings

	alive   bool
	playing bool
	count   int
	calls   []string

	materials []*core.Material
	sprite    *core.Texture
	block     core.PropertyBlock
	mode      RenderMode
	mesh      *core.Mesh

	mainErr    error
	trailErr   error
	trailPanic any
	mainPanic  any

	bakeCalls  int
	trailCalls int
}

func newFakeSource(name string) *fakeSource {
	return &fakeSource{
		name:      name,
		transform: core.NewTransform(),
		alive:     true,
		count:     3,
		materials: []*core.Material{core.NewMaterial("main", "ui")},
	}
}

func (f *fakeSource) Name() string                 { return f.name }
func (f *fakeSource) Transform() *core.Transform   { return f.transform }
func (f *fakeSource) Settings() SimulationSettings { return f.settings }
func (f *fakeSource) IsAlive() bool                { return f.alive }
func (f *fakeSource) IsPlaying() bool              { return f.playing }
func (f *fakeSource) ParticleCount() int           { return f.count }
func (f *fakeSource) Renderer() ParticleRenderer   { return f }

func (f *fakeSource) Play() {
	f.calls = append(f.calls, "Play")
	f.playing = true
	f.alive = true
	f.count = 3
}

func (f *fakeSource) Pause() {
	f.calls = append(f.calls, "Pause")
	f.playing = false
}

func (f *fakeSource) Stop() {
	f.calls = append(f.calls, "Stop")
	f.playing = false
}

func (f *fakeSource) Clear() {
	f.calls = append(f.calls, "Clear")
	f.count = 0
	f.alive = false
}

// BakeMesh emits one unit quad centred at (1, 0, 0).
func (f *fakeSource) BakeMesh(dst *core.Mesh, cam *core.Camera, opts BakeMeshOptions) error {
	f.bakeCalls++
	if f.mainPanic != nil {
		panic(f.mainPanic)
	}
	if f.mainErr != nil {
		return f.mainErr
	}
	dst.Clear()
	addUnitQuad(dst, mgl32.Vec3{1, 0, 0})
	return nil
}

// BakeTrailsMesh emits one unit quad centred at (0, 2, 0).
func (f *fakeSource) BakeTrailsMesh(dst *core.Mesh, cam *core.Camera, opts BakeMeshOptions) error {
	f.trailCalls++
	if f.trailPanic != nil {
		panic(f.trailPanic)
	}
	if f.trailErr != nil {
		return f.trailErr
	}
	dst.Clear()
	addUnitQuad(dst, mgl32.Vec3{0, 2, 0})
	return nil
}

func (f *fakeSource) SharedMaterials() []*core.Material { return f.materials }
func (f *fakeSource) RenderMode() RenderMode            { return f.mode }
func (f *fakeSource) Mesh() *core.Mesh                  { return f.mesh }
func (f *fakeSource) Enabled() bool                     { return false }
func (f *fakeSource) SpriteTexture() *core.Texture      { return f.sprite }

func (f *fakeSource) GetPropertyBlock(dst *core.PropertyBlock) {
	dst.Clear()
	f.block.CopyTo(dst)
}

func addUnitQuad(m *core.Mesh, c mgl32.Vec3) {
	m.AddQuad(0,
		core.Vertex{Position: c.Add(mgl32.Vec3{-0.5, -0.5, 0})},
		core.Vertex{Position: c.Add(mgl32.Vec3{0.5, -0.5, 0})},
		core.Vertex{Position: c.Add(mgl32.Vec3{0.5, 0.5, 0})},
		core.Vertex{Position: c.Add(mgl32.Vec3{-0.5, 0.5, 0})},
	)
}

// testRig wires a scheduler, cache and clock the way a host would.
type testRig struct {
	clock     *FrameCounter
	signal    *RenderSignal
	scheduler *Scheduler
	cache     *VariantCache
	canvas    StaticCanvas
}

func newTestRig() *testRig {
	clock := &FrameCounter{}
	signal := NewRenderSignal()
	return &testRig{
		clock:     clock,
		signal:    signal,
		scheduler: NewScheduler(clock, signal, nil, nil),
		cache:     NewVariantCache(true, nil),
		canvas:    StaticCanvas{Camera: core.NewCamera("test")},
	}
}

func (r *testRig) element(src *fakeSource, target *MemoryTarget, depth int) *UIParticle {
	return NewUIParticle(ElementConfig{
		Source:    src,
		Target:    target,
		Canvas:    r.canvas,
		Masking:   FixedMasking(depth),
		Scheduler: r.scheduler,
		Cache:     r.cache,
		Maskable:  true,
	})
}

// frame advances the clock and fires the render signal once.
func (r *testRig) frame() {
	r.clock.Advance()
	r.signal.Emit()
}
