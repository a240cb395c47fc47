package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	defaultMaxMaterialSlots = 8
	minScale                = 0.001
)

// ElementConfig wires a UIParticle to its collaborators.
type ElementConfig struct {
	Name      string
	Source    ParticleSource
	Target    DrawTarget
	Canvas    Canvas
	Masking   Masking
	Scheduler *Scheduler
	Cache     *VariantCache
	Logger    Logger

	// Maskable elements take part in stencil clipping.
	Maskable bool
	// Modifiers run after masking and texture overrides, in order.
	Modifiers []MaterialModifier
	// AnimatableProperties are copied from the renderer's property block
	// into the main material after every resolution.
	AnimatableProperties []string
	MaxMaterialSlots     int
}

// UIParticle renders a particle system as a UI element. It holds the baked
// mesh and the material variants applied to its draw target; the variant
// cache owns variant lifetime.
type UIParticle struct {
	id        uuid.UUID
	name      string
	source    ParticleSource
	target    DrawTarget
	canvas    Canvas
	masking   Masking
	scheduler *Scheduler
	cache     *VariantCache
	logger    Logger

	maskable             bool
	modifiers            []MaterialModifier
	animatableProperties []string
	maxMaterialSlots     int

	enabled        bool
	registry       *Scheduler // set while registered
	startGen       int
	stencilDirty   bool
	stencilDepth   int
	subStreamCount int
	bakedMesh      *core.Mesh
	texture        *core.Texture
	scale3D        mgl32.Vec3

	maskMaterials     []*core.Material
	modifiedMaterials []*core.Material
	prevMask          []*core.Material
	prevModified      []*core.Material
	block             core.PropertyBlock
}

func NewUIParticle(cfg ElementConfig) *UIParticle {
	if cfg.Scheduler == nil {
		panic("NewUIParticle: scheduler is nil")
	}
	if cfg.Cache == nil {
		panic("NewUIParticle: variant cache is nil")
	}
	slots := cfg.MaxMaterialSlots
	if slots <= 0 {
		slots = defaultMaxMaterialSlots
	}
	e := &UIParticle{
		id:                   uuid.New(),
		name:                 cfg.Name,
		source:               cfg.Source,
		target:               cfg.Target,
		canvas:               cfg.Canvas,
		masking:              cfg.Masking,
		scheduler:            cfg.Scheduler,
		cache:                cfg.Cache,
		logger:               orNop(cfg.Logger),
		maskable:             cfg.Maskable,
		modifiers:            cfg.Modifiers,
		animatableProperties: cfg.AnimatableProperties,
		maxMaterialSlots:     slots,
		stencilDirty:         true,
		scale3D:              mgl32.Vec3{100, 100, 100},
	}
	if e.name == "" && cfg.Source != nil {
		e.name = cfg.Source.Name()
	}
	if e.name == "" {
		e.name = e.id.String()[:8]
	}
	return e
}

func (e *UIParticle) ID() uuid.UUID            { return e.id }
func (e *UIParticle) Name() string             { return e.name }
func (e *UIParticle) Source() ParticleSource   { return e.source }
func (e *UIParticle) Target() DrawTarget       { return e.target }
func (e *UIParticle) BakedMesh() *core.Mesh    { return e.bakedMesh }
func (e *UIParticle) SubStreamCount() int      { return e.subStreamCount }
func (e *UIParticle) StencilDepth() int        { return e.stencilDepth }
func (e *UIParticle) IsActiveAndEnabled() bool { return e.enabled }

// Transform is the transform of the source system; the element sits on the
// same node.
func (e *UIParticle) Transform() *core.Transform {
	if e.source == nil {
		return nil
	}
	return e.source.Transform()
}

// RaycastTarget is always false: particle elements never take input.
func (e *UIParticle) RaycastTarget() bool { return false }

func (e *UIParticle) SetRaycastTarget(bool) {}

// MaskMaterials returns the masked variants currently held.
func (e *UIParticle) MaskMaterials() []*core.Material {
	return e.maskMaterials
}

// Materials returns the texture-override variants currently held.
func (e *UIParticle) Materials() []*core.Material {
	return e.modifiedMaterials
}

// MaterialForRendering is the material in the first draw target slot.
func (e *UIParticle) MaterialForRendering() *core.Material {
	if e.target == nil {
		return nil
	}
	return e.target.Material(0)
}

func (e *UIParticle) Scale() float32 {
	return e.scale3D.X()
}

func (e *UIParticle) SetScale(v float32) {
	v = max(minScale, v)
	e.scale3D = mgl32.Vec3{v, v, v}
}

func (e *UIParticle) Scale3D() mgl32.Vec3 {
	return e.scale3D
}

func (e *UIParticle) SetScale3D(v mgl32.Vec3) {
	e.scale3D = mgl32.Vec3{max(minScale, v.X()), max(minScale, v.Y()), max(minScale, v.Z())}
}

func (e *UIParticle) Texture() *core.Texture {
	return e.texture
}

// SetTexture overrides the main texture. Materials are re-resolved only when
// the texture actually changes.
func (e *UIParticle) SetTexture(t *core.Texture) {
	if e.texture == t {
		return
	}
	e.texture = t
	e.UpdateMaterial()
}

func (e *UIParticle) Maskable() bool {
	return e.maskable
}

func (e *UIParticle) SetMaskable(v bool) {
	if e.maskable == v {
		return
	}
	e.maskable = v
	e.SetClippingDirty()
}

// SetClippingDirty is called by the host when an ancestor's clipping
// changes; the stencil depth is recomputed on the next material pass.
func (e *UIParticle) SetClippingDirty() {
	e.stencilDirty = true
	e.UpdateMaterial()
}

func (e *UIParticle) Play() {
	if e.source != nil {
		e.source.Play()
	}
}

func (e *UIParticle) Pause() {
	if e.source != nil {
		e.source.Pause()
	}
}

func (e *UIParticle) Stop() {
	if e.source != nil {
		e.source.Stop()
	}
}

func (e *UIParticle) Clear() {
	if e.source != nil {
		e.source.Clear()
	}
}

// Enable registers the element for baking and rents its mesh.
func (e *UIParticle) Enable() {
	if e.enabled {
		return
	}
	e.enabled = true
	e.subStreamCount = 0
	e.stencilDirty = true

	e.scheduler.Register(e)
	e.bakedMesh = e.scheduler.MeshPool().Rent()

	e.UpdateMaterial()
	e.start()
}

// start restarts systems that are already playing with prewarm or
// sub-emitters: stop and clear now, play again one tick later. Playing them
// straight away spawns first-frame particles at wrong positions.
func (e *UIParticle) start() {
	e.startGen++
	if e.source == nil || !e.source.IsPlaying() {
		return
	}
	s := e.source.Settings()
	if !s.SubEmitters && !s.Prewarm {
		return
	}

	e.logger.Debugf("UIParticle %s: delaying play for prewarm/sub-emitters", e.name)
	e.Stop()
	e.Clear()
	gen := e.startGen
	e.scheduler.Defer(func() {
		if !e.enabled || e.startGen != gen {
			return
		}
		e.Play()
	})
}

// Disable unregisters the element, returns its mesh and releases every
// variant it holds.
func (e *UIParticle) Disable() {
	if !e.enabled {
		return
	}
	e.scheduler.Unregister(e)
	e.enabled = false

	e.scheduler.MeshPool().Return(e.bakedMesh)
	e.bakedMesh = nil

	e.clearMaterials()
}

func (e *UIParticle) clearMaterials() {
	e.collectGarbage()
	if e.target != nil {
		e.target.Clear()
	}
	e.purgeGarbage()
}

// setSubStreamCount is called by the baker after every bake.
func (e *UIParticle) setSubStreamCount(n int) {
	if e.subStreamCount == n {
		return
	}
	e.subStreamCount = n
	e.UpdateMaterial()
}

// UpdateMaterial rebuilds the draw target's material slots from scratch.
// Held variants move to a garbage list first; whatever is not re-acquired
// during the pass is released at the end.
func (e *UIParticle) UpdateMaterial() {
	e.collectGarbage()

	if e.stencilDirty {
		e.stencilDepth = 0
		if e.maskable && e.masking != nil {
			e.stencilDepth = e.masking.StencilDepth(e.Transform())
		}
		e.stencilDirty = false
	}

	count := e.subStreamCount
	if count == 0 || !e.enabled || e.source == nil || e.source.Renderer() == nil || e.target == nil {
		if e.target != nil {
			e.target.Clear()
		}
		e.purgeGarbage()
		return
	}

	r := e.source.Renderer()
	shared := r.SharedMaterials()
	materialCount := min(e.maxMaterialSlots, count)
	e.target.SetMaterialCount(materialCount)

	j := 0
	// Main
	if len(shared) > 0 && shared[0] != nil {
		tex := e.texture
		if tex == nil {
			tex = r.SpriteTexture()
		}
		mat := e.applyModifiers(e.modifiedMaterial(shared[0], tex))
		e.target.SetMaterial(mat, j)
		e.updateMaterialProperties(r, j)
		j++
	}

	// Trails
	if count >= 2 && j < materialCount && len(shared) > 1 && shared[1] != nil {
		mat := e.applyModifiers(e.modifiedMaterial(shared[1], nil))
		e.target.SetMaterial(mat, j)
		j++
	}

	e.purgeGarbage()
}

// modifiedMaterial composes masking first, then the texture override.
func (e *UIParticle) modifiedMaterial(base *core.Material, tex *core.Texture) *core.Material {
	if e.stencilDepth > 0 {
		base = e.cache.AddMasked(base, e.stencilDepth)
		e.maskMaterials = append(e.maskMaterials, base)
	}

	if tex == nil && len(e.animatableProperties) == 0 {
		return base
	}

	owner := uuid.Nil
	if len(e.animatableProperties) > 0 {
		owner = e.id
	}
	base = e.cache.AddTextured(base, tex, owner)
	e.modifiedMaterials = append(e.modifiedMaterials, base)
	return base
}

// AddMaterialModifier appends a post-processor and re-resolves materials.
func (e *UIParticle) AddMaterialModifier(m MaterialModifier) {
	if m == nil {
		return
	}
	e.modifiers = append(e.modifiers, m)
	e.UpdateMaterial()
}

func (e *UIParticle) applyModifiers(m *core.Material) *core.Material {
	for _, mod := range e.modifiers {
		m = mod.ModifiedMaterial(m)
	}
	return m
}

// UpdateMaterialProperties copies animated renderer values into the main
// material slot.
func (e *UIParticle) UpdateMaterialProperties() {
	if len(e.animatableProperties) == 0 || e.subStreamCount == 0 || e.source == nil {
		return
	}
	if r := e.source.Renderer(); r != nil {
		e.updateMaterialProperties(r, 0)
	}
}

func (e *UIParticle) updateMaterialProperties(r ParticleRenderer, slot int) {
	if len(e.animatableProperties) == 0 || e.target.MaterialCount() <= slot {
		return
	}

	r.GetPropertyBlock(&e.block)
	if e.block.IsEmpty() {
		return
	}
	defer e.block.Clear()

	mat := e.target.Material(slot)
	if mat == nil {
		return
	}
	for _, name := range e.animatableProperties {
		if !mat.HasProperty(name) {
			continue
		}
		if v, ok := e.block.Get(name); ok {
			mat.SetVector(name, v)
		}
	}
}

func (e *UIParticle) collectGarbage() {
	e.prevMask = append(e.prevMask, e.maskMaterials...)
	clear(e.maskMaterials)
	e.maskMaterials = e.maskMaterials[:0]

	e.prevModified = append(e.prevModified, e.modifiedMaterials...)
	clear(e.modifiedMaterials)
	e.modifiedMaterials = e.modifiedMaterials[:0]
}

func (e *UIParticle) purgeGarbage() {
	for _, m := range e.prevMask {
		e.cache.RemoveMasked(m)
	}
	clear(e.prevMask)
	e.prevMask = e.prevMask[:0]

	for _, m := range e.prevModified {
		e.cache.RemoveTextured(m)
	}
	clear(e.prevModified)
	e.prevModified = e.prevModified[:0]
}

// resolveCamera prefers the canvas camera and falls back to the editor view.
func (e *UIParticle) resolveCamera() *core.Camera {
	if e.canvas == nil {
		return nil
	}
	if cam := e.canvas.WorldCamera(); cam != nil {
		return cam
	}
	return e.canvas.EditorCamera()
}
