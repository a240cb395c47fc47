package uiparticle

import (
	"fmt"

	"github.com/gekko3d/uiparticle/core"
	"github.com/google/uuid"
)

type maskKey struct {
	base    uuid.UUID
	stencil core.Stencil
}

type textureKey struct {
	base    uuid.UUID
	texture uuid.UUID
	owner   uuid.UUID
}

type variantEntry[K comparable] struct {
	key      K
	material *core.Material
	count    int
}

// variantPool is one content-addressed, reference-counted namespace.
type variantPool[K comparable] struct {
	byKey   map[K]*variantEntry[K]
	byMat   map[*core.Material]*variantEntry[K]
	created int
}

func newVariantPool[K comparable]() *variantPool[K] {
	return &variantPool[K]{
		byKey: make(map[K]*variantEntry[K]),
		byMat: make(map[*core.Material]*variantEntry[K]),
	}
}

func (p *variantPool[K]) acquire(key K, build func() *core.Material) *core.Material {
	if e, ok := p.byKey[key]; ok {
		e.count++
		return e.material
	}
	m := build()
	e := &variantEntry[K]{key: key, material: m, count: 1}
	p.byKey[key] = e
	p.byMat[m] = e
	p.created++
	return m
}

// release returns false when m is not tracked by this pool.
func (p *variantPool[K]) release(m *core.Material) bool {
	e, ok := p.byMat[m]
	if !ok {
		return false
	}
	e.count--
	if e.count > 0 {
		return true
	}
	delete(p.byKey, e.key)
	delete(p.byMat, m)
	m.Destroy()
	return true
}

func (p *variantPool[K]) refCount(m *core.Material) int {
	if e, ok := p.byMat[m]; ok {
		return e.count
	}
	return 0
}

// VariantCache derives masked and texture-override materials from base
// materials. Identical parameters share one instance; the last Remove
// destroys it. Not safe for concurrent use.
type VariantCache struct {
	masked   *variantPool[maskKey]
	textured *variantPool[textureKey]
	strict   bool
	logger   Logger
}

// NewVariantCache creates an empty cache. With strict set, releasing an
// untracked or already-destroyed variant panics instead of logging.
func NewVariantCache(strict bool, logger Logger) *VariantCache {
	return &VariantCache{
		masked:   newVariantPool[maskKey](),
		textured: newVariantPool[textureKey](),
		strict:   strict,
		logger:   orNop(logger),
	}
}

// MaxStencilDepth is the deepest mask nesting an 8-bit stencil buffer holds.
const MaxStencilDepth = 8

// MaskStencil is the stencil state for content nested stencilDepth masks
// deep: compare-equal against all enclosing mask bits, never write. Depths
// beyond MaxStencilDepth are clamped.
func MaskStencil(stencilDepth int) core.Stencil {
	stencilDepth = min(max(stencilDepth, 0), MaxStencilDepth)
	id := (1 << stencilDepth) - 1
	return core.Stencil{
		Ref:       id,
		Op:        core.StencilKeep,
		Compare:   core.CompareEqual,
		ColorMask: core.ColorWriteAll,
		ReadMask:  id,
		WriteMask: 0,
	}
}

// AddMasked returns the masked variant of base for stencilDepth. A depth of
// zero or less needs no mask: base is returned and nothing is acquired.
func (c *VariantCache) AddMasked(base *core.Material, stencilDepth int) *core.Material {
	if base == nil || stencilDepth <= 0 {
		return base
	}
	return c.AddStencil(base, MaskStencil(stencilDepth))
}

// AddStencil returns the variant of base carrying stencil.
func (c *VariantCache) AddStencil(base *core.Material, stencil core.Stencil) *core.Material {
	if base == nil {
		return nil
	}
	key := maskKey{base: base.ID, stencil: stencil}
	return c.masked.acquire(key, func() *core.Material {
		m := base.Clone(fmt.Sprintf("Stencil Id:%d, Op:%d, Comp:%d, WriteMask:%d, ReadMask:%d, ColorMask:%d (%s)",
			stencil.Ref, stencil.Op, stencil.Compare, stencil.WriteMask, stencil.ReadMask, stencil.ColorMask, base.Name))
		m.Stencil = stencil
		c.logger.Debugf("created masked variant %s", m)
		return m
	})
}

// AddTextured returns the variant of base with its main texture replaced by
// texture. A non-nil owner keys a private variant for that owner, used when
// the owner animates properties on it.
func (c *VariantCache) AddTextured(base *core.Material, texture *core.Texture, owner uuid.UUID) *core.Material {
	if base == nil {
		return nil
	}
	key := textureKey{base: base.ID, owner: owner}
	if texture != nil {
		key.texture = texture.ID
	}
	return c.textured.acquire(key, func() *core.Material {
		m := base.Clone(fmt.Sprintf("%s (Modified)", base.Name))
		if texture != nil {
			m.MainTexture = texture
		}
		c.logger.Debugf("created textured variant %s", m)
		return m
	})
}

func (c *VariantCache) RemoveMasked(m *core.Material) {
	if m == nil {
		return
	}
	if !c.masked.release(m) {
		c.violation("RemoveMasked", m)
	}
}

func (c *VariantCache) RemoveTextured(m *core.Material) {
	if m == nil {
		return
	}
	if !c.textured.release(m) {
		c.violation("RemoveTextured", m)
	}
}

func (c *VariantCache) violation(op string, m *core.Material) {
	msg := fmt.Sprintf("%s: material %s is not a live variant", op, m)
	if c.strict {
		panic(msg)
	}
	c.logger.Warnf("%s", msg)
}

// RefCount reports the live references to variant m in either namespace.
func (c *VariantCache) RefCount(m *core.Material) int {
	return c.masked.refCount(m) + c.textured.refCount(m)
}

func (c *VariantCache) MaskedLen() int {
	return len(c.masked.byKey)
}

func (c *VariantCache) TexturedLen() int {
	return len(c.textured.byKey)
}

// Created is the number of variants ever built, in both namespaces.
func (c *VariantCache) Created() int {
	return c.masked.created + c.textured.created
}
