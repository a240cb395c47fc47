package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type CompareFunction int

const (
	CompareDisabled CompareFunction = iota
	CompareNever
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrementSaturate
	StencilDecrementSaturate
	StencilInvert
	StencilIncrementWrap
	StencilDecrementWrap
)

type ColorWriteMask int

const (
	ColorWriteAlpha ColorWriteMask = 1 << iota
	ColorWriteBlue
	ColorWriteGreen
	ColorWriteRed

	ColorWriteAll = ColorWriteAlpha | ColorWriteBlue | ColorWriteGreen | ColorWriteRed
)

// Stencil is the fixed-function stencil state a masked material carries.
type Stencil struct {
	Ref       int
	Op        StencilOp
	Compare   CompareFunction
	ColorMask ColorWriteMask
	ReadMask  int
	WriteMask int
}

// Material is a shader plus its parameters. Derived variants are clones
// with their own ID; the base is never mutated by the variant caches.
type Material struct {
	ID          uuid.UUID
	Name        string
	Shader      string
	MainTexture *Texture
	Stencil     Stencil
	Properties  map[string]mgl32.Vec4

	destroyed bool
}

func NewMaterial(name, shader string) *Material {
	return &Material{
		ID:         uuid.New(),
		Name:       name,
		Shader:     shader,
		Stencil:    Stencil{Compare: CompareAlways, ColorMask: ColorWriteAll, ReadMask: 255, WriteMask: 255},
		Properties: make(map[string]mgl32.Vec4),
	}
}

// Clone copies m under a new identity.
func (m *Material) Clone(name string) *Material {
	c := &Material{
		ID:          uuid.New(),
		Name:        name,
		Shader:      m.Shader,
		MainTexture: m.MainTexture,
		Stencil:     m.Stencil,
		Properties:  make(map[string]mgl32.Vec4, len(m.Properties)),
	}
	for k, v := range m.Properties {
		c.Properties[k] = v
	}
	return c
}

func (m *Material) SetFloat(name string, v float32) {
	m.SetVector(name, mgl32.Vec4{v, 0, 0, 0})
}

func (m *Material) SetVector(name string, v mgl32.Vec4) {
	if m.Properties == nil {
		m.Properties = make(map[string]mgl32.Vec4)
	}
	m.Properties[name] = v
}

func (m *Material) GetVector(name string) (mgl32.Vec4, bool) {
	v, ok := m.Properties[name]
	return v, ok
}

func (m *Material) HasProperty(name string) bool {
	_, ok := m.Properties[name]
	return ok
}

// Destroy releases the material. Using it afterwards is a bug the caller owns.
func (m *Material) Destroy() {
	m.destroyed = true
	m.MainTexture = nil
	m.Properties = nil
}

func (m *Material) Destroyed() bool {
	return m.destroyed
}

func (m *Material) String() string {
	if m == nil {
		return "<nil material>"
	}
	return fmt.Sprintf("%s(%s)", m.Name, m.ID.String()[:8])
}

// PropertyBlock carries per-renderer overrides, typically animated values.
type PropertyBlock struct {
	values map[string]mgl32.Vec4
}

func (b *PropertyBlock) Set(name string, v mgl32.Vec4) {
	if b.values == nil {
		b.values = make(map[string]mgl32.Vec4)
	}
	b.values[name] = v
}

func (b *PropertyBlock) Get(name string) (mgl32.Vec4, bool) {
	v, ok := b.values[name]
	return v, ok
}

func (b *PropertyBlock) IsEmpty() bool {
	return len(b.values) == 0
}

func (b *PropertyBlock) Clear() {
	for k := range b.values {
		delete(b.values, k)
	}
}

// CopyTo writes every value in b into dst.
func (b *PropertyBlock) CopyTo(dst *PropertyBlock) {
	for k, v := range b.values {
		dst.Set(k, v)
	}
}
