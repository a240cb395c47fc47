package core

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMaterialClone(t *testing.T) {
	base := NewMaterial("base", "ui")
	base.SetFloat("_Alpha", 0.5)
	base.MainTexture = NewTexture("tex", nil)

	c := base.Clone("variant")
	if c.ID == base.ID {
		t.Fatal("clone shares the base ID")
	}
	if c.MainTexture != base.MainTexture || c.Stencil != base.Stencil || c.Shader != base.Shader {
		t.Errorf("clone lost state: %+v", c)
	}

	c.SetVector("_Alpha", mgl32.Vec4{1, 0, 0, 0})
	if v, _ := base.GetVector("_Alpha"); v.X() != 0.5 {
		t.Errorf("clone writes leaked into base: %v", v)
	}

	c.Destroy()
	if !c.Destroyed() || base.Destroyed() {
		t.Error("Destroy must only affect the clone")
	}
	if c.HasProperty("_Alpha") {
		t.Error("destroyed material keeps properties")
	}
}

func TestPropertyBlock(t *testing.T) {
	var b PropertyBlock
	if !b.IsEmpty() {
		t.Fatal("zero block should be empty")
	}
	b.Set("_Color", mgl32.Vec4{1, 2, 3, 4})

	var dst PropertyBlock
	b.CopyTo(&dst)
	if v, ok := dst.Get("_Color"); !ok || v != (mgl32.Vec4{1, 2, 3, 4}) {
		t.Errorf("copied value = %v, %v", v, ok)
	}
	b.Clear()
	if !b.IsEmpty() || dst.IsEmpty() {
		t.Error("Clear must only affect the receiver")
	}
}

func TestNewTextureNormalizesToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 3, 6, 5))
	src.Set(2, 3, color.NRGBA{R: 255, A: 255})

	tex := NewTexture("sheet", src)
	if tex.Width != 4 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", tex.Width, tex.Height)
	}
	if len(tex.Pix) != 4*2*4 {
		t.Fatalf("pix length = %d", len(tex.Pix))
	}
	if tex.Pix[0] != 255 || tex.Pix[3] != 255 {
		t.Errorf("first pixel = %v, want opaque red", tex.Pix[:4])
	}

	if empty := NewTexture("none", nil); empty.Width != 0 || empty.Pix != nil {
		t.Errorf("nil image texture = %+v", empty)
	}
}
