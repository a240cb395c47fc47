package core

import (
	"image"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

type Texture struct {
	ID     uuid.UUID
	Name   string
	Width  int
	Height int
	Pix    []uint8 // RGBA8, row-major
}

// NewTexture normalizes img to RGBA8.
func NewTexture(name string, img image.Image) *Texture {
	tex := &Texture{ID: uuid.New(), Name: name}
	if img == nil {
		return tex
	}
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Copy(rgba, image.Point{}, img, bounds, draw.Src, nil)
	}
	tex.Width = bounds.Dx()
	tex.Height = bounds.Dy()
	tex.Pix = rgba.Pix
	return tex
}

func (t *Texture) String() string {
	if t == nil {
		return "<nil texture>"
	}
	return t.Name
}
