package gfx

import (
	"fmt"
	"image"
)

// Texture is an owning handle to a GPU texture. Each texture remembers the
// sampler unit it is normally bound to, so a program only needs to be told
// the unit once.
type Texture struct {
	dev  Device
	id   uint32
	kind TextureKind
	desc TextureDesc
	unit int
}

// NewTexture2D allocates a blank 2D texture.
func NewTexture2D(dev Device, unit int, desc TextureDesc) *Texture {
	return &Texture{
		dev:  dev,
		id:   dev.CreateTexture2D(desc),
		kind: Texture2D,
		desc: desc,
		unit: unit,
	}
}

// NewCubemap uploads six RGBA faces in +X, -X, +Y, -Y, +Z, -Z order.
func NewCubemap(dev Device, unit int, name string, faces [6]*image.RGBA) (*Texture, error) {
	for i, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("cubemap %q: face %d is nil", name, i)
		}
	}
	id, err := dev.CreateCubemap(name, faces)
	if err != nil {
		return nil, fmt.Errorf("cubemap %q: %w", name, err)
	}
	b := faces[0].Bounds()
	return &Texture{
		dev:  dev,
		id:   id,
		kind: TextureCube,
		desc: TextureDesc{Name: name, Width: b.Dx(), Height: b.Dy(), Format: FormatRGBA8, Linear: true},
		unit: unit,
	}, nil
}

func (t *Texture) ID() uint32        { return t.id }
func (t *Texture) Kind() TextureKind { return t.kind }
func (t *Texture) Format() Format    { return t.desc.Format }
func (t *Texture) Name() string      { return t.desc.Name }
func (t *Texture) Unit() int         { return t.unit }

// Size returns the texture dimensions in texels.
func (t *Texture) Size() (int, int) { return t.desc.Width, t.desc.Height }

// Bind binds the texture to its own sampler unit.
func (t *Texture) Bind() { t.BindTo(t.unit) }

// Unbind clears the texture's own sampler unit.
func (t *Texture) Unbind() { t.UnbindFrom(t.unit) }

// BindTo binds the texture to an explicit sampler unit.
func (t *Texture) BindTo(unit int) { t.dev.BindTexture(unit, t.kind, t.id) }

// UnbindFrom clears an explicit sampler unit.
func (t *Texture) UnbindFrom(unit int) { t.dev.BindTexture(unit, t.kind, 0) }

// Release deletes the GPU texture. Only the owner may call it.
func (t *Texture) Release() {
	if t.id != 0 {
		t.dev.DeleteTexture(t.id)
		t.id = 0
	}
}

func (t *Texture) String() string {
	return fmt.Sprintf("%s(%d %dx%d %s unit=%d)", t.desc.Name, t.id, t.desc.Width, t.desc.Height, t.desc.Format, t.unit)
}
