package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"deferred-renderer/internal/gfx"
)

// texFormat is the (internal format, pixel format, pixel type) triple passed
// to TexImage2D.
type texFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var texFormats = map[gfx.Format]texFormat{
	gfx.FormatRGBA16F:         {gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},
	gfx.FormatRGB16F:          {gl.RGB16F, gl.RGB, gl.HALF_FLOAT},
	gfx.FormatRGBA8:           {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gfx.FormatDepth24Stencil8: {gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8},
	gfx.FormatDepth32F:        {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
}

// CreateTexture2D allocates storage for a render target texture. Depth
// textures clamp to a border depth of 1 so samples outside the map read as
// unoccluded.
func (d *Device) CreateTexture2D(desc gfx.TextureDesc) uint32 {
	f, ok := texFormats[desc.Format]
	if !ok {
		panic(fmt.Sprintf("opengl: unsupported texture format %s", desc.Format))
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal,
		int32(desc.Width), int32(desc.Height), 0, f.format, f.xtype, nil)

	filter := int32(gl.NEAREST)
	if desc.Linear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	if desc.Format.IsDepth() {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		border := [4]float32{1, 1, 1, 1}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	d.log.Debug("texture created",
		zap.String("name", desc.Name),
		zap.Uint32("id", id),
		zap.Stringer("format", desc.Format),
		zap.Int("width", desc.Width),
		zap.Int("height", desc.Height))
	return id
}

// CreateCubemap uploads six square faces of equal size in
// +X, -X, +Y, -Y, +Z, -Z order.
func (d *Device) CreateCubemap(name string, faces [6]*image.RGBA) (uint32, error) {
	size := faces[0].Bounds().Dx()
	for i, f := range faces {
		b := f.Bounds()
		if b.Dx() != size || b.Dy() != size {
			return 0, fmt.Errorf("face %d is %dx%d, want %dx%d", i, b.Dx(), b.Dy(), size, size)
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for i, f := range faces {
		pix := tightPixels(f)
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8,
			int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	d.log.Debug("cubemap uploaded", zap.String("name", name), zap.Uint32("id", id), zap.Int("size", size))
	return id, nil
}

// tightPixels returns the face pixels without row padding.
func tightPixels(img *image.RGBA) []uint8 {
	b := img.Bounds()
	row := b.Dx() * 4
	if img.Stride == row && img.Rect.Min == (image.Point{}) {
		return img.Pix[:row*b.Dy()]
	}
	out := make([]uint8, 0, row*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+row]...)
	}
	return out
}

func (d *Device) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (d *Device) BindTexture(unit int, kind gfx.TextureKind, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if kind == gfx.TextureCube {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
}
