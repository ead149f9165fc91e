package gfx

import "fmt"

// Format is the fixed texel format of a texture.
type Format int

const (
	FormatRGBA16F Format = iota // HDR-range colour
	FormatRGB16F
	FormatRGBA8 // albedo + specular, LDR colour
	FormatDepth24Stencil8
	FormatDepth32F
)

var formatNames = map[Format]string{
	FormatRGBA16F:         "RGBA16F",
	FormatRGB16F:          "RGB16F",
	FormatRGBA8:           "RGBA8",
	FormatDepth24Stencil8: "Depth24Stencil8",
	FormatDepth32F:        "Depth32F",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// IsColour reports whether f holds colour data.
func (f Format) IsColour() bool {
	switch f {
	case FormatRGBA16F, FormatRGB16F, FormatRGBA8:
		return true
	}
	return false
}

// IsDepth reports whether f holds depth data (with or without stencil).
func (f Format) IsDepth() bool {
	return f == FormatDepth24Stencil8 || f == FormatDepth32F
}

// HasStencil reports whether f carries a stencil channel.
func (f Format) HasStencil() bool { return f == FormatDepth24Stencil8 }

// Slot names a framebuffer attachment point.
type Slot int

const (
	Colour0 Slot = iota
	Colour1
	Colour2
	Colour3
	Colour4
	Colour5
	Colour6
	Colour7
	Depth
	DepthStencil
)

// MaxColourSlots is the number of colour attachment points.
const MaxColourSlots = 8

func (s Slot) String() string {
	switch {
	case s.IsColour():
		return fmt.Sprintf("Colour%d", int(s))
	case s == Depth:
		return "Depth"
	case s == DepthStencil:
		return "DepthStencil"
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// IsColour reports whether s is one of the colour attachment points.
func (s Slot) IsColour() bool { return s >= Colour0 && s <= Colour7 }

// Accepts reports whether a texture of format f may be attached at s.
// Colour slots take colour formats, Depth takes any depth format and
// DepthStencil requires a format with a stencil channel.
func (s Slot) Accepts(f Format) bool {
	switch {
	case s.IsColour():
		return f.IsColour()
	case s == Depth:
		return f.IsDepth()
	case s == DepthStencil:
		return f.HasStencil()
	}
	return false
}
