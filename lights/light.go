// Package lights holds the light model of the deferred lighting pass: the
// three light variants and the ordered registry that packs them into shader
// uniform arrays.
package lights

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind tags a light variant.
type Kind int

const (
	KindDirectional Kind = iota
	KindPoint
	KindSpot
)

func (k Kind) String() string {
	switch k {
	case KindDirectional:
		return "directional"
	case KindPoint:
		return "point"
	case KindSpot:
		return "spot"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Array sizes declared by the lighting shader. Lights past these are still
// counted but the shader ignores them.
const (
	MaxDirectional = 4
	MaxPoint       = 32
	MaxSpot        = 8
)

// UniformSink receives packed light uniforms. *gfx.Program implements it.
type UniformSink interface {
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
}

// Light is one of *Directional, *Point or *Spot. The set is closed: the
// unexported method keeps other packages from adding variants.
type Light interface {
	Kind() Kind
	pack(index int, dst UniformSink)
}

// Directional is a light at infinity shining along Direction.
type Directional struct {
	Colour    mgl32.Vec3
	Direction mgl32.Vec3
}

func (*Directional) Kind() Kind { return KindDirectional }

func (l *Directional) pack(i int, dst UniformSink) {
	p := fmt.Sprintf("dirLights[%d].", i)
	dst.SetVec3(p+"Direction", l.Direction)
	dst.SetVec3(p+"Colour", l.Colour)
}

// Point is an omnidirectional light with attenuation
// 1 / (1 + Linear*d + Quadratic*d²).
type Point struct {
	Colour    mgl32.Vec3
	Position  mgl32.Vec3
	Linear    float32
	Quadratic float32
}

func (*Point) Kind() Kind { return KindPoint }

func (l *Point) pack(i int, dst UniformSink) {
	p := fmt.Sprintf("pointLights[%d].", i)
	dst.SetVec3(p+"Position", l.Position)
	dst.SetVec3(p+"Colour", l.Colour)
	dst.SetFloat(p+"Linear", l.Linear)
	dst.SetFloat(p+"Quadratic", l.Quadratic)
}

// Spot is a cone light. Cut-offs are half-angles in degrees; the shader
// receives their cosines and fades between inner and outer.
type Spot struct {
	Colour      mgl32.Vec3
	Position    mgl32.Vec3
	Direction   mgl32.Vec3
	InnerCutOff float32
	OuterCutOff float32
	Linear      float32
	Quadratic   float32
}

func (*Spot) Kind() Kind { return KindSpot }

// Follow moves the light to position and points it along direction.
func (l *Spot) Follow(position, direction mgl32.Vec3) {
	l.Position = position
	l.Direction = direction
}

func (l *Spot) pack(i int, dst UniformSink) {
	p := fmt.Sprintf("spotLights[%d].", i)
	dst.SetVec3(p+"Position", l.Position)
	dst.SetVec3(p+"Direction", l.Direction)
	dst.SetVec3(p+"Colour", l.Colour)
	dst.SetFloat(p+"InnerCutOff", cosDeg(l.InnerCutOff))
	dst.SetFloat(p+"OuterCutOff", cosDeg(l.OuterCutOff))
	dst.SetFloat(p+"Linear", l.Linear)
	dst.SetFloat(p+"Quadratic", l.Quadratic)
}

// cosDeg converts an angle in degrees to its cosine.
func cosDeg(deg float32) float32 {
	return math32.Cos(mgl32.DegToRad(deg))
}
