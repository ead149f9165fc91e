package lights

import (
	"fmt"
	"iter"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// CountUniform is the vec3 uniform holding (directional, point, spot) counts.
const CountUniform = "LightCount"

// Counts is the number of packed lights per variant.
type Counts struct {
	Directional int
	Point       int
	Spot        int
}

// Vec3 returns the counts in the layout of the LightCount uniform.
func (c Counts) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.Directional), float32(c.Point), float32(c.Spot)}
}

func (c Counts) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.Directional, c.Point, c.Spot)
}

// Registry is the ordered set of lights fed to the lighting shader. It owns
// the lights added to it until they are removed.
type Registry struct {
	log    *zap.Logger
	lights []Light
}

// NewRegistry returns an empty registry. A nil logger discards output.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log}
}

// Add appends l. Nil lights are ignored.
func (r *Registry) Add(l Light) {
	if l == nil {
		return
	}
	r.lights = append(r.lights, l)
	if c := r.Counts(); c.Directional > MaxDirectional || c.Point > MaxPoint || c.Spot > MaxSpot {
		r.log.Warn("light count exceeds shader capacity",
			zap.Stringer("kind", l.Kind()),
			zap.Stringer("counts", c))
	}
}

// Remove takes l out of the registry and hands it back to the caller. It
// reports false, leaving the registry unchanged, when l is not registered.
func (r *Registry) Remove(l Light) bool {
	i := slices.Index(r.lights, l)
	if i < 0 || l == nil {
		return false
	}
	r.lights = slices.Delete(r.lights, i, i+1)
	return true
}

// Len returns the number of registered lights.
func (r *Registry) Len() int { return len(r.lights) }

// All yields the lights in registration order.
func (r *Registry) All() iter.Seq[Light] { return slices.Values(r.lights) }

// Clear removes every light.
func (r *Registry) Clear() { r.lights = nil }

// Counts returns the number of registered lights per variant.
func (r *Registry) Counts() Counts {
	var c Counts
	for _, l := range r.lights {
		switch l.(type) {
		case *Directional:
			c.Directional++
		case *Point:
			c.Point++
		case *Spot:
			c.Spot++
		}
	}
	return c
}

// PackAll writes every light into dst. Each variant gets its own running
// index starting at 0, so the uniform arrays are dense. The count vector is
// written last. A light of an unknown variant is logged and skipped.
func (r *Registry) PackAll(dst UniformSink) Counts {
	var c Counts
	for _, l := range r.lights {
		switch v := l.(type) {
		case *Directional:
			v.pack(c.Directional, dst)
			c.Directional++
		case *Point:
			v.pack(c.Point, dst)
			c.Point++
		case *Spot:
			v.pack(c.Spot, dst)
			c.Spot++
		default:
			r.log.Warn("skipping light of unknown variant",
				zap.String("type", fmt.Sprintf("%T", l)))
		}
	}
	dst.SetVec3(CountUniform, c.Vec3())
	return c
}
