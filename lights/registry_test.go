package lights

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// sink records uniforms in write order.
type sink struct {
	order  []string
	floats map[string]float32
	vecs   map[string]mgl32.Vec3
}

func newSink() *sink {
	return &sink{floats: map[string]float32{}, vecs: map[string]mgl32.Vec3{}}
}

func (s *sink) SetFloat(name string, v float32) {
	s.order = append(s.order, name)
	s.floats[name] = v
}

func (s *sink) SetVec3(name string, v mgl32.Vec3) {
	s.order = append(s.order, name)
	s.vecs[name] = v
}

// rogue satisfies Light by embedding, so it is not one of the known variants.
type rogue struct{ Light }

func TestPackAllCounts(t *testing.T) {
	r := NewRegistry(nil)
	set, _ := DefaultSet()
	for _, l := range set {
		r.Add(l)
	}

	dst := newSink()
	c := r.PackAll(dst)
	assert.Equal(t, Counts{Directional: 1, Point: 4, Spot: 1}, c)
	assert.Equal(t, mgl32.Vec3{1, 4, 1}, dst.vecs[CountUniform])

	// Count vector is written after every light
	require.NotEmpty(t, dst.order)
	assert.Equal(t, CountUniform, dst.order[len(dst.order)-1])
	assert.Equal(t, r.Counts(), c)
}

func TestPackAllDenseIndices(t *testing.T) {
	r := NewRegistry(nil)
	// Interleave variants; each gets its own index sequence from 0
	r.Add(&Point{Position: mgl32.Vec3{1, 0, 0}})
	r.Add(&Directional{Direction: mgl32.Vec3{0, -1, 0}})
	r.Add(&Point{Position: mgl32.Vec3{2, 0, 0}})
	r.Add(&Spot{Position: mgl32.Vec3{3, 0, 0}})
	r.Add(&Point{Position: mgl32.Vec3{4, 0, 0}})

	dst := newSink()
	r.PackAll(dst)

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, dst.vecs["pointLights[0].Position"])
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, dst.vecs["pointLights[1].Position"])
	assert.Equal(t, mgl32.Vec3{4, 0, 0}, dst.vecs["pointLights[2].Position"])
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, dst.vecs["dirLights[0].Direction"])
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, dst.vecs["spotLights[0].Position"])
	assert.NotContains(t, dst.vecs, "pointLights[3].Position")
	assert.NotContains(t, dst.vecs, "dirLights[1].Direction")
	assert.Equal(t, mgl32.Vec3{1, 3, 1}, dst.vecs[CountUniform])
}

func TestSpotCutOffsAsCosines(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(&Spot{InnerCutOff: 12.5, OuterCutOff: 17.5, Linear: 0.1, Quadratic: 0.8})

	dst := newSink()
	r.PackAll(dst)
	assert.InDelta(t, math32.Cos(12.5*math32.Pi/180), dst.floats["spotLights[0].InnerCutOff"], 1e-6)
	assert.InDelta(t, math32.Cos(17.5*math32.Pi/180), dst.floats["spotLights[0].OuterCutOff"], 1e-6)
	assert.Greater(t, dst.floats["spotLights[0].InnerCutOff"], dst.floats["spotLights[0].OuterCutOff"])
	assert.Equal(t, float32(0.1), dst.floats["spotLights[0].Linear"])
	assert.Equal(t, float32(0.8), dst.floats["spotLights[0].Quadratic"])
}

func TestRemove(t *testing.T) {
	r := NewRegistry(nil)
	a := &Point{Position: mgl32.Vec3{1, 0, 0}}
	b := &Point{Position: mgl32.Vec3{2, 0, 0}}
	r.Add(a)
	r.Add(b)

	// Removing a light re-densifies the indices
	require.True(t, r.Remove(a))
	assert.Equal(t, 1, r.Len())
	dst := newSink()
	r.PackAll(dst)
	assert.Equal(t, b.Position, dst.vecs["pointLights[0].Position"])
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, dst.vecs[CountUniform])

	// Not registered: no change, light untouched
	assert.False(t, r.Remove(a))
	assert.False(t, r.Remove(&Point{}))
	assert.False(t, r.Remove(nil))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, a.Position)

	// Equal value but a different light is not a match
	assert.False(t, r.Remove(&Point{Position: mgl32.Vec3{2, 0, 0}}))
	assert.Equal(t, 1, r.Len())
}

func TestUnknownVariantSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRegistry(zap.New(core))
	r.Add(&Directional{})
	r.Add(rogue{Light: &Point{}})
	r.Add(&Spot{})

	dst := newSink()
	c := r.PackAll(dst)
	assert.Equal(t, Counts{Directional: 1, Spot: 1}, c)
	assert.NotContains(t, dst.vecs, "pointLights[0].Position")

	entries := logs.FilterMessage("skipping light of unknown variant").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "lights.rogue", entries[0].ContextMap()["type"])
}

func TestCapacityWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRegistry(zap.New(core))
	for range MaxDirectional {
		r.Add(&Directional{})
	}
	assert.Zero(t, logs.Len())

	r.Add(&Directional{})
	assert.Equal(t, 1, logs.FilterMessage("light count exceeds shader capacity").Len())
	assert.Equal(t, MaxDirectional+1, r.Counts().Directional)
}

func TestAllAndClear(t *testing.T) {
	r := NewRegistry(nil)
	set, head := DefaultSet()
	for _, l := range set {
		r.Add(l)
	}
	r.Add(nil)
	assert.Equal(t, len(set), r.Len())

	var got []Light
	for l := range r.All() {
		got = append(got, l)
	}
	assert.Equal(t, set, got)
	assert.Contains(t, got, Light(head))

	r.Clear()
	assert.Zero(t, r.Len())
	dst := newSink()
	assert.Equal(t, Counts{}, r.PackAll(dst))
	assert.Equal(t, mgl32.Vec3{}, dst.vecs[CountUniform])
}

func TestHeadlightFollow(t *testing.T) {
	_, head := DefaultSet()
	head.Follow(mgl32.Vec3{0, 1, 5}, mgl32.Vec3{0, 0, -1})
	assert.Equal(t, mgl32.Vec3{0, 1, 5}, head.Position)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, head.Direction)
	assert.Equal(t, KindSpot, head.Kind())
	assert.Equal(t, "spot", head.Kind().String())
}
