package textures

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, size int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestGradientCubemap(t *testing.T) {
	sky := Sky{
		Zenith:  mgl32.Vec3{0, 0, 1},
		Horizon: mgl32.Vec3{1, 1, 1},
		Ground:  mgl32.Vec3{0, 0, 0},
	}
	faces := GradientCubemap(sky, 8)

	for i, f := range faces {
		require.NotNil(t, f, "face %d", i)
		assert.Equal(t, image.Rect(0, 0, 8, 8), f.Bounds())
	}

	// Top face is mostly zenith, bottom face ground
	top := faces[2].RGBAAt(4, 4)
	assert.Less(t, top.R, uint8(64))
	assert.Greater(t, top.B, uint8(200))
	bottom := faces[3].RGBAAt(4, 4)
	assert.Equal(t, color.RGBA{A: 255}, bottom)

	// Sky.At at the horizon
	assert.Equal(t, sky.Horizon, sky.At(mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, sky.Zenith, sky.At(mgl32.Vec3{0, 5, 0}))
}

func TestLoadCubemap(t *testing.T) {
	dir := t.TempDir()
	for _, name := range FaceNames {
		writePNG(t, filepath.Join(dir, name+".png"), 4, color.RGBA{R: 200, A: 255})
	}

	c := NewCache(nil)
	faces, err := c.LoadCubemap(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Len())
	for _, f := range faces {
		assert.Equal(t, 4, f.Bounds().Dx())
		assert.Equal(t, uint8(200), f.RGBAAt(1, 1).R)
	}

	// Resampled
	faces, err = c.LoadCubemap(dir, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, faces[0].Bounds().Dx())
	assert.Equal(t, 6, c.Len(), "cached images reused")

	// Cache hit returns the same image
	a, err := c.Load(filepath.Join(dir, "top.png"))
	require.NoError(t, err)
	b, err := c.Load(filepath.Join(dir, "top.png"))
	require.NoError(t, err)
	assert.Same(t, a, b)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestLoadCubemapMissingFace(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "right.png"), 4, color.RGBA{A: 255})

	_, err := NewCache(nil).LoadCubemap(dir, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"left"`)
}

func TestResize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, img, Resize(img, 4))
	assert.Equal(t, 2, Resize(img, 2).Bounds().Dx())
}
