// Package textures loads and generates the CPU-side images the renderer
// uploads: skybox faces from disk or a procedural gradient sky.
package textures

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FaceNames are the cubemap face base names in upload order:
// +X, -X, +Y, -Y, +Z, -Z.
var FaceNames = [6]string{"right", "left", "top", "bottom", "front", "back"}

var faceExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".webp"}

// Cache keeps decoded images by path.
type Cache struct {
	log    *zap.Logger
	mu     sync.RWMutex
	images map[string]*image.RGBA
}

// NewCache creates an empty image cache.
func NewCache(log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		log:    log,
		images: make(map[string]*image.RGBA),
	}
}

// Load decodes the image at path, returning the cached copy if available.
func (c *Cache) Load(path string) (*image.RGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := loadImageFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	c.log.Debug("image loaded", zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear drops every cached image.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images = make(map[string]*image.RGBA)
}

// LoadCubemap reads the six faces named by FaceNames from dir, trying each
// supported extension, and resamples them to size×size. size <= 0 keeps
// the size of the first face.
func (c *Cache) LoadCubemap(dir string, size int) ([6]*image.RGBA, error) {
	var faces [6]*image.RGBA
	for i, name := range FaceNames {
		path, err := findFace(dir, name)
		if err != nil {
			return faces, err
		}
		img, err := c.Load(path)
		if err != nil {
			return faces, err
		}
		if size <= 0 {
			size = img.Bounds().Dx()
		}
		faces[i] = Resize(img, size)
	}
	return faces, nil
}

func findFace(dir, name string) (string, error) {
	for _, ext := range faceExts {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("cubemap face %q not found in %s", name, dir)
}

// Resize returns img scaled to size×size, or img itself when it already
// has that size.
func Resize(img *image.RGBA, size int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size && b.Min == (image.Point{}) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// loadImageFile reads an image file and converts it to RGBA.
func loadImageFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// Sky holds the three gradient colours of a procedural sky.
type Sky struct {
	Zenith  mgl32.Vec3
	Horizon mgl32.Vec3
	Ground  mgl32.Vec3
}

// GradientCubemap renders a size×size gradient sky into six faces.
// Above the horizon it blends horizon to zenith with a power curve; below
// it fades quickly to ground.
func GradientCubemap(sky Sky, size int) [6]*image.RGBA {
	var faces [6]*image.RGBA
	for f := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				// Texel centre in [-1, 1]
				u := 2*(float32(x)+0.5)/float32(size) - 1
				v := 2*(float32(y)+0.5)/float32(size) - 1
				dir := faceDirection(f, u, v)
				img.SetRGBA(x, y, toRGBA(sky.At(dir)))
			}
		}
		faces[f] = img
	}
	return faces
}

// At returns the sky colour seen along dir.
func (s Sky) At(dir mgl32.Vec3) mgl32.Vec3 {
	t := dir.Normalize().Y()
	if t >= 0 {
		return lerp(s.Horizon, s.Zenith, math32.Pow(t, 0.4))
	}
	return lerp(s.Horizon, s.Ground, math32.Min(-t*3, 1))
}

// faceDirection maps face-local coordinates to a world direction using the
// OpenGL cubemap face orientation.
func faceDirection(face int, u, v float32) mgl32.Vec3 {
	switch face {
	case 0: // +X
		return mgl32.Vec3{1, -v, -u}
	case 1: // -X
		return mgl32.Vec3{-1, -v, u}
	case 2: // +Y
		return mgl32.Vec3{u, 1, v}
	case 3: // -Y
		return mgl32.Vec3{u, -1, -v}
	case 4: // +Z
		return mgl32.Vec3{u, -v, 1}
	default: // -Z
		return mgl32.Vec3{-u, -v, -1}
	}
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	ch := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: 255}
}
