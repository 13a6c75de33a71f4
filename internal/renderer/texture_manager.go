package renderer

import (
	"GopherViewer/internal/logger"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	DefaultDiffuseName = "default:diffuse"
	DefaultNormalName  = "default:normal"

	defaultTextureSize = 256
	defaultNoiseSeed   = 1337
)

// TextureManager caches textures by path or name and reference counts them,
// so the three viewer models share their default textures.
type TextureManager struct {
	textureCache    map[string]uint32
	textureRefCount map[uint32]int
	texturePaths    map[uint32]string
	maxSize         int
	deleteTexture   func(id uint32)
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
		deleteTexture:   glDeleteTexture,
	}
}

func glDeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

// LoadTexture loads an image file into a mipmapped texture, or returns the
// cached id and adds a reference.
func (tm *TextureManager) LoadTexture(filePath string) (uint32, error) {
	if id, ok := tm.acquire(filePath); ok {
		return id, nil
	}

	imgFile, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("opening texture: %w", err)
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", filePath, err)
	}

	rgba := ToRGBA(ScaleToFit(img, tm.maxTextureSize()))
	id := uploadRGBA(rgba, gl.REPEAT)
	tm.store(filePath, id)

	logger.Log.Info("Texture loaded",
		zap.String("path", filePath),
		zap.Uint32("textureID", id),
		zap.Int("width", rgba.Rect.Dx()),
		zap.Int("height", rgba.Rect.Dy()))
	return id, nil
}

// DefaultDiffuse is a procedural stone-like texture used when a model has
// no diffuse map.
func (tm *TextureManager) DefaultDiffuse() uint32 {
	return tm.fromImage(DefaultDiffuseName, func() image.Image {
		return NoiseImage(defaultTextureSize, defaultNoiseSeed)
	})
}

// DefaultNormal is a flat tangent-space normal map.
func (tm *TextureManager) DefaultNormal() uint32 {
	return tm.fromImage(DefaultNormalName, func() image.Image {
		return FlatNormalImage(4)
	})
}

func (tm *TextureManager) fromImage(name string, build func() image.Image) uint32 {
	if id, ok := tm.acquire(name); ok {
		return id
	}
	id := uploadRGBA(ToRGBA(build()), gl.REPEAT)
	tm.store(name, id)
	logger.Log.Debug("Texture created from image", zap.String("name", name), zap.Uint32("textureID", id))
	return id
}

func (tm *TextureManager) acquire(key string) (uint32, bool) {
	id, ok := tm.textureCache[key]
	if ok {
		tm.textureRefCount[id]++
	}
	return id, ok
}

func (tm *TextureManager) store(key string, id uint32) {
	tm.textureCache[key] = id
	tm.textureRefCount[id] = 1
	tm.texturePaths[id] = key
}

// ReleaseTexture drops a reference and deletes the texture with the last one.
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}
	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture", zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	if refCount > 0 {
		tm.textureRefCount[textureID] = refCount
		return
	}
	tm.deleteTexture(textureID)
	path := tm.texturePaths[textureID]
	// A forgotten path may already be cached again under a newer id.
	if tm.textureCache[path] == textureID {
		delete(tm.textureCache, path)
	}
	delete(tm.textureRefCount, textureID)
	delete(tm.texturePaths, textureID)
	logger.Log.Debug("Texture freed", zap.Uint32("textureID", textureID), zap.String("path", path))
}

// Forget drops a cached path so the next LoadTexture reads the file again.
// Existing holders keep their texture until they release it.
func (tm *TextureManager) Forget(filePath string) {
	delete(tm.textureCache, filePath)
}

func (tm *TextureManager) Clear() {
	for textureID := range tm.textureRefCount {
		tm.deleteTexture(textureID)
	}
	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.texturePaths = make(map[uint32]string)
}

func (tm *TextureManager) maxTextureSize() int {
	if tm.maxSize == 0 {
		var size int32
		gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &size)
		tm.maxSize = int(size)
	}
	return tm.maxSize
}

func uploadRGBA(rgba *image.RGBA, wrap int32) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return textureID
}

// ScaleToFit shrinks img so neither side exceeds maxSize, keeping the
// aspect ratio. Images that already fit are returned unchanged.
func ScaleToFit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	scale := float64(maxSize) / math.Max(float64(w), float64(h))
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToRGBA returns img as a tightly packed RGBA image anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// NoiseImage renders tileable-looking grey noise in [0.75, 1] brightness.
func NoiseImage(size int, seed int64) *image.RGBA {
	p := perlin.NewPerlin(2, 2, 3, seed)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	freq := 8 / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := p.Noise2D(float64(x)*freq, float64(y)*freq)
			v := 0.875 + 0.125*math.Max(-1, math.Min(1, n*1.5))
			c := uint8(math.Round(v * 255))
			img.SetRGBA(x, y, color.RGBA{c, c, c, 255})
		}
	}
	return img
}

// FlatNormalImage encodes the tangent-space normal (0,0,1).
func FlatNormalImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{128, 128, 255, 255}}, image.Point{}, draw.Src)
	return img
}
