package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ImageCache keeps decoded pages in memory, keyed by the path they were loaded
// from.
//
// A form is usually inspected many times (detect boxes, classify each, read
// labels), so the page is decoded once and then served from memory until it is
// evicted.
//
// The same file reached through two different path strings is cached twice.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cachedImage
}

type cachedImage struct {
	img    image.Image
	format string
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]cachedImage),
	}
}

// Load returns the decoded page at path, reading the file on first use.
//
// PNG, JPEG, GIF, BMP and TIFF are supported; the format is detected from the
// file contents, not its extension.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return entry, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	entry = cachedImage{img: img, format: format}

	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Len returns the number of cached pages.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every cached page.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict drops the page loaded from path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// ImageInfo describes a loaded page.
type ImageInfo struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Format is the decoder that read the file: "png", "jpeg", "gif", "bmp"
	// or "tiff".
	Format string `json:"format"`

	// ColorModel names the in-memory pixel layout, e.g. "gray", "rgba" or
	// "ycbcr".
	ColorModel string `json:"color_model"`

	// HasAlpha is true when the page has at least one pixel that is not
	// fully opaque.
	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info loads the page at path and describes it.
func (c *ImageCache) Info(path string) (*ImageInfo, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := entry.img.Bounds()
	return &ImageInfo{
		Path:          path,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		ColorModel:    colorModelName(entry.img),
		HasAlpha:      !isOpaque(entry.img),
		FileSizeBytes: stat.Size(),
	}, nil
}

func colorModelName(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "gray"
	case *image.Gray16:
		return "gray16"
	case *image.RGBA:
		return "rgba"
	case *image.RGBA64:
		return "rgba64"
	case *image.NRGBA:
		return "nrgba"
	case *image.NRGBA64:
		return "nrgba64"
	case *image.YCbCr:
		return "ycbcr"
	case *image.CMYK:
		return "cmyk"
	case *image.Paletted:
		return "paletted"
	default:
		return "other"
	}
}

// isOpaque reports whether img is known to be fully opaque.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
