package imaging

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

// HandlePrefix marks cache keys that name in-memory bitmaps rather than files.
const HandlePrefix = "capture://"

// ErrUnknownHandle is returned when a handle key is not in the cache.
var ErrUnknownHandle = errors.New("unknown bitmap handle")

// BitmapCache provides thread-safe caching of decoded bitmaps.
//
// Keys are either file paths, loaded on first use, or handles for bitmaps that
// only exist in memory (screen captures and crops). Handles are generated as
// "capture://N" unless the caller supplies a key.
//
// Cached bitmaps stay in memory until removed with Evict or Clear.
type BitmapCache struct {
	mu      sync.RWMutex
	bitmaps map[string]*bitmap.Bitmap
	next    uint64
}

// NewBitmapCache creates an empty cache.
func NewBitmapCache() *BitmapCache {
	return &BitmapCache{
		bitmaps: make(map[string]*bitmap.Bitmap),
	}
}

// Load returns the bitmap stored under key, decoding it from disk at scale 1 when
// key is a path that has not been loaded yet.
func (c *BitmapCache) Load(key string) (*bitmap.Bitmap, error) {
	c.mu.RLock()
	if bm, ok := c.bitmaps[key]; ok {
		c.mu.RUnlock()
		return bm, nil
	}
	c.mu.RUnlock()

	if IsHandle(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, key)
	}

	bm, err := bitmap.Open(key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bitmaps[key] = bm
	c.mu.Unlock()

	return bm, nil
}

// Open decodes path from disk at the given scale and replaces any cached entry.
func (c *BitmapCache) Open(path string, scale float64) (*bitmap.Bitmap, error) {
	if IsHandle(path) {
		return nil, fmt.Errorf("%w: %s is not a file", bitmap.ErrIO, path)
	}
	bm, err := bitmap.Open(path)
	if err != nil {
		return nil, err
	}
	if scale != bm.Scale() {
		bm = bitmap.FromBuffer(bitmap.NewPixelBuffer(bm.Image(), scale))
	}

	c.mu.Lock()
	c.bitmaps[path] = bm
	c.mu.Unlock()

	return bm, nil
}

// Put stores bm under key and returns the key. An empty key allocates a new handle.
func (c *BitmapCache) Put(key string, bm *bitmap.Bitmap) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "" {
		c.next++
		key = HandlePrefix + strconv.FormatUint(c.next, 10)
	}
	c.bitmaps[key] = bm
	return key
}

// Clear removes all bitmaps from the cache.
func (c *BitmapCache) Clear() {
	c.mu.Lock()
	c.bitmaps = make(map[string]*bitmap.Bitmap)
	c.mu.Unlock()
}

// Evict removes one entry. Unknown keys are ignored.
func (c *BitmapCache) Evict(key string) {
	c.mu.Lock()
	delete(c.bitmaps, key)
	c.mu.Unlock()
}

// Keys returns the cached keys in sorted order.
func (c *BitmapCache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.bitmaps))
	for k := range c.bitmaps {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// IsHandle reports whether key names an in-memory bitmap.
func IsHandle(key string) bool {
	return strings.HasPrefix(key, HandlePrefix)
}

// BitmapInfo contains metadata about a cached bitmap.
type BitmapInfo struct {
	Key string `json:"key"`

	// Width and Height are in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	Scale float64 `json:"scale"`

	// LogicalWidth and LogicalHeight are in points (pixels / scale).
	LogicalWidth  float64 `json:"logical_width"`
	LogicalHeight float64 `json:"logical_height"`

	// Format is derived from the file extension; empty for handles.
	Format string `json:"format,omitempty"`

	// HasAlpha is true when at least one pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64 `json:"file_size_bytes,omitempty"`

	// Hash identifies the pixel content; equal bitmaps share it.
	Hash string `json:"hash"`
}

// LoadBitmapInfo loads key into the cache if needed and describes it.
func LoadBitmapInfo(cache *BitmapCache, key string) (*BitmapInfo, error) {
	bm, err := cache.Load(key)
	if err != nil {
		return nil, err
	}

	info := DescribeBitmap(key, bm)
	if !IsHandle(key) {
		if f, err := bitmap.FormatFromPath(key); err == nil {
			info.Format = f.String()
		}
		if stat, err := os.Stat(key); err == nil {
			info.FileSizeBytes = stat.Size()
		}
	}
	return info, nil
}

// DescribeBitmap reports the in-memory properties of bm.
func DescribeBitmap(key string, bm *bitmap.Bitmap) *BitmapInfo {
	size := bm.Size()
	hasAlpha := false
	if o, ok := bm.Image().(interface{ Opaque() bool }); ok {
		hasAlpha = !o.Opaque()
	}

	return &BitmapInfo{
		Key:           key,
		Width:         bm.Width(),
		Height:        bm.Height(),
		Scale:         bm.Scale(),
		LogicalWidth:  size.Width,
		LogicalHeight: size.Height,
		HasAlpha:      hasAlpha,
		Hash:          fmt.Sprintf("%016x", bm.Hash()),
	}
}
