package imaging

import (
	"os"
	"sync"
	"time"

	"github.com/ironsheep/pixpack/internal/codec"
)

// GridCache provides thread-safe caching of loaded carriers to avoid redundant
// disk reads.
//
// The cache stores decoded grids keyed by their file path, together with the
// file's size and modification time. Load() stats the file and returns the
// cached grid only while both still match, so a carrier rewritten by another
// process is decoded again. Callers must treat cached grids as read-only.
//
// GridCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached grids remain in memory until explicitly removed via Evict() or Clear().
// Carriers are uncompressed in memory at four bytes per pixel, roughly the
// size of their payload.
//
// # Example Usage
//
//	cache := imaging.NewGridCache()
//	grid, err := cache.Load("/path/to/carrier.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := codec.Unpack(grid)
type GridCache struct {
	mu    sync.RWMutex
	grids map[string]cachedGrid
}

type cachedGrid struct {
	grid    *Grid
	size    int64
	modTime time.Time
}

func (e cachedGrid) matches(fi os.FileInfo) bool {
	return e.size == fi.Size() && e.modTime.Equal(fi.ModTime())
}

// NewGridCache creates and initializes a new empty carrier cache.
func NewGridCache() *GridCache {
	return &GridCache{
		grids: make(map[string]cachedGrid),
	}
}

// Load retrieves a carrier from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to a PNG or TIFF carrier.
//
// Returns:
//   - *Grid: The decoded grid. Grid.Format reports the container.
//   - error: *IOError if the file cannot be read or decoded, ErrLossyFormat for
//     JPEG or GIF files.
//
// The grid is cached using the exact path string provided. Different paths to
// the same file will result in separate cache entries. A cached grid is
// reused only while the file's size and modification time are unchanged.
func (c *GridCache) Load(path string) (*Grid, error) {
	fi, err := os.Stat(path)
	if err != nil {
		c.Evict(path)
		return nil, &IOError{Op: "read", Target: path, Err: err}
	}

	c.mu.RLock()
	if e, ok := c.grids[path]; ok && e.matches(fi) {
		c.mu.RUnlock()
		return e.grid, nil
	}
	c.mu.RUnlock()

	g, _, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[path] = cachedGrid{grid: g, size: fi.Size(), modTime: fi.ModTime()}
	c.mu.Unlock()

	return g, nil
}

// Clear removes all grids from the cache.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]cachedGrid)
	c.mu.Unlock()
}

// Evict removes a specific grid from the cache by its path.
//
// If the path is not in the cache, this method does nothing. Callers that
// overwrite a carrier on disk should evict it so the next Load sees the new
// contents.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// CarrierInfo contains metadata about a carrier image file.
//
// It reports what the header declares without decoding the payload.
type CarrierInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected container format: "png" or "tiff".
	Format Format `json:"format"`

	// FileSizeBytes is the size of the carrier file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// DeclaredLength is the payload length stored in the header pixel.
	DeclaredLength uint32 `json:"declared_length"`

	// CapacityBytes is the largest payload the grid can hold.
	CapacityBytes int `json:"capacity_bytes"`

	// Valid is true when the declared length fits in the grid.
	Valid bool `json:"valid"`

	// Canonical is true when the grid has exactly the dimensions the sizing
	// policy picks for DeclaredLength.
	Canonical bool `json:"canonical"`
}

// LoadCarrierInfo loads a carrier and returns metadata about it.
//
// Parameters:
//   - cache: The grid cache to use for loading. Must not be nil.
//   - path: Path to the carrier file.
//
// Returns:
//   - *CarrierInfo: Metadata about the carrier.
//   - error: Non-nil if the carrier cannot be loaded or the file cannot be stat'd.
//
// A carrier whose header exceeds its capacity is reported with Valid=false
// rather than as an error, so callers can inspect damaged files.
func LoadCarrierInfo(cache *GridCache, path string) (*CarrierInfo, error) {
	g, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, &IOError{Op: "stat", Target: path, Err: err}
	}

	width, height := g.Dimensions()
	info := &CarrierInfo{
		Width:         width,
		Height:        height,
		Format:        g.Format(),
		FileSizeBytes: stat.Size(),
		CapacityBytes: codec.Capacity(width, height),
	}

	declared, err := codec.Header(g)
	if err != nil {
		return info, nil
	}
	info.DeclaredLength = declared
	info.Valid = uint64(declared) <= uint64(info.CapacityBytes)

	if layout, err := codec.Plan(int(declared)); err == nil {
		info.Canonical = layout.Width == width && layout.Height == height
	}

	return info, nil
}

// DimensionsResult contains the width and height of a carrier.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of a carrier without additional metadata.
func GetDimensions(cache *GridCache, path string) (*DimensionsResult, error) {
	g, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	width, height := g.Dimensions()
	return &DimensionsResult{
		Width:  width,
		Height: height,
	}, nil
}
