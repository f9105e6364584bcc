package render

import (
	"fmt"
	"sync"

	"github.com/camtools/rawdng/mcraw"
)

// DefaultCapacity bounds the cache at five encoded frames, roughly the
// window a sequential consumer re-reads while stepping through a clip.
const DefaultCapacity = 5

// FrameSource is what the cache needs from a container decoder.
type FrameSource interface {
	Frames() []int64
	FrameMetadata(ts int64) (string, error)
	LoadFrame(ts int64, dst []byte, width, height int, compression int32) error
}

// Cache maps frame timestamps to encoded DNG buffers, bounded, in strict
// insertion order with FIFO eviction. A hit does not reorder entries.
//
// One mutex serializes the whole lookup-decode-encode-insert path. Two
// concurrent requests for the same uncached frame therefore queue up and
// the second one still encodes; correctness over throughput, no request
// coalescing. A failed decode or encode inserts nothing.
type Cache struct {
	src FrameSource
	enc *Encoder

	mu       sync.Mutex
	capacity int
	order    []int64 // insertion order, oldest first
	frames   map[int64][]byte
}

// NewCache builds a cache over src and enc. capacity <= 0 selects
// DefaultCapacity.
func NewCache(src FrameSource, enc *Encoder, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		src:      src,
		enc:      enc,
		capacity: capacity,
		frames:   make(map[int64][]byte, capacity),
	}
}

// Frame returns the encoded DNG for the frame at ts, encoding and caching
// it on first access. The returned buffer is shared; callers must not
// modify it.
func (c *Cache) Frame(ts int64) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.order {
		if id == ts {
			return c.frames[ts], nil
		}
	}

	buf, err := c.encode(ts)
	if err != nil {
		return nil, err
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = append(c.order[:0], c.order[1:]...)
		delete(c.frames, oldest)
	}
	c.order = append(c.order, ts)
	c.frames[ts] = buf
	return buf, nil
}

// encode runs the full miss path: frame metadata, pixel decode, DNG
// encode. Caller holds the lock.
func (c *Cache) encode(ts int64) ([]byte, error) {
	metaJSON, err := c.src.FrameMetadata(ts)
	if err != nil {
		return nil, err
	}
	frame, err := mcraw.ParseFrameMetadata(metaJSON)
	if err != nil {
		return nil, err
	}
	pixels := make([]byte, int(frame.Width)*int(frame.Height)*2)
	if err := c.src.LoadFrame(ts, pixels, int(frame.Width), int(frame.Height), frame.CompressionType); err != nil {
		return nil, err
	}
	return c.enc.Encode(frame, pixels)
}

// ReadAt copies up to len(p) bytes of the frame's encoded DNG starting at
// off. Reads at or past the end return (0, nil): the file-exposure layer
// treats a zero-length read as end of file, not as a failure. A short
// read near the end likewise carries no error.
func (c *Cache) ReadAt(ts int64, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("render: negative read offset %d", off)
	}
	buf, err := c.Frame(ts)
	if err != nil {
		return 0, err
	}
	if off >= int64(len(buf)) {
		return 0, nil
	}
	return copy(p, buf[off:]), nil
}

// Size returns the encoded byte size of the frame at ts, encoding it if
// needed.
func (c *Cache) Size(ts int64) (int64, error) {
	buf, err := c.Frame(ts)
	if err != nil {
		return 0, err
	}
	return int64(len(buf)), nil
}

// Len reports how many frames are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Capacity reports the configured bound.
func (c *Cache) Capacity() int { return c.capacity }

// Cached returns the cached timestamps, oldest first.
func (c *Cache) Cached() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.order...)
}
