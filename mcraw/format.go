// Package mcraw reads and writes MCRAW containers: a sequence of raw
// sensor frames, each with a JSON metadata record, addressed by capture
// timestamp through an index at the end of the file.
//
//	+----------------------------+
//	| magic "MCRW" | version u16 |
//	| metaLen u32  | meta JSON   |
//	+----------------------------+
//	| frame record 0             |  metadata JSON || pixel payload
//	+----------------------------+
//	|  ...                       |
//	+----------------------------+
//	| index                      |  one 24-byte entry per frame
//	+----------------------------+
//	| indexOffset u64 | "XDNI"   |
//	+----------------------------+
//
// All integers are little-endian. Pixel payloads hold 16-bit samples in
// host order, optionally zstd-compressed.
package mcraw

import "errors"

const (
	fileMagic  = "MCRW"
	indexMagic = "XDNI"

	formatVersion = 1

	headerFixedLen = 10 // magic + version + metaLen
	indexEntryLen  = 24 // timestamp + offset + metaLen + dataLen
	footerLen      = 12 // indexOffset + index magic
)

// Frame pixel payload compression.
const (
	CompressionNone int32 = 0
	CompressionZstd int32 = 1
)

// A FormatError reports a malformed or truncated container.
type FormatError string

func (e FormatError) Error() string { return "mcraw: " + string(e) }

// ErrFrameNotFound is returned for a timestamp the container's index does
// not list.
var ErrFrameNotFound = errors.New("mcraw: frame not found")

// indexEntry locates one frame record inside the container.
type indexEntry struct {
	timestamp int64
	offset    uint64 // start of the frame record (metadata JSON)
	metaLen   uint32
	dataLen   uint32 // pixel payload length as stored
}
