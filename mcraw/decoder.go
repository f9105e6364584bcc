package mcraw

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"
)

// ReaderAt is the read access a Decoder needs from its container.
type ReaderAt interface {
	ReadAt(p []byte, off int64) (int, error)
}

// Decoder gives random access to the frames of one container. It is safe
// for concurrent use once constructed: all state after NewDecoder is
// read-only and zstd decompression is stateless per call.
type Decoder struct {
	r    ReaderAt
	meta string

	frames  []int64 // ascending timestamps
	records map[int64]indexEntry

	zr *zstd.Decoder

	file *os.File // non-nil only when the Decoder owns the handle
}

// Open opens the container at path. Close releases the file handle.
func Open(path string) (*Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	d, err := NewDecoder(f, st.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	d.file = f
	return d, nil
}

// NewDecoder reads the header and index of a container of the given size.
func NewDecoder(r ReaderAt, size int64) (*Decoder, error) {
	if size < headerFixedLen+footerLen {
		return nil, FormatError("container too short")
	}

	head := make([]byte, headerFixedLen)
	if _, err := r.ReadAt(head, 0); err != nil {
		return nil, err
	}
	if string(head[:4]) != fileMagic {
		return nil, FormatError("bad magic")
	}
	if v := binary.LittleEndian.Uint16(head[4:6]); v != formatVersion {
		return nil, FormatError(fmt.Sprintf("unsupported version %d", v))
	}
	metaLen := binary.LittleEndian.Uint32(head[6:10])
	if int64(headerFixedLen+metaLen) > size {
		return nil, FormatError("container metadata overruns file")
	}
	metaBuf := make([]byte, metaLen)
	if _, err := r.ReadAt(metaBuf, headerFixedLen); err != nil {
		return nil, err
	}

	foot := make([]byte, footerLen)
	if _, err := r.ReadAt(foot, size-footerLen); err != nil {
		return nil, err
	}
	if string(foot[8:12]) != indexMagic {
		return nil, FormatError("bad index magic")
	}
	indexOffset := binary.LittleEndian.Uint64(foot[:8])
	if indexOffset > uint64(size-footerLen) {
		return nil, FormatError("index offset past end of file")
	}
	indexLen := uint64(size-footerLen) - indexOffset
	if indexLen%indexEntryLen != 0 {
		return nil, FormatError("index length not a whole number of entries")
	}
	index := make([]byte, indexLen)
	if _, err := r.ReadAt(index, int64(indexOffset)); err != nil {
		return nil, err
	}

	d := &Decoder{
		r:       r,
		meta:    string(metaBuf),
		records: make(map[int64]indexEntry, indexLen/indexEntryLen),
	}
	for off := 0; off < len(index); off += indexEntryLen {
		rec := indexEntry{
			timestamp: int64(binary.LittleEndian.Uint64(index[off:])),
			offset:    binary.LittleEndian.Uint64(index[off+8:]),
			metaLen:   binary.LittleEndian.Uint32(index[off+16:]),
			dataLen:   binary.LittleEndian.Uint32(index[off+20:]),
		}
		if rec.offset+uint64(rec.metaLen)+uint64(rec.dataLen) > indexOffset {
			return nil, FormatError(fmt.Sprintf("frame %d overruns the index", rec.timestamp))
		}
		d.records[rec.timestamp] = rec
		d.frames = append(d.frames, rec.timestamp)
	}
	sort.Slice(d.frames, func(i, j int) bool { return d.frames[i] < d.frames[j] })

	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	d.zr = zr
	return d, nil
}

// Close releases the zstd decoder and, for Decoders from Open, the file.
func (d *Decoder) Close() error {
	d.zr.Close()
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// ContainerMetadata returns the container's metadata JSON verbatim.
func (d *Decoder) ContainerMetadata() string { return d.meta }

// Frames returns all frame timestamps in ascending order.
func (d *Decoder) Frames() []int64 {
	return append([]int64(nil), d.frames...)
}

// FrameMetadata returns the metadata JSON of the frame at the given
// timestamp.
func (d *Decoder) FrameMetadata(ts int64) (string, error) {
	rec, ok := d.records[ts]
	if !ok {
		return "", ErrFrameNotFound
	}
	buf := make([]byte, rec.metaLen)
	if _, err := d.r.ReadAt(buf, int64(rec.offset)); err != nil {
		return "", fmt.Errorf("mcraw: frame %d metadata: %w", ts, err)
	}
	return string(buf), nil
}

// LoadFrame fills dst with the frame's decoded pixel data: width×height
// 16-bit samples. dst must hold at least width*height*2 bytes. The
// compression argument comes from the frame's metadata.
func (d *Decoder) LoadFrame(ts int64, dst []byte, width, height int, compression int32) error {
	rec, ok := d.records[ts]
	if !ok {
		return ErrFrameNotFound
	}
	want := width * height * 2
	if width <= 0 || height <= 0 {
		return FormatError(fmt.Sprintf("frame %d: dimensions %dx%d", ts, width, height))
	}
	if len(dst) < want {
		return FormatError(fmt.Sprintf("frame %d: buffer is %d bytes, need %d", ts, len(dst), want))
	}

	raw := make([]byte, rec.dataLen)
	if _, err := d.r.ReadAt(raw, int64(rec.offset)+int64(rec.metaLen)); err != nil {
		return fmt.Errorf("mcraw: frame %d pixels: %w", ts, err)
	}

	switch compression {
	case CompressionNone:
		if int(rec.dataLen) != want {
			return FormatError(fmt.Sprintf("frame %d: stored %d bytes, want %d", ts, rec.dataLen, want))
		}
		copy(dst, raw)
	case CompressionZstd:
		out, err := d.zr.DecodeAll(raw, dst[:0])
		if err != nil {
			return fmt.Errorf("mcraw: frame %d: %w", ts, err)
		}
		if len(out) != want {
			return FormatError(fmt.Sprintf("frame %d: decompressed to %d bytes, want %d", ts, len(out), want))
		}
	default:
		return FormatError(fmt.Sprintf("frame %d: unknown compression %d", ts, compression))
	}
	return nil
}
