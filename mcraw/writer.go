package mcraw

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Writer builds a container front to back: header first, one record per
// AddFrame, then Close writes the index and footer. It tracks its own
// offsets, so any io.Writer will do.
type Writer struct {
	w       io.Writer
	off     uint64
	entries []indexEntry
	ze      *zstd.Encoder
	closed  bool
}

// NewWriter writes the container header and metadata JSON immediately.
func NewWriter(w io.Writer, containerMetaJSON string) (*Writer, error) {
	ze, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}

	head := make([]byte, headerFixedLen)
	copy(head, fileMagic)
	binary.LittleEndian.PutUint16(head[4:6], formatVersion)
	binary.LittleEndian.PutUint32(head[6:10], uint32(len(containerMetaJSON)))

	cw := &Writer{w: w, ze: ze}
	if err := cw.write(head); err != nil {
		return nil, err
	}
	if err := cw.write([]byte(containerMetaJSON)); err != nil {
		return nil, err
	}
	return cw, nil
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.off += uint64(n)
	return err
}

// AddFrame appends one frame record. pixels holds width×height 16-bit
// samples; compression selects how the payload is stored.
func (w *Writer) AddFrame(ts int64, metaJSON string, pixels []byte, compression int32) error {
	if w.closed {
		return FormatError("writer already closed")
	}
	for _, e := range w.entries {
		if e.timestamp == ts {
			return FormatError(fmt.Sprintf("duplicate frame timestamp %d", ts))
		}
	}

	payload := pixels
	switch compression {
	case CompressionNone:
	case CompressionZstd:
		payload = w.ze.EncodeAll(pixels, nil)
	default:
		return FormatError(fmt.Sprintf("unknown compression %d", compression))
	}

	entry := indexEntry{
		timestamp: ts,
		offset:    w.off,
		metaLen:   uint32(len(metaJSON)),
		dataLen:   uint32(len(payload)),
	}
	if err := w.write([]byte(metaJSON)); err != nil {
		return err
	}
	if err := w.write(payload); err != nil {
		return err
	}
	w.entries = append(w.entries, entry)
	return nil
}

// Close writes the index and footer. The underlying io.Writer is not
// closed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.ze.Close()

	indexOffset := w.off
	buf := make([]byte, indexEntryLen)
	for _, e := range w.entries {
		binary.LittleEndian.PutUint64(buf[0:], uint64(e.timestamp))
		binary.LittleEndian.PutUint64(buf[8:], e.offset)
		binary.LittleEndian.PutUint32(buf[16:], e.metaLen)
		binary.LittleEndian.PutUint32(buf[20:], e.dataLen)
		if err := w.write(buf); err != nil {
			return err
		}
	}

	foot := make([]byte, footerLen)
	binary.LittleEndian.PutUint64(foot[:8], indexOffset)
	copy(foot[8:], indexMagic)
	return w.write(foot)
}
