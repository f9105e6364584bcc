package dng

import (
	"bytes"
	"io"
)

// Writer lays out a complete single-IFD DNG file:
//
//	+----------------------+
//	|  header (8 bytes)    |
//	+----------------------+
//	|  image strip +       |
//	|  spilled payloads    |
//	+----------------------+
//	|  IFD                 |
//	+----------------------+
//	|  next-IFD = 0        |
//	+----------------------+
//
// The IFD offset recorded in the header is headerLen + data block size.
type Writer struct {
	bigEndian bool
}

// BigEndian selects the byte order of produced files. The default is
// little-endian; the image passed to Write must have been built with the
// same order.
func BigEndian(v bool) func(w *Writer) {
	return func(w *Writer) {
		w.bigEndian = v
	}
}

func NewWriter(opts ...func(*Writer)) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func writeHeader(out *bytes.Buffer, bigEndian bool, ifdOffset uint32) {
	if bigEndian {
		out.WriteString(beHeader)
	} else {
		out.WriteString(leHeader)
	}
	write4(out, ifdOffset, nativeBigEndian != bigEndian)
}

// Write serializes img to out as one DNG file.
func (w *Writer) Write(out io.Writer, img *Image) error {
	var buf bytes.Buffer
	writeHeader(&buf, w.bigEndian, uint32(headerLen+img.DataSize()))

	if err := img.WriteData(&buf); err != nil {
		return err
	}
	// The data block starts right after the header, so tag offsets need
	// no further rebasing.
	if err := img.WriteIFD(&buf, 0, uint32(img.StripOffset())); err != nil {
		return err
	}

	_, err := out.Write(buf.Bytes())
	return err
}

// EncodeBytes is Write into a fresh byte slice.
func (w *Writer) EncodeBytes(img *Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
