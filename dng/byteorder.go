package dng

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// nativeBigEndian reports the byte order of the host. It is computed once;
// the per-image swap flag derived from it is the single source of truth
// for endianness in every write below.
var nativeBigEndian = func() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 0x0102)
	return b[0] == 0x01
}()

func swap2(v uint16) uint16 { return bits.ReverseBytes16(v) }
func swap4(v uint32) uint32 { return bits.ReverseBytes32(v) }
func swap8(v uint64) uint64 { return bits.ReverseBytes64(v) }

func write1(out *bytes.Buffer, v uint8) {
	out.WriteByte(v)
}

func write2(out *bytes.Buffer, v uint16, swapEndian bool) {
	if swapEndian {
		v = swap2(v)
	}
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], v)
	out.Write(b[:])
}

func write4(out *bytes.Buffer, v uint32, swapEndian bool) {
	if swapEndian {
		v = swap4(v)
	}
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], v)
	out.Write(b[:])
}

// swapStrip byte-swaps pix in place, treating it as a run of elements of
// the given bit width. Widths other than 16/32/64 are left untouched.
func swapStrip(pix []byte, bitsPerSample uint16) {
	switch bitsPerSample {
	case 16:
		for i := 0; i+2 <= len(pix); i += 2 {
			v := swap2(binary.NativeEndian.Uint16(pix[i:]))
			binary.NativeEndian.PutUint16(pix[i:], v)
		}
	case 32:
		for i := 0; i+4 <= len(pix); i += 4 {
			v := swap4(binary.NativeEndian.Uint32(pix[i:]))
			binary.NativeEndian.PutUint32(pix[i:], v)
		}
	case 64:
		for i := 0; i+8 <= len(pix); i += 8 {
			v := swap8(binary.NativeEndian.Uint64(pix[i:]))
			binary.NativeEndian.PutUint64(pix[i:], v)
		}
	}
}

// byteOrder returns the encoder for the target order of the file. Tag
// payloads are encoded with it once, at set time, so the IFD writer can
// copy value bytes verbatim.
func byteOrder(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
