package dng

// A minimal read side for the writer's own output: walks the single IFD
// and materializes each entry. Only what the tests need.

import (
	"encoding/binary"
	"testing"
)

type parsedTag struct {
	typ   uint16
	count uint32
	raw   []byte // value bytes, file order
}

type parsedFile struct {
	order binary.ByteOrder
	tags  map[uint16]parsedTag
	ids   []uint16 // entry ids in on-disk order
	next  uint32   // trailing next-IFD offset
}

func parseFile(t *testing.T, file []byte) *parsedFile {
	t.Helper()
	if len(file) < headerLen {
		t.Fatalf("file too short: %d bytes", len(file))
	}
	var order binary.ByteOrder
	switch string(file[:4]) {
	case leHeader:
		order = binary.LittleEndian
	case beHeader:
		order = binary.BigEndian
	default:
		t.Fatalf("bad TIFF header % x", file[:4])
	}
	p := &parsedFile{order: order, tags: map[uint16]parsedTag{}}

	ifdOffset := order.Uint32(file[4:8])
	n := order.Uint16(file[ifdOffset : ifdOffset+2])
	off := ifdOffset + 2
	for i := 0; i < int(n); i++ {
		entry := file[off : off+ifdEntryLen]
		id := order.Uint16(entry[0:2])
		typ := order.Uint16(entry[2:4])
		count := order.Uint32(entry[4:8])
		size := typeSize(typ)
		if size == 0 {
			t.Fatalf("tag %d: unknown type %d", id, typ)
		}
		var raw []byte
		if dataLen := count * size; dataLen > entryValueLen {
			voff := order.Uint32(entry[8:12])
			raw = file[voff : voff+dataLen]
		} else {
			raw = entry[8 : 8+dataLen]
		}
		p.tags[id] = parsedTag{typ: typ, count: count, raw: raw}
		p.ids = append(p.ids, id)
		off += ifdEntryLen
	}
	p.next = order.Uint32(file[off : off+4])
	return p
}

// uints decodes a Byte/Short/Long entry as a uint slice.
func (p *parsedFile) uints(t *testing.T, id uint16) []uint32 {
	t.Helper()
	tag, ok := p.tags[id]
	if !ok {
		t.Fatalf("tag %d missing", id)
	}
	out := make([]uint32, tag.count)
	for i := range out {
		switch tag.typ {
		case dtByte:
			out[i] = uint32(tag.raw[i])
		case dtShort:
			out[i] = uint32(p.order.Uint16(tag.raw[2*i:]))
		case dtLong:
			out[i] = p.order.Uint32(tag.raw[4*i:])
		default:
			t.Fatalf("tag %d: type %d is not an unsigned integer type", id, tag.typ)
		}
	}
	return out
}

func (p *parsedFile) firstUint(t *testing.T, id uint16) uint32 {
	t.Helper()
	return p.uints(t, id)[0]
}

// rationals decodes a Rational/SRational entry as num/den pairs.
func (p *parsedFile) rationals(t *testing.T, id uint16) [][2]uint32 {
	t.Helper()
	tag, ok := p.tags[id]
	if !ok {
		t.Fatalf("tag %d missing", id)
	}
	if tag.typ != dtRational && tag.typ != dtSRational {
		t.Fatalf("tag %d: type %d is not rational", id, tag.typ)
	}
	out := make([][2]uint32, tag.count)
	for i := range out {
		out[i][0] = p.order.Uint32(tag.raw[8*i:])
		out[i][1] = p.order.Uint32(tag.raw[8*i+4:])
	}
	return out
}
