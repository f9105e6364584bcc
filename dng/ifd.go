package dng

import (
	"bytes"
	"fmt"
	"sort"
)

// ifdTag is one 12-byte IFD entry. Values of 4 bytes or less are carried
// inline, already encoded in the target byte order; longer values live in
// the image's data block and the entry carries their offset instead.
type ifdTag struct {
	id     uint16
	typ    uint16
	count  uint32
	inline bool
	value  [entryValueLen]byte
	offset uint32 // headerLen + data-block position, rebased at write time
}

type tagTable struct {
	tags []ifdTag
}

// typeSize returns the byte length of one value of the given TIFF type,
// or 0 if the type is not one this writer understands.
func typeSize(typ uint16) uint32 {
	if int(typ) >= len(lengths) {
		return 0
	}
	return lengths[typ]
}

// add records a tag whose payload is already encoded in the file's byte
// order. The inline-vs-offset decision is purely count×typeSize > 4: small
// payloads are packed into the entry's value field, larger ones are
// appended to block and addressed by offset.
func (t *tagTable) add(id, typ uint16, count uint32, data []byte, block *bytes.Buffer) error {
	size := typeSize(typ)
	if size == 0 {
		return ValidationError(fmt.Sprintf("unknown tag type %d for tag %d", typ, id))
	}
	dataLen := count * size
	if uint32(len(data)) != dataLen {
		return ValidationError(fmt.Sprintf("tag %d: payload is %d bytes, want %d", id, len(data), dataLen))
	}

	tag := ifdTag{id: id, typ: typ, count: count}
	if dataLen > entryValueLen {
		tag.offset = uint32(headerLen + block.Len())
		block.Write(data)
	} else {
		tag.inline = true
		copy(tag.value[:], data)
	}
	t.tags = append(t.tags, tag)
	return nil
}

// write serializes the IFD: entry count, 12-byte entries in ascending tag
// id order, then a zero next-IFD offset. The STRIP_OFFSETS entry is
// injected here because its value is only known once the file layout is
// fixed. Offsets recorded relative to the data block are rebased by
// dataBase.
func (t *tagTable) write(out *bytes.Buffer, dataBase, stripOffset uint32, bigEndian bool) {
	swap := nativeBigEndian != bigEndian

	tags := make([]ifdTag, len(t.tags), len(t.tags)+1)
	copy(tags, t.tags)

	var strip ifdTag
	strip.id = tStripOffsets
	strip.typ = dtLong
	strip.count = 1
	strip.inline = true
	byteOrder(bigEndian).PutUint32(strip.value[:], stripOffset+headerLen)
	tags = append(tags, strip)

	// TIFF requires the entries sorted by tag id.
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].id < tags[j].id
	})

	write2(out, uint16(len(tags)), swap)
	for _, tag := range tags {
		write2(out, tag.id, swap)
		write2(out, tag.typ, swap)
		write4(out, tag.count, swap)
		if tag.inline {
			out.Write(tag.value[:])
		} else {
			write4(out, tag.offset+dataBase, swap)
		}
	}
	// Zero marks this as the last (only) IFD.
	write4(out, 0, swap)
}
