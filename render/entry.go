package render

import (
	"fmt"
	"sort"
)

// Entry is the closed set of things the file-exposure layer can see: the
// container root and one file per frame. Consumers dispatch with a type
// switch; there are no other implementations.
type Entry interface {
	Name() string
}

// RootEntry is the directory holding the frame files.
type RootEntry struct{}

func (RootEntry) Name() string { return "/" }

// FrameEntry is one frame exposed as a DNG file. Size is the pixel
// payload lower bound (width×height×2 is not known until the frame's
// metadata is read, so Size is 0 until the frame has been encoded once).
type FrameEntry struct {
	Index     int
	Timestamp int64
	Size      int64
}

// Name returns the file name frames are listed under, derived from the
// frame's position in the container, not its timestamp.
func (e FrameEntry) Name() string {
	return fmt.Sprintf("frame_%06d.dng", e.Index)
}

// Catalog lists the container as entries: the root first, then one
// FrameEntry per frame in timestamp order.
func Catalog(src FrameSource) []Entry {
	frames := src.Frames()
	sort.Slice(frames, func(i, j int) bool { return frames[i] < frames[j] })

	entries := make([]Entry, 0, len(frames)+1)
	entries = append(entries, RootEntry{})
	for i, ts := range frames {
		entries = append(entries, FrameEntry{Index: i, Timestamp: ts})
	}
	return entries
}

// Lookup resolves a file name back to its frame entry.
func Lookup(entries []Entry, name string) (FrameEntry, bool) {
	for _, entry := range entries {
		switch e := entry.(type) {
		case FrameEntry:
			if e.Name() == name {
				return e, true
			}
		case RootEntry:
			// not addressable by file name
		}
	}
	return FrameEntry{}, false
}
