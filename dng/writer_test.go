package dng

import (
	"bytes"
	"encoding/binary"
	"image"
	"testing"

	"golang.org/x/image/tiff"
)

// buildBayerImage assembles the tag set of a single-strip uncompressed
// Bayer DNG, the way the frame encoder does.
func buildBayerImage(t *testing.T, bigEndian bool, width, height int, pix []byte) *Image {
	t.Helper()
	img := NewImage(bigEndian)
	for _, set := range []func() error{
		func() error { return img.SetDNGVersion(1, 4, 0, 0) },
		func() error { return img.SetDNGBackwardVersion(1, 1, 0, 0) },
		func() error { return img.SetSubfileType(false, false, false) },
		func() error { return img.SetImageWidth(uint32(width)) },
		func() error { return img.SetImageLength(uint32(height)) },
		func() error { return img.SetRowsPerStrip(uint32(height)) },
		func() error { return img.SetSamplesPerPixel(1) },
		func() error { return img.SetBitsPerSample(16) },
		func() error { return img.SetPhotometric(PhotometricCFA) },
		func() error { return img.SetPlanarConfig(PlanarConfigContig) },
		func() error { return img.SetCompression(CompressionNone) },
		func() error { return img.SetCFARepeatPatternDim(2, 2) },
		func() error { return img.SetCFAPattern([]byte{0, 1, 1, 2}) },
		func() error { return img.SetCFALayout(CFALayoutRectangular) },
		func() error { return img.SetBlackLevel(0, 0, 0, 0) },
		func() error { return img.SetWhiteLevel(1023) },
		func() error { return img.SetAsShotNeutral([]float32{0.5, 1, 0.5}) },
		func() error { return img.SetCalibrationIlluminant1(IlluminantD65) },
		func() error { return img.SetCalibrationIlluminant2(IlluminantStandardA) },
		func() error { return img.SetActiveArea([4]uint32{0, 0, uint32(height), uint32(width)}) },
		func() error { return img.SetUniqueCameraModel("TestCam RAW") },
		func() error { return img.SetImageData(pix) },
	} {
		if err := set(); err != nil {
			t.Fatal(err)
		}
	}
	return img
}

func bayerPixels(width, height int) []byte {
	pix := make([]byte, width*height*2)
	for i := 0; i < width*height; i++ {
		binary.NativeEndian.PutUint16(pix[2*i:], uint16(i*7%1024))
	}
	return pix
}

func TestWriteBayerDNG(t *testing.T) {
	const width, height = 64, 48
	pix := bayerPixels(width, height)

	file, err := NewWriter().EncodeBytes(buildBayerImage(t, false, width, height, pix))
	if err != nil {
		t.Fatal(err)
	}

	p := parseFile(t, file)
	if p.next != 0 {
		t.Errorf("next-IFD offset = %d, want 0", p.next)
	}
	for i := 1; i < len(p.ids); i++ {
		if p.ids[i] <= p.ids[i-1] {
			t.Fatalf("IFD not ascending at entry %d: %d after %d", i, p.ids[i], p.ids[i-1])
		}
	}

	if got := p.firstUint(t, tImageWidth); got != width {
		t.Errorf("width = %d, want %d", got, width)
	}
	if got := p.firstUint(t, tImageLength); got != height {
		t.Errorf("height = %d, want %d", got, height)
	}
	if got := p.firstUint(t, tPhotometricInterpretation); got != PhotometricCFA {
		t.Errorf("photometric = %d, want %d", got, PhotometricCFA)
	}

	cfa := p.tags[tCFAPattern]
	if cfa.count != 4 || !bytes.Equal(cfa.raw, []byte{0, 1, 1, 2}) {
		t.Errorf("CFA pattern count=%d raw=% x, want count=4 raw=00 01 01 02", cfa.count, cfa.raw)
	}

	if black := p.uints(t, tBlackLevel); len(black) != 4 ||
		black[0]|black[1]|black[2]|black[3] != 0 {
		t.Errorf("black level = %v, want four zeros", black)
	}
	if white := p.firstUint(t, tWhiteLevel); white != 1023 {
		t.Errorf("white level = %d, want 1023", white)
	}

	neutral := p.rationals(t, tAsShotNeutral)
	want := []float64{0.5, 1, 0.5}
	for i, r := range neutral {
		if got := float64(r[0]) / float64(r[1]); got != want[i] {
			t.Errorf("as-shot-neutral[%d] = %d/%d = %v, want %v", i, r[0], r[1], got, want[i])
		}
	}

	// The strip must sit where the IFD says it does, byte for byte.
	off := p.firstUint(t, tStripOffsets)
	n := p.firstUint(t, tStripByteCounts)
	if int(n) != len(pix) {
		t.Fatalf("strip byte count = %d, want %d", n, len(pix))
	}
	for i := 0; i < len(pix)/2; i++ {
		want := binary.NativeEndian.Uint16(pix[2*i:])
		if got := binary.LittleEndian.Uint16(file[off+uint32(2*i):]); got != want {
			t.Fatalf("strip sample %d = %d, want %d", i, got, want)
		}
	}

	// IFD offset in the header is header + data block: the strip plus the
	// spilled payloads (24B neutral + 8B black level + 16B active area +
	// 12B camera model).
	if got, want := binary.LittleEndian.Uint32(file[4:8]), uint32(headerLen+len(pix)+60); got != want {
		t.Errorf("IFD offset = %d, want %d", got, want)
	}
}

func TestWriteDeterministic(t *testing.T) {
	const width, height = 16, 8
	pix := bayerPixels(width, height)

	a, err := NewWriter().EncodeBytes(buildBayerImage(t, false, width, height, pix))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewWriter().EncodeBytes(buildBayerImage(t, false, width, height, bayerPixels(width, height)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same inputs produced different bytes")
	}
}

func TestWriteBigEndian(t *testing.T) {
	const width, height = 8, 4
	pix := bayerPixels(width, height)

	file, err := NewWriter(BigEndian(true)).EncodeBytes(buildBayerImage(t, true, width, height, pix))
	if err != nil {
		t.Fatal(err)
	}
	if string(file[:4]) != beHeader {
		t.Fatalf("header = % x, want MM 00 2a", file[:4])
	}

	p := parseFile(t, file)
	if got := p.firstUint(t, tImageWidth); got != width {
		t.Errorf("width = %d, want %d", got, width)
	}
	off := p.firstUint(t, tStripOffsets)
	// Strip samples must be readable in big-endian order.
	first := binary.NativeEndian.Uint16(pix[0:2])
	if got := binary.BigEndian.Uint16(file[off : off+2]); got != first {
		t.Errorf("first sample = %d, want %d", got, first)
	}
}

// TestGray16RoundTrip feeds the writer's output to an independent TIFF
// implementation. x/image/tiff does not understand the CFA photometric,
// so this uses a plain 16-bit grayscale image.
func TestGray16RoundTrip(t *testing.T) {
	const width, height = 10, 6
	pix := make([]byte, width*height*2)
	for i := 0; i < width*height; i++ {
		binary.NativeEndian.PutUint16(pix[2*i:], uint16(i*1000))
	}

	img := NewImage(false)
	for _, set := range []func() error{
		func() error { return img.SetImageWidth(width) },
		func() error { return img.SetImageLength(height) },
		func() error { return img.SetRowsPerStrip(height) },
		func() error { return img.SetSamplesPerPixel(1) },
		func() error { return img.SetBitsPerSample(16) },
		func() error { return img.SetPhotometric(PhotometricBlackIsZero) },
		func() error { return img.SetCompression(CompressionNone) },
		func() error { return img.SetImageData(pix) },
	} {
		if err := set(); err != nil {
			t.Fatal(err)
		}
	}

	file, err := NewWriter().EncodeBytes(img)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := tiff.Decode(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("tiff.Decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != width || b.Dy() != height {
		t.Fatalf("decoded bounds = %v, want %dx%d", b, width, height)
	}
	gray, ok := decoded.(*image.Gray16)
	if !ok {
		t.Fatalf("decoded type = %T, want *image.Gray16", decoded)
	}
	for _, i := range []int{0, 7, width*height - 1} {
		want := binary.NativeEndian.Uint16(pix[2*i:])
		if got := gray.Gray16At(i%width, i/width).Y; got != want {
			t.Errorf("pixel %d = %d, want %d", i, got, want)
		}
	}
}
