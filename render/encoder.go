// Package render turns decoded MCRAW frames into DNG files on demand and
// keeps recently encoded frames in a bounded FIFO cache.
package render

import (
	"fmt"

	"github.com/camtools/rawdng/dng"
	"github.com/camtools/rawdng/mcraw"
)

// DefaultCameraModel is written to UniqueCameraModel when no override is
// configured.
const DefaultCameraModel = "MotionCam MCRAW"

// identity3x3 backs the camera calibration tags; the containers carry no
// per-unit calibration of their own.
var identity3x3 = []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}

// cfaPattern maps the container's sensor arrangement string to the DNG
// CFA pattern array. Real containers have been observed with values
// outside this set (and empty strings); those fall back to the gbrg
// pattern rather than failing the frame.
func cfaPattern(arrangement string) []byte {
	switch arrangement {
	case "rggb":
		return []byte{0, 1, 1, 2}
	case "bggr":
		return []byte{2, 1, 1, 0}
	case "grbg":
		return []byte{1, 0, 2, 1}
	default: // gbrg and anything unrecognized
		return []byte{1, 2, 0, 1}
	}
}

// Encoder builds single-strip uncompressed 16-bit Bayer DNGs from frames
// of one container. It is immutable after construction and safe to share.
type Encoder struct {
	meta        mcraw.ContainerMetadata
	bigEndian   bool
	cameraModel string
}

// BigEndian selects the byte order of produced files. Little-endian is
// the default; the flag is computed once here and threaded through every
// write.
func BigEndian(v bool) func(*Encoder) {
	return func(e *Encoder) {
		e.bigEndian = v
	}
}

// CameraModel overrides the UniqueCameraModel tag value.
func CameraModel(name string) func(*Encoder) {
	return func(e *Encoder) {
		e.cameraModel = name
	}
}

func NewEncoder(meta mcraw.ContainerMetadata, opts ...func(*Encoder)) *Encoder {
	e := &Encoder{meta: meta, cameraModel: DefaultCameraModel}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode produces one complete DNG file from a frame's metadata and its
// decoded pixel buffer (width×height 16-bit samples). The first setter
// failure aborts the encode.
func (e *Encoder) Encode(frame mcraw.FrameMetadata, pixels []byte) ([]byte, error) {
	width, height := uint32(frame.Width), uint32(frame.Height)
	if want := int(frame.Width) * int(frame.Height) * 2; len(pixels) != want {
		return nil, fmt.Errorf("render: pixel buffer is %d bytes, want %d for %dx%d", len(pixels), want, width, height)
	}

	img := dng.NewImage(e.bigEndian)
	for _, set := range []func() error{
		func() error { return img.SetDNGVersion(1, 4, 0, 0) },
		func() error { return img.SetDNGBackwardVersion(1, 1, 0, 0) },
		func() error { return img.SetSubfileType(false, false, false) },
		func() error { return img.SetImageWidth(width) },
		func() error { return img.SetImageLength(height) },
		func() error { return img.SetRowsPerStrip(height) },
		func() error { return img.SetSamplesPerPixel(1) },
		func() error { return img.SetBitsPerSample(16) },
		func() error { return img.SetPhotometric(dng.PhotometricCFA) },
		func() error { return img.SetPlanarConfig(dng.PlanarConfigContig) },
		func() error { return img.SetCompression(dng.CompressionNone) },
		func() error { return img.SetCFARepeatPatternDim(2, 2) },
		func() error { return img.SetCFAPattern(cfaPattern(e.meta.SensorArrangement)) },
		func() error { return img.SetCFALayout(dng.CFALayoutRectangular) },
		func() error { return img.SetBlackLevel(e.meta.BlackLevel...) },
		func() error { return img.SetWhiteLevel(int16(e.meta.WhiteLevel)) },
		func() error { return img.SetColorMatrix1(e.meta.ColorMatrix1) },
		func() error { return img.SetColorMatrix2(e.meta.ColorMatrix2) },
		func() error { return img.SetForwardMatrix1(e.meta.ForwardMatrix1) },
		func() error { return img.SetForwardMatrix2(e.meta.ForwardMatrix2) },
		func() error { return img.SetCameraCalibration1(identity3x3) },
		func() error { return img.SetCameraCalibration2(identity3x3) },
		func() error { return img.SetAsShotNeutral(frame.AsShotNeutral) },
		func() error { return img.SetCalibrationIlluminant1(dng.IlluminantD65) },
		func() error { return img.SetCalibrationIlluminant2(dng.IlluminantStandardA) },
		func() error { return img.SetActiveArea([4]uint32{0, 0, height, width}) },
		func() error { return img.SetUniqueCameraModel(e.cameraModel) },
		func() error { return img.SetImageData(pixels) },
	} {
		if err := set(); err != nil {
			return nil, err
		}
	}

	return dng.NewWriter(dng.BigEndian(e.bigEndian)).EncodeBytes(img)
}
