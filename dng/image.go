package dng

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// A ValidationError reports a tag value outside the domain this writer
// accepts.
type ValidationError string

func (e ValidationError) Error() string { return "dng: " + string(e) }

// A SequencingError reports serialization attempted before its
// prerequisites were set.
type SequencingError string

func (e SequencingError) Error() string { return "dng: " + string(e) }

const (
	maxASCIILen    = 1024 * 1024
	maxSoftwareLen = 4096
)

// Image accumulates the tags and the single image strip of one DNG frame.
// It is populated through the Set methods, serialized exactly once with
// WriteData + WriteIFD, then discarded.
//
// Setters validate their input and leave the image untouched on failure.
// Tag payloads are encoded in the target byte order as they are set.
type Image struct {
	bigEndian bool
	swap      bool
	order     binary.ByteOrder

	table tagTable
	data  bytes.Buffer // image strip plus spilled tag payloads

	stripOffset     int
	stripBytes      int
	samplesPerPixel uint16
	bitsPerSample   []uint16
}

// NewImage returns an empty image targeting the given byte order.
func NewImage(bigEndian bool) *Image {
	return &Image{
		bigEndian: bigEndian,
		swap:      nativeBigEndian != bigEndian,
		order:     byteOrder(bigEndian),
	}
}

// BigEndian reports the byte order the image serializes to.
func (img *Image) BigEndian() bool { return img.bigEndian }

// DataSize is the current length of the data block (strip plus spilled
// payloads). The file's IFD offset is headerLen + DataSize.
func (img *Image) DataSize() int { return img.data.Len() }

// StripOffset is the strip's position inside the data block.
func (img *Image) StripOffset() int { return img.stripOffset }

// StripBytes is the byte length of the image strip.
func (img *Image) StripBytes() int { return img.stripBytes }

func (img *Image) shortPayload(values ...uint16) []byte {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		img.order.PutUint16(buf[2*i:], v)
	}
	return buf
}

func (img *Image) longPayload(values ...uint32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		img.order.PutUint32(buf[4*i:], v)
	}
	return buf
}

// rationalPayload converts each float to a numerator/denominator pair.
// Non-finite inputs become the (sign, 0) sentinel pair; the tag is still
// written so that one degenerate metadata field does not sink the frame.
func (img *Image) rationalPayload(values ...float32) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		num, den, _ := FloatToRational(v)
		img.order.PutUint32(buf[8*i:], uint32(num))
		img.order.PutUint32(buf[8*i+4:], uint32(den))
	}
	return buf
}

func (img *Image) asciiPayload(s string) []byte {
	buf := make([]byte, len(s)+1) // trailing NUL
	copy(buf, s)
	return buf
}

// SetSubfileType records the subfile classification bit field. All flags
// false means a full-resolution main image.
func (img *Image) SetSubfileType(reducedImage, page, mask bool) error {
	var bits uint32
	if reducedImage {
		bits |= FiletypeReducedImage
	}
	if page {
		bits |= FiletypePage
	}
	if mask {
		bits |= FiletypeMask
	}
	return img.table.add(tSubfileType, dtLong, 1, img.longPayload(bits), &img.data)
}

func (img *Image) SetImageWidth(width uint32) error {
	if width == 0 {
		return ValidationError("image width cannot be 0")
	}
	return img.table.add(tImageWidth, dtLong, 1, img.longPayload(width), &img.data)
}

func (img *Image) SetImageLength(length uint32) error {
	if length == 0 {
		return ValidationError("image length cannot be 0")
	}
	return img.table.add(tImageLength, dtLong, 1, img.longPayload(length), &img.data)
}

func (img *Image) SetRowsPerStrip(rows uint32) error {
	if rows == 0 {
		return ValidationError("rows per strip cannot be 0")
	}
	return img.table.add(tRowsPerStrip, dtLong, 1, img.longPayload(rows), &img.data)
}

func (img *Image) SetSamplesPerPixel(value uint16) error {
	if value == 0 || value > 4 {
		return ValidationError(fmt.Sprintf("samples per pixel must be in [1, 4], got %d", value))
	}
	if err := img.table.add(tSamplesPerPixel, dtShort, 1, img.shortPayload(value), &img.data); err != nil {
		return err
	}
	img.samplesPerPixel = value
	return nil
}

// SetBitsPerSample records the per-sample bit depths. SetSamplesPerPixel
// must have been called first and len(values) must match it. All samples
// must share one depth; the strip swapper relies on a single element
// width.
func (img *Image) SetBitsPerSample(values ...uint16) error {
	if img.samplesPerPixel == 0 {
		return SequencingError("SetSamplesPerPixel must be called before SetBitsPerSample")
	}
	if len(values) == 0 || len(values) > 4 {
		return ValidationError(fmt.Sprintf("invalid number of samples: %d", len(values)))
	}
	if len(values) != int(img.samplesPerPixel) {
		return ValidationError(fmt.Sprintf("%d bit depths given but samples per pixel is %d", len(values), img.samplesPerPixel))
	}
	for _, v := range values {
		if v == 0 {
			return ValidationError("bits per sample cannot be 0")
		}
		if v != values[0] {
			return ValidationError("bits per sample must be the same for all samples")
		}
	}
	if err := img.table.add(tBitsPerSample, dtShort, uint32(len(values)), img.shortPayload(values...), &img.data); err != nil {
		return err
	}
	img.bitsPerSample = append([]uint16(nil), values...)
	return nil
}

func (img *Image) SetPhotometric(value uint16) error {
	switch value {
	case PhotometricWhiteIsZero, PhotometricBlackIsZero, PhotometricRGB,
		PhotometricCFA, PhotometricLinearRaw:
	default:
		return ValidationError(fmt.Sprintf("unsupported photometric interpretation %d", value))
	}
	return img.table.add(tPhotometricInterpretation, dtShort, 1, img.shortPayload(value), &img.data)
}

func (img *Image) SetPlanarConfig(value uint16) error {
	if value != PlanarConfigContig && value != PlanarConfigSeparate {
		return ValidationError(fmt.Sprintf("unsupported planar configuration %d", value))
	}
	return img.table.add(tPlanarConfiguration, dtShort, 1, img.shortPayload(value), &img.data)
}

func (img *Image) SetCompression(value uint16) error {
	if value != CompressionNone {
		return ValidationError(fmt.Sprintf("unsupported compression %d", value))
	}
	return img.table.add(tCompression, dtShort, 1, img.shortPayload(value), &img.data)
}

func (img *Image) SetOrientation(value uint16) error {
	if value < OrientationTopLeft || value > OrientationLeftBot {
		return ValidationError(fmt.Sprintf("unsupported orientation %d", value))
	}
	return img.table.add(tOrientation, dtShort, 1, img.shortPayload(value), &img.data)
}

// SetSampleFormat records the numeric interpretation of each sample.
// SetSamplesPerPixel must have been called first.
func (img *Image) SetSampleFormat(values ...uint16) error {
	if img.samplesPerPixel == 0 || len(values) != int(img.samplesPerPixel) {
		return SequencingError("SetSamplesPerPixel must be called before SetSampleFormat")
	}
	for _, v := range values {
		if v != values[0] {
			return ValidationError("sample format must be the same for all samples")
		}
		switch v {
		case SampleFormatUint, SampleFormatInt, SampleFormatIEEEFP:
		default:
			return ValidationError(fmt.Sprintf("unsupported sample format %d", v))
		}
	}
	return img.table.add(tSampleFormat, dtShort, uint32(len(values)), img.shortPayload(values...), &img.data)
}

func (img *Image) SetXResolution(value float32) error {
	return img.table.add(tXResolution, dtRational, 1, img.rationalPayload(value), &img.data)
}

func (img *Image) SetYResolution(value float32) error {
	return img.table.add(tYResolution, dtRational, 1, img.rationalPayload(value), &img.data)
}

func (img *Image) SetResolutionUnit(value uint16) error {
	switch value {
	case ResUnitNone, ResUnitInch, ResUnitCentimeter:
	default:
		return ValidationError(fmt.Sprintf("unsupported resolution unit %d", value))
	}
	return img.table.add(tResolutionUnit, dtShort, 1, img.shortPayload(value), &img.data)
}

func (img *Image) setASCII(id uint16, s string, maxLen int) error {
	if len(s) == 0 {
		return ValidationError(fmt.Sprintf("tag %d: empty string", id))
	}
	if len(s)+1 > maxLen {
		return ValidationError(fmt.Sprintf("tag %d: string too long", id))
	}
	payload := img.asciiPayload(s)
	return img.table.add(id, dtASCII, uint32(len(payload)), payload, &img.data)
}

func (img *Image) SetImageDescription(ascii string) error {
	return img.setASCII(tImageDescription, ascii, maxASCIILen)
}

// SetUniqueCameraModel records the non-localized camera model name.
func (img *Image) SetUniqueCameraModel(ascii string) error {
	return img.setASCII(tUniqueCameraModel, ascii, maxASCIILen)
}

func (img *Image) SetSoftware(ascii string) error {
	return img.setASCII(tSoftware, ascii, maxSoftwareLen)
}

// SetActiveArea bounds the non-masked pixels as top, left, bottom, right.
func (img *Image) SetActiveArea(area [4]uint32) error {
	return img.table.add(tActiveArea, dtLong, 4, img.longPayload(area[:]...), &img.data)
}

// SetBlackLevel records the zero-light encoding level per sample.
func (img *Image) SetBlackLevel(values ...uint16) error {
	if len(values) == 0 {
		return ValidationError("black level needs at least one value")
	}
	return img.table.add(tBlackLevel, dtShort, uint32(len(values)), img.shortPayload(values...), &img.data)
}

func (img *Image) SetBlackLevelRepeatDim(width, height uint16) error {
	return img.table.add(tBlackLevelRepeatDim, dtShort, 2, img.shortPayload(width, height), &img.data)
}

// SetWhiteLevel records the fully-saturated encoding level.
func (img *Image) SetWhiteLevel(value int16) error {
	return img.table.add(tWhiteLevel, dtShort, 1, img.shortPayload(uint16(value)), &img.data)
}

func (img *Image) setRationalMatrix(id uint16, typ uint16, values []float32) error {
	if len(values) == 0 {
		return ValidationError(fmt.Sprintf("tag %d: empty matrix", id))
	}
	return img.table.add(id, typ, uint32(len(values)), img.rationalPayload(values...), &img.data)
}

// SetColorMatrix1 records the XYZ-to-camera transform under the first
// calibration illuminant, row major.
func (img *Image) SetColorMatrix1(values []float32) error {
	return img.setRationalMatrix(tColorMatrix1, dtSRational, values)
}

func (img *Image) SetColorMatrix2(values []float32) error {
	return img.setRationalMatrix(tColorMatrix2, dtSRational, values)
}

func (img *Image) SetForwardMatrix1(values []float32) error {
	return img.setRationalMatrix(tForwardMatrix1, dtSRational, values)
}

func (img *Image) SetForwardMatrix2(values []float32) error {
	return img.setRationalMatrix(tForwardMatrix2, dtSRational, values)
}

func (img *Image) SetCameraCalibration1(values []float32) error {
	return img.setRationalMatrix(tCameraCalibration1, dtSRational, values)
}

func (img *Image) SetCameraCalibration2(values []float32) error {
	return img.setRationalMatrix(tCameraCalibration2, dtSRational, values)
}

// SetAnalogBalance records the camera's analog white balance gains.
func (img *Image) SetAnalogBalance(values []float32) error {
	return img.setRationalMatrix(tAnalogBalance, dtRational, values)
}

// SetAsShotNeutral records the selected white balance as the coordinates
// of a perfectly neutral color in linear reference space.
func (img *Image) SetAsShotNeutral(values []float32) error {
	return img.setRationalMatrix(tAsShotNeutral, dtRational, values)
}

// SetAsShotWhiteXY records the selected white balance as x-y chromaticity
// coordinates.
func (img *Image) SetAsShotWhiteXY(x, y float32) error {
	return img.table.add(tAsShotWhiteXY, dtRational, 2, img.rationalPayload(x, y), &img.data)
}

func (img *Image) SetCalibrationIlluminant1(value uint16) error {
	return img.table.add(tCalibrationIlluminant1, dtShort, 1, img.shortPayload(value), &img.data)
}

func (img *Image) SetCalibrationIlluminant2(value uint16) error {
	return img.table.add(tCalibrationIlluminant2, dtShort, 1, img.shortPayload(value), &img.data)
}

// SetCFARepeatPatternDim records the dimensions of the repeating CFA cell.
func (img *Image) SetCFARepeatPatternDim(width, height uint16) error {
	return img.table.add(tCFARepeatPatternDim, dtShort, 2, img.shortPayload(width, height), &img.data)
}

// SetCFAPattern records the geometric CFA pattern, left to right, top to
// bottom, one byte per cell (0=red, 1=green, 2=blue).
func (img *Image) SetCFAPattern(pattern []byte) error {
	if len(pattern) == 0 {
		return ValidationError("empty CFA pattern")
	}
	return img.table.add(tCFAPattern, dtByte, uint32(len(pattern)), pattern, &img.data)
}

func (img *Image) SetCFALayout(value uint16) error {
	if value == 0 || value > 9 {
		return ValidationError(fmt.Sprintf("unsupported CFA layout %d", value))
	}
	return img.table.add(tCFALayout, dtShort, 1, img.shortPayload(value), &img.data)
}

func (img *Image) SetDNGVersion(a, b, c, d byte) error {
	return img.table.add(tDNGVersion, dtByte, 4, []byte{a, b, c, d}, &img.data)
}

func (img *Image) SetDNGBackwardVersion(a, b, c, d byte) error {
	return img.table.add(tDNGBackwardVersion, dtByte, 4, []byte{a, b, c, d}, &img.data)
}

func (img *Image) SetExposureTime(seconds float32) error {
	return img.table.add(tExposureTime, dtRational, 1, img.rationalPayload(seconds), &img.data)
}

func (img *Image) SetISO(value uint16) error {
	return img.table.add(tISOSpeed, dtShort, 1, img.shortPayload(value), &img.data)
}

func (img *Image) SetFrameRate(fps float32) error {
	return img.table.add(tFrameRate, dtRational, 1, img.rationalPayload(fps), &img.data)
}

func (img *Image) SetTimeCode(timecode [8]byte) error {
	return img.table.add(tTimeCode, dtByte, 8, timecode[:], &img.data)
}

// SetCustomFieldLong writes an arbitrary signed 32-bit tag. The caller is
// responsible for picking an id that does not collide with a standard tag.
func (img *Image) SetCustomFieldLong(id uint16, value int32) error {
	return img.table.add(id, dtSLong, 1, img.longPayload(uint32(value)), &img.data)
}

func (img *Image) SetCustomFieldULong(id uint16, value uint32) error {
	return img.table.add(id, dtLong, 1, img.longPayload(value), &img.data)
}

// SetImageData appends the raw strip bytes to the data block and stages
// the STRIP_BYTE_COUNTS tag. The STRIP_OFFSETS tag is deferred to
// WriteIFD: its value depends on where the data block lands in the final
// file, which is only known once the whole layout is fixed.
func (img *Image) SetImageData(pix []byte) error {
	if len(pix) == 0 {
		return ValidationError("empty image data")
	}
	img.stripOffset = img.data.Len()
	img.stripBytes = len(pix)
	img.data.Write(pix)
	return img.table.add(tStripByteCounts, dtLong, 1, img.longPayload(uint32(len(pix))), nil)
}

// WriteData writes the data block to w, byte-swapping the strip region in
// place for the configured element width when the target order differs
// from the native one. Bits-per-sample and samples-per-pixel must already
// be set.
func (img *Image) WriteData(w io.Writer) error {
	if img.data.Len() == 0 {
		return SequencingError("no image data to write")
	}
	if len(img.bitsPerSample) == 0 {
		return SequencingError("bits per sample is not set")
	}
	if img.samplesPerPixel == 0 {
		return SequencingError("samples per pixel is not set")
	}

	data := append([]byte(nil), img.data.Bytes()...)
	if img.stripBytes > 0 && img.swap {
		strip := data[img.stripOffset : img.stripOffset+img.stripBytes]
		swapStrip(strip, img.bitsPerSample[0])
	}
	_, err := w.Write(data)
	return err
}

// WriteIFD serializes the tag table to w. dataBase is the absolute offset
// the data block was written at minus headerLen (zero when the block
// directly follows the header); stripOffset is the strip's position inside
// the data block, as returned by StripOffset.
func (img *Image) WriteIFD(w io.Writer, dataBase, stripOffset uint32) error {
	if len(img.table.tags) == 0 {
		return SequencingError("no tags to write")
	}
	var buf bytes.Buffer
	img.table.write(&buf, dataBase, stripOffset, img.bigEndian)
	_, err := w.Write(buf.Bytes())
	return err
}
