package dng

// A DNG file is a TIFF file: an 8-byte header followed by image data and
// one Image File Directory (IFD). Each IFD entry is 12 bytes:
//
//   - a tag id, describing the signification of the entry,
//   - the data type and the number of values,
//   - the values themselves, or a pointer to them if they need more
//     than 4 bytes.
//
// Tag and type numbers below come from the TIFF 6.0 specification and the
// Adobe DNG 1.4 specification.

const (
	leHeader = "II\x2A\x00" // Header for little-endian files.
	beHeader = "MM\x00\x2A" // Header for big-endian files.

	headerLen = 8 // TIFF header: byte-order marker, version, IFD offset.

	ifdEntryLen         = 12
	numOfEntriesByteLen = 2
	ifdNextValueLen     = 4

	entryValueLen = 4 // Values longer than this spill to the data block.
)

// Data types (p. 14-16 of the TIFF spec).
const (
	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtRational  = 5
	dtSByte     = 6
	dtUndefined = 7
	dtSShort    = 8
	dtSLong     = 9
	dtSRational = 10
	dtFloat     = 11
	dtDouble    = 12
	dtIFD       = 13
)

// The length of one instance of each data type in bytes. Index 0 is a
// placeholder; an entry of 0 marks the type as unknown to this writer.
var lengths = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8, 4}

// Baseline tags (p. 28-41 of the TIFF spec).
const (
	tSubfileType               = 254
	tImageWidth                = 256
	tImageLength               = 257
	tBitsPerSample             = 258
	tCompression               = 259
	tPhotometricInterpretation = 262
	tImageDescription          = 270
	tStripOffsets              = 273
	tOrientation               = 274
	tSamplesPerPixel           = 277
	tRowsPerStrip              = 278
	tStripByteCounts           = 279
	tPlanarConfiguration       = 284

	tXResolution    = 282 // rational
	tYResolution    = 283 // rational
	tResolutionUnit = 296

	tSoftware = 305

	tSampleFormat = 339
)

// DNG extension tags.
const (
	tCFARepeatPatternDim = 33421
	tCFAPattern          = 33422

	tExposureTime = 33434
	tISOSpeed     = 34855

	tDNGVersion             = 50706
	tDNGBackwardVersion     = 50707
	tUniqueCameraModel      = 50708
	tCFALayout              = 50711
	tBlackLevelRepeatDim    = 50713
	tBlackLevel             = 50714
	tWhiteLevel             = 50717
	tColorMatrix1           = 50721
	tColorMatrix2           = 50722
	tCameraCalibration1     = 50723
	tCameraCalibration2     = 50724
	tAnalogBalance          = 50727
	tAsShotNeutral          = 50728
	tAsShotWhiteXY          = 50729
	tCalibrationIlluminant1 = 50778
	tCalibrationIlluminant2 = 50779
	tActiveArea             = 50829
	tForwardMatrix1         = 50964
	tForwardMatrix2         = 50965

	// CinemaDNG.
	tTimeCode  = 51043
	tFrameRate = 51044
)

// SubfileType bit field.
const (
	FiletypeReducedImage = 1
	FiletypePage         = 2
	FiletypeMask         = 4
)

// PlanarConfiguration.
const (
	PlanarConfigContig   = 1
	PlanarConfigSeparate = 2
)

// Compression. Only uncompressed strips are written.
const (
	CompressionNone = 1
)

// Orientation.
const (
	OrientationTopLeft  = 1
	OrientationTopRight = 2
	OrientationBotRight = 3
	OrientationBotLeft  = 4
	OrientationLeftTop  = 5
	OrientationRightTop = 6
	OrientationRightBot = 7
	OrientationLeftBot  = 8
)

// ResolutionUnit.
const (
	ResUnitNone       = 1
	ResUnitInch       = 2
	ResUnitCentimeter = 3
)

// PhotometricInterpretation.
const (
	PhotometricWhiteIsZero = 0
	PhotometricBlackIsZero = 1
	PhotometricRGB         = 2
	PhotometricCFA         = 32803 // DNG ext
	PhotometricLinearRaw   = 34892 // DNG ext
)

// SampleFormat.
const (
	SampleFormatUint   = 1
	SampleFormatInt    = 2
	SampleFormatIEEEFP = 3
)

// CFALayout. Only the rectangular layout is meaningful for Bayer sensors.
const (
	CFALayoutRectangular = 1
)

// CalibrationIlluminant values (EXIF light sources).
const (
	IlluminantStandardA = 17
	IlluminantD65       = 21
)
