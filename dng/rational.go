package dng

import "math"

// floatMantBits is the number of significant bits in a float32.
const floatMantBits = 24

// maxDenShift caps the power-of-two denominator so it stays representable
// in the 32-bit halves of a TIFF RATIONAL.
const maxDenShift = 31

// FloatToRational converts a float32 to a TIFF rational pair num/den.
//
// For finite x the mantissa is scaled to an integer numerator and the
// residual binary exponent becomes a power-of-two denominator; the fraction
// is then reduced by halving while both parts stay exactly divisible by 2.
// Values whose reduced form fits in 32 bits are recovered exactly by
// num/den.
//
// Non-finite inputs yield the degenerate pair (sign(x), 0) and ok == false.
// Callers writing metadata should store the sentinel rather than abort: an
// edge frame may legitimately carry a degenerate field.
func FloatToRational(x float32) (num, den int64, ok bool) {
	if math.IsNaN(float64(x)) {
		return 0, 0, false
	}
	if math.IsInf(float64(x), 1) {
		return 1, 0, false
	}
	if math.IsInf(float64(x), -1) {
		return -1, 0, false
	}
	if x == 0 {
		return 0, 1, true
	}

	frac, exp := math.Frexp(float64(x))
	// frac is in [0.5, 1); scaling by 2^24 makes it an exact integer for
	// any float32 input.
	num = int64(frac * (1 << floatMantBits))
	exp -= floatMantBits
	den = 1

	for exp > 0 {
		num <<= 1
		exp--
	}
	shift := 0
	for exp < 0 {
		switch {
		case num&1 == 0:
			num >>= 1
		case shift < maxDenShift:
			den <<= 1
			shift++
		default:
			// Denominator at the 32-bit cap: give up one bit of
			// numerator precision per remaining exponent step,
			// rounding the shifted-out bit instead of truncating.
			num = (num >> 1) + (num & 1)
		}
		exp++
	}

	for num&1 == 0 && den > 1 {
		num >>= 1
		den >>= 1
	}
	return num, den, true
}
