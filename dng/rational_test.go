package dng

import (
	"math"
	"testing"
)

func TestFloatToRationalExact(t *testing.T) {
	// num and den stay within float64's exact integer range, so the
	// quotient must reproduce the input bit for bit.
	for _, x := range []float32{
		0, 1, -1, 0.5, -0.25, 2.25, 1023, 65535, -4096,
		0.1, 0.7348, -1.6943, float32(1) / 3, 1e6, 123456.789,
		float32(math.Pi), -3.0517578125e-05, // 2^-15
	} {
		num, den, ok := FloatToRational(x)
		if !ok {
			t.Fatalf("FloatToRational(%v): not ok", x)
		}
		if den == 0 {
			t.Fatalf("FloatToRational(%v): zero denominator", x)
		}
		if got := float64(num) / float64(den); got != float64(x) {
			t.Errorf("FloatToRational(%v) = %d/%d = %v", x, num, den, got)
		}
		if num%2 == 0 && den%2 == 0 {
			t.Errorf("FloatToRational(%v) = %d/%d not reduced", x, num, den)
		}
	}
}

func TestFloatToRationalIntegers(t *testing.T) {
	// Integral inputs must come back with denominator 1.
	for _, x := range []float32{1, 3, 1023, 16384, -7} {
		num, den, ok := FloatToRational(x)
		if !ok || den != 1 || num != int64(x) {
			t.Errorf("FloatToRational(%v) = %d/%d, %v, want %d/1", x, num, den, ok, int64(x))
		}
	}
}

func TestFloatToRationalNonFinite(t *testing.T) {
	for _, tc := range []struct {
		x   float32
		num int64
	}{
		{float32(math.Inf(1)), 1},
		{float32(math.Inf(-1)), -1},
		{float32(math.NaN()), 0},
	} {
		num, den, ok := FloatToRational(tc.x)
		if ok {
			t.Errorf("FloatToRational(%v): ok = true", tc.x)
		}
		if num != tc.num || den != 0 {
			t.Errorf("FloatToRational(%v) = (%d, %d), want (%d, 0)", tc.x, num, den, tc.num)
		}
	}
}

func TestFloatToRationalTinyValues(t *testing.T) {
	// Below roughly 2^-8 the power-of-two denominator hits the 32-bit
	// cap and numerator precision is shed instead. The representable
	// quantum is then 2^-31, so the achievable relative error grows as
	// x shrinks; with rounding the result stays within one quantum.
	for _, x := range []float32{1e-6, 1e-4, 2.5e-7} {
		num, den, ok := FloatToRational(x)
		if !ok || den == 0 {
			t.Fatalf("FloatToRational(%v) = (%d, %d), %v", x, num, den, ok)
		}
		got := float64(num) / float64(den)
		maxRel := 1 / (float64(x) * math.Exp2(31))
		if rel := math.Abs(got-float64(x)) / float64(x); rel > maxRel {
			t.Errorf("FloatToRational(%v) = %d/%d = %v, relative error %v exceeds %v", x, num, den, got, rel, maxRel)
		}
	}
}
