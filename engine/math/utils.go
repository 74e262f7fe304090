package math

import (
	m "math"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
)

const Pi float32 = m.Pi

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// AlignUp rounds v up to the next multiple of align. align must be > 0.
func AlignUp[T constraints.Integer](v, align T) T {
	return (v + align - 1) / align * align
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Abs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

func DegToRad(degrees float32) float32 {
	return degrees * m.Pi / 180
}

// RandomInRange returns a float in [min, max) drawn from r.
func RandomInRange(r *rand.Rand, min, max float32) float32 {
	return min + r.Float32()*(max-min)
}

func Sin(x float32) float32 { return float32(m.Sin(float64(x))) }

func Cos(x float32) float32 { return float32(m.Cos(float64(x))) }

func RadToDeg(radians float32) float32 {
	return radians * 180 / m.Pi
}
