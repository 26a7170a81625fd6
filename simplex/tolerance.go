package simplex

import "math"

// Epsilon is the single tolerance used for every "effectively zero" and
// "effectively integral" decision. It is relative for magnitudes above 1.
const Epsilon = 1e-12

func tol(scale float64) float64 {
	return Epsilon * math.Max(1, math.Abs(scale))
}

// ApproxZero reports whether v is zero within tolerance.
func ApproxZero(v float64) bool {
	return math.Abs(v) <= Epsilon
}

// ApproxEq reports whether a and b agree within tolerance.
func ApproxEq(a, b float64) bool {
	return math.Abs(a-b) <= tol(math.Max(math.Abs(a), math.Abs(b)))
}

// Fract returns the fractional part of v in [0, 1).
func Fract(v float64) float64 {
	return v - math.Floor(v)
}

// IsFractional reports whether the fractional part of v lies strictly
// between the tolerance and one minus the tolerance.
func IsFractional(v float64) bool {
	f, t := Fract(v), tol(v)
	return f > t && f < 1-t
}

// IsIntegral is the complement of IsFractional.
func IsIntegral(v float64) bool {
	return !IsFractional(v)
}
