// Package vector holds the similarity function and the sharded in-memory corpus.
package vector

import "math"

// epsilon is float32 machine epsilon; it keeps the denominator non-zero.
const epsilon = float32(1.1920929e-07)

// CosineSimilarity returns dot(a, b) / (|a| * |b| + epsilon).
// When the lengths differ only the overlapping prefix is considered, for the
// dot product and for both magnitudes. Arithmetic stays in float32.
func CosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, sumA, sumB float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		sumA += a[i] * a[i]
		sumB += b[i] * b[i]
	}
	magA := float32(math.Sqrt(float64(sumA)))
	magB := float32(math.Sqrt(float64(sumB)))
	return dot / (magA*magB + epsilon)
}
