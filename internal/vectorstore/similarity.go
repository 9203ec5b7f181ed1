package vectorstore

import "math"

// Cosine returns the cosine similarity dot(a,b) / (|a|*|b|) between two
// vectors of equal dimensionality. If either vector has zero magnitude the
// similarity is defined as 0 rather than NaN; mismatched lengths also score
// 0 since vectors from different models are never comparable.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
