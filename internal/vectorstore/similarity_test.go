package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_SelfSimilarityIsOne(t *testing.T) {
	vecs := [][]float64{
		{1, 0, 0},
		{0.3, -0.7, 2.1},
		{1e-6, 1e-6},
	}
	for _, v := range vecs {
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-12)
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float64{0.2, 0.5, -1.3}
	b := []float64{1.1, -0.4, 0.9}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosine_ScaleInvariant(t *testing.T) {
	a := []float64{0.2, 0.5, -1.3}
	b := []float64{1.1, -0.4, 0.9}
	scaled := make([]float64, len(a))
	for i := range a {
		scaled[i] = a[i] * 42.5
	}
	assert.InDelta(t, Cosine(a, b), Cosine(scaled, b), 1e-12)
}

func TestCosine_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
}

func TestCosine_Opposite(t *testing.T) {
	assert.InDelta(t, -1.0, Cosine([]float64{1, 2}, []float64{-1, -2}), 1e-12)
}

func TestCosine_ZeroVectorScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{1, 1}, []float64{0, 0}))
}

func TestCosine_LengthMismatchScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{1, 0, 0}))
}
