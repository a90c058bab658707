package search

import (
	"hash/fnv"
	"math"
)

const vectorDimension = 1536

// textToVector builds an L2-normalized hashed bag-of-words vector.
func textToVector(text string, dimension int) []float64 {
	vector := make([]float64, dimension)
	for _, word := range tokenize(text) {
		hasher := fnv.New32a()
		hasher.Write([]byte(word))
		vector[hasher.Sum32()%uint32(dimension)] += 1.0
	}

	var magnitude float64
	for _, value := range vector {
		magnitude += value * value
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}

	return vector
}

// cosine assumes both vectors are normalized.
func cosine(a []float64, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
