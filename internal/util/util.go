// Package util holds the sizing formulas and numeric helpers shared by the
// gostructs structures.
package util

import (
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Number is the set of types a numeric aggregate can be built over.
type Number interface {
	constraints.Integer | constraints.Float
}

// CalculateFilterSize returns the number of bits m a Bloom filter needs to hold
// _length_ items at the false positive rate _errorRate_: m = -n·ln(p) / ln²(2)
func CalculateFilterSize(length uint, errorRate float64) uint {
	return uint(math.Ceil(-((float64(length) * math.Log(errorRate)) / math.Pow(math.Log(2), 2))))
}

// CalculateNumHashes returns the optimal number of hash functions k for a filter
// of _size_ bits holding _length_ items: k = (m/n)·ln(2)
func CalculateNumHashes(size, length uint) uint {
	return uint(math.Ceil(float64(size) / float64(length) * math.Log(2)))
}

// EstimateCardinality estimates how many distinct items were inserted into a
// filter of _size_ bits and _numHashes_ probes, given _setBits_ of them are set.
// It returns +Inf once every bit is set.
func EstimateCardinality(size, numHashes, setBits uint) float64 {
	if setBits >= size {
		return math.Inf(1)
	}
	m, k := float64(size), float64(numHashes)
	return -m / k * math.Log(1-float64(setBits)/m)
}

// FalsePositiveRate is the standard approximation (1 - e^(-kn/m))^k
func FalsePositiveRate(size, numHashes uint, items float64) float64 {
	k := float64(numHashes)
	return math.Pow(1-math.Exp(-k*items/float64(size)), k)
}

// Bounds returns the smallest and largest values representable by T. Floats
// report -Inf and +Inf.
func Bounds[T Number]() (lo, hi T) {
	half := 0.5
	if T(half) != 0 {
		inf := math.Inf(1)
		return T(-inf), T(inf)
	}
	var zero T
	// doubling stops at the top bit for unsigned types, one below it for signed
	m := zero + 1
	for m*2 > m {
		m *= 2
	}
	hi = m + (m - 1)
	if zero-1 < zero {
		return -hi - 1, hi
	}
	return zero, hi
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateRandomString returns a random alphabetic string of length _n_ drawn
// from _rnd_
func GenerateRandomString(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rnd.Intn(len(letterBytes))]
	}
	return string(b)
}
