package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Float64 returns a random float in [0, 1)
	Float64() float64

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	result, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fall back to 0 on error (should never happen with crypto/rand)
		return 0
	}
	return int(result.Int64())
}

// Float64 returns a random float in [0, 1) with 53 bits of precision
func (r *CryptoRandom) Float64() float64 {
	return float64(r.Intn(1<<53)) / (1 << 53)
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}

// IntBetween returns a random int in [min, max], both inclusive
func IntBetween(r Random, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// FloatBetween returns a random float in [min, max)
func FloatBetween(r Random, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}
