package utils

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
)

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds a rating average to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// NewRideNumber generates a short human-readable ride reference like
// "RD-48301759". Uniqueness is enforced by the rides index, not here.
func NewRideNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000000))
	if err != nil {
		return "RD-00000000"
	}
	return fmt.Sprintf("RD-%08d", n.Int64())
}
