package accounting

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func mul(a, b float64) float64 {
	return dec(a).Mul(dec(b)).InexactFloat64()
}

func add(a, b float64) float64 {
	return dec(a).Add(dec(b)).InexactFloat64()
}

func sub(a, b float64) float64 {
	return dec(a).Sub(dec(b)).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// outOfRange reports a result too large to store as a float64.
func outOfRange(what string) error {
	return fmt.Errorf("%w: %s is out of range", ErrValidation, what)
}
