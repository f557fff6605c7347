// Package numeric holds the display rounding used by aggregate read models.
// Aggregates are computed unrounded and rounded only when presented.
package numeric

import (
	"math"
	"math/big"
	"strconv"
)

// Round rounds to places decimals, ties to even. Ties are judged on the
// shortest decimal form of value, so 4.125 is a tie even though its binary
// form sits just below it.
func Round(value float64, places int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || places < 0 {
		return value
	}
	exact, ok := new(big.Rat).SetString(strconv.FormatFloat(value, 'f', -1, 64))
	if !ok {
		return value
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	exact.Mul(exact, new(big.Rat).SetInt(scale))

	num, den := exact.Num(), exact.Denom()
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	twice := new(big.Int).Lsh(new(big.Int).Abs(rem), 1)
	cmp := twice.Cmp(den)
	if cmp > 0 || (cmp == 0 && new(big.Int).Abs(quo).Bit(0) == 1) {
		if num.Sign() < 0 {
			quo.Sub(quo, big.NewInt(1))
		} else {
			quo.Add(quo, big.NewInt(1))
		}
	}
	rounded, _ := new(big.Rat).SetFrac(quo, scale).Float64()
	return rounded
}

func RoundPtr(value *float64, places int) *float64 {
	if value == nil {
		return nil
	}
	rounded := Round(*value, places)
	return &rounded
}

// Ratio is part/total, or 0 when total is 0.
func Ratio(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total)
}
