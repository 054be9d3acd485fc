package validation

import (
	"math/big"
	"regexp"
	"strings"
)

// decimal or scientific notation, with a bounded exponent
var amountPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d{1,2})?$`)

const maxAmountLen = 32

var (
	hundred = big.NewRat(100, 1)
	half    = big.NewRat(1, 2)
)

// ToCents converts a user-facing dollar amount to integer cents.
//
// The amount is parsed as an exact decimal, multiplied by 100 and rounded
// half up, so "10.005" becomes 1001 on every call. It reports false for
// anything that is not a number, is not positive, or rounds to zero cents.
func ToCents(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxAmountLen || !amountPattern.MatchString(s) {
		return 0, false
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() <= 0 {
		return 0, false
	}

	r.Mul(r, hundred)
	r.Add(r, half)

	// positive, so truncation is floor
	cents := new(big.Int).Quo(r.Num(), r.Denom())
	if !cents.IsInt64() || cents.Int64() <= 0 {
		return 0, false
	}
	return cents.Int64(), true
}
