package models

import (
	"fmt"
	"math/big"
	"strings"
)

// FormatUnits renders an integer amount with the given number of decimals,
// trimming trailing zeros: FormatUnits(1500000000000000000, 18) == "1.5".
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)
	s := abs.String()
	d := int(decimals)
	if d > 0 {
		if len(s) <= d {
			s = strings.Repeat("0", d-len(s)+1) + s
		}
		whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
		s = whole
		if frac != "" {
			s += "." + frac
		}
	}
	if neg {
		s = "-" + s
	}
	return s
}

// ParseUnits parses a decimal string into an integer amount with the given decimals.
// It rejects more fractional digits than the token supports.
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", ""))
	if value == "" {
		return nil, fmt.Errorf("empty amount")
	}
	neg := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	whole, frac, _ := strings.Cut(value, ".")
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", value, decimals)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	out, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if neg {
		out.Neg(out)
	}
	return out, nil
}
