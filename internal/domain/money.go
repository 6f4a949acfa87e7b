package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrInvalidPrice is returned for prices that are not positive or for a
// current price above the original one.
var ErrInvalidPrice = errors.New("invalid price")

// Money is an amount in minor units (cents).
type Money int64

// ParseMoney converts a decimal string such as "129.99" or "20" into Money,
// rounding half-up to the cent. Exponent forms ("1.5e2") are accepted since
// JSON numbers may use them.
func ParseMoney(s string) (Money, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPrice, s)
	}
	if r.Sign() < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, s)
	}

	r.Mul(r, big.NewRat(100, 1))
	// floor((2n + d) / 2d) rounds non-negative values half-up.
	num := new(big.Int).Mul(r.Num(), big.NewInt(2))
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	cents := num.Quo(num, den)
	if !cents.IsInt64() {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidPrice, s)
	}
	return Money(cents.Int64()), nil
}

// String formats m as a decimal without currency: 20, 19.99, 0.5 → "0.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign, v = "-", -v
	}
	if v%100 == 0 {
		return sign + strconv.FormatInt(v/100, 10)
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON writes m as a JSON number in major units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON reads a JSON number (or numeric string) in major units.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return nil
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
