package domain

import "fmt"

// DiscountPercentage returns round((original-current)/original*100) with
// half-up rounding in exact integer arithmetic. Equal prices give 0. When
// original > current the result is clamped into [1, 99], so a real markdown
// never renders as "0% off" or "100% off".
func DiscountPercentage(original, current Money) (int, error) {
	if original <= 0 || current <= 0 {
		return 0, fmt.Errorf("%w: original %s, current %s must be positive", ErrInvalidPrice, original, current)
	}
	if current > original {
		return 0, fmt.Errorf("%w: current %s exceeds original %s", ErrInvalidPrice, current, original)
	}
	if current == original {
		return 0, nil
	}

	diff := int64(original - current)
	pct := (diff*200 + int64(original)) / (int64(original) * 2)
	return int(min(max(pct, 1), 99)), nil
}
