package calc

import "math"

// CAGR is the constant annual rate that grows initial into final over years.
//
// FORMULA: CAGR = (Final / Initial)^(1 / years) - 1
//
// Undefined for initial <= 0, years <= 0, or a negative final value (the
// fractional power of a negative base is not real).
func CAGR(initial, final, years float64) (float64, error) {
	if initial <= 0 {
		return 0, newError("CAGR", ErrSingular, "initial value must be positive, got %g", initial)
	}
	if years <= 0 {
		return 0, newError("CAGR", ErrSingular, "years must be positive, got %g", years)
	}
	ratio := final / initial
	if ratio < 0 {
		return 0, newError("CAGR", ErrSingular, "final value %g is negative", final)
	}
	return math.Pow(ratio, 1/years) - 1, nil
}
