package calc

import (
	"math"

	"tvm_calculator/pkg/core/solver"
)

// =============================================================================
// BONDS
// Level periodic coupon plus redemption of face value at maturity.
// =============================================================================

// BondValue prices a bond from its required periodic yield.
//
// FORMULA: P = Σ_{t=1..n} [ C / (1 + r)^t ] + F / (1 + r)^n
//
// Where:
//   - C = F × couponRate (periodic coupon)
//   - F = face (par) value
//   - r = discount rate per period
func BondValue(faceValue, couponRate, discountRate float64, periods int) float64 {
	coupon := faceValue * couponRate
	var value float64
	for t := 1; t <= periods; t++ {
		value += coupon / math.Pow(1+discountRate, float64(t))
	}
	return value + faceValue/math.Pow(1+discountRate, float64(periods))
}

// bondValueDerivative is dP/dr.
func bondValueDerivative(faceValue, couponRate, rate float64, periods int) float64 {
	coupon := faceValue * couponRate
	var d float64
	for t := 1; t <= periods; t++ {
		d -= float64(t) * coupon / math.Pow(1+rate, float64(t+1))
	}
	return d - float64(periods)*faceValue/math.Pow(1+rate, float64(periods+1))
}

// BondYTM solves BondValue(face, couponRate, r, n) = price for r.
//
// The solver starts from the textbook approximation
//
//	YTM ≈ (C + (F - P)/n) / ((F + P)/2)
func BondYTM(price, faceValue, couponRate float64, periods int) (float64, error) {
	if periods < 1 {
		return 0, newError("BondYTM", ErrInvalidInput, "periods must be at least 1, got %d", periods)
	}
	if price <= 0 {
		return 0, newError("BondYTM", ErrNoConvergence, "no finite yield prices a bond at %g", price)
	}

	cfg := solver.DefaultConfig()
	if guess := approximateYTM(price, faceValue, couponRate, periods); guess > cfg.Lower && guess < cfg.Upper {
		cfg.Guess = guess
	}

	res, err := solver.Solve(
		func(r float64) float64 { return BondValue(faceValue, couponRate, r, periods) - price },
		func(r float64) float64 { return bondValueDerivative(faceValue, couponRate, r, periods) },
		cfg,
	)
	if err != nil {
		return 0, wrapSolverError("BondYTM", err)
	}
	return res.Root, nil
}

func approximateYTM(price, faceValue, couponRate float64, periods int) float64 {
	denom := (faceValue + price) / 2
	if denom == 0 {
		return 0
	}
	return (faceValue*couponRate + (faceValue-price)/float64(periods)) / denom
}
