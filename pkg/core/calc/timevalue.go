// Package calc provides deterministic time-value-of-money calculations.
// Every function is pure: it reads only its arguments and holds no state.
//
// Rates are decimal fractions (0.05 for 5%). Inputs are expected to be
// range-checked by the caller; this package only reports computations that
// are undefined for the given inputs (see errors.go).
package calc

import (
	"math"
)

// =============================================================================
// SINGLE SUM
// =============================================================================

// PresentValue discounts a single future amount.
//
// FORMULA: PV = FV / (1 + r)^n
func PresentValue(futureValue, rate float64, periods int) float64 {
	return futureValue / math.Pow(1+rate, float64(periods))
}

// FutureValue compounds a single present amount.
//
// FORMULA: FV = PV × (1 + r)^n
func FutureValue(presentValue, rate float64, periods int) float64 {
	return presentValue * math.Pow(1+rate, float64(periods))
}

// =============================================================================
// ANNUITY FACTORS
// Ordinary annuity: payments at period end.
// Annuity due: payments at period start, i.e. every payment one period earlier.
// =============================================================================

// PVAnnuityFactor is the present value of 1 paid at the end of each of n periods.
//
// FORMULA: PVIFA = (1 - (1 + r)^-n) / r
//
// Singular at r = 0.
func PVAnnuityFactor(rate float64, periods int) (float64, error) {
	if rate == 0 {
		return 0, newError("PVAnnuityFactor", ErrSingular, "rate is zero")
	}
	return (1 - math.Pow(1+rate, -float64(periods))) / rate, nil
}

// PVAnnuityDueFactor is PVAnnuityFactor shifted one period earlier.
//
// FORMULA: PVIFA_due = PVIFA × (1 + r)
func PVAnnuityDueFactor(rate float64, periods int) (float64, error) {
	f, err := PVAnnuityFactor(rate, periods)
	if err != nil {
		return 0, err
	}
	return f * (1 + rate), nil
}

// FVAnnuityFactor is the future value of 1 paid at the end of each of n periods.
//
// FORMULA: FVIFA = ((1 + r)^n - 1) / r
//
// Singular at r = 0.
func FVAnnuityFactor(rate float64, periods int) (float64, error) {
	if rate == 0 {
		return 0, newError("FVAnnuityFactor", ErrSingular, "rate is zero")
	}
	return (math.Pow(1+rate, float64(periods)) - 1) / rate, nil
}

// FVAnnuityDueFactor is FVAnnuityFactor shifted one period earlier.
//
// FORMULA: FVIFA_due = FVIFA × (1 + r)
func FVAnnuityDueFactor(rate float64, periods int) (float64, error) {
	f, err := FVAnnuityFactor(rate, periods)
	if err != nil {
		return 0, err
	}
	return f * (1 + rate), nil
}

// AnnuityFactorPair holds the ordinary and annuity-due variants of one factor.
type AnnuityFactorPair struct {
	Ordinary float64 `json:"ordinary"`
	Due      float64 `json:"due"`
}

// PVAnnuityFactors returns both present value annuity factors.
func PVAnnuityFactors(rate float64, periods int) (AnnuityFactorPair, error) {
	ord, err := PVAnnuityFactor(rate, periods)
	if err != nil {
		return AnnuityFactorPair{}, err
	}
	return AnnuityFactorPair{Ordinary: ord, Due: ord * (1 + rate)}, nil
}

// FVAnnuityFactors returns both future value annuity factors.
func FVAnnuityFactors(rate float64, periods int) (AnnuityFactorPair, error) {
	ord, err := FVAnnuityFactor(rate, periods)
	if err != nil {
		return AnnuityFactorPair{}, err
	}
	return AnnuityFactorPair{Ordinary: ord, Due: ord * (1 + rate)}, nil
}

// =============================================================================
// PV / FV TABLE
// =============================================================================

// TableRow is one period of a PV/FV factor table.
type TableRow struct {
	Period   int     `json:"period"`
	PVFactor float64 `json:"pv_factor"` // 1 / (1+r)^t
	FVFactor float64 `json:"fv_factor"` // (1+r)^t
}

// PVFVTable lists the single-sum discount and compound factors for t = 1..n,
// in period order.
func PVFVTable(rate float64, periods int) []TableRow {
	if periods < 1 {
		return []TableRow{}
	}
	rows := make([]TableRow, 0, periods)
	for t := 1; t <= periods; t++ {
		growth := math.Pow(1+rate, float64(t))
		rows = append(rows, TableRow{
			Period:   t,
			PVFactor: 1 / growth,
			FVFactor: growth,
		})
	}
	return rows
}
