package calc

import (
	"errors"
	"math"

	"tvm_calculator/pkg/core/solver"
)

// NPV discounts a cash-flow series. The first flow is at t = 0 and is not
// discounted.
//
// FORMULA: NPV = Σ [ CF_t / (1 + r)^t ],  t = 0..n-1
func NPV(rate float64, cashFlows []float64) float64 {
	var npv float64
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// npvDerivative is dNPV/dr = Σ [ -t × CF_t / (1 + r)^(t+1) ].
func npvDerivative(rate float64, cashFlows []float64) float64 {
	var d float64
	for t, cf := range cashFlows {
		if t == 0 {
			continue
		}
		d -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// IRR returns the rate r at which NPV(r, cashFlows) = 0.
//
// At least two flows are required, and the series must change sign at least
// once; otherwise no real rate exists and ErrNoConvergence is returned.
func IRR(cashFlows []float64) (float64, error) {
	if len(cashFlows) < 2 {
		return 0, newError("IRR", ErrInvalidInput, "need at least 2 cash flows, got %d", len(cashFlows))
	}
	if !changesSign(cashFlows) {
		return 0, newError("IRR", ErrNoConvergence, "cash flows never change sign")
	}

	res, err := solver.Solve(
		func(r float64) float64 { return NPV(r, cashFlows) },
		func(r float64) float64 { return npvDerivative(r, cashFlows) },
		solver.DefaultConfig(),
	)
	if err != nil {
		return 0, wrapSolverError("IRR", err)
	}
	return res.Root, nil
}

func changesSign(values []float64) bool {
	var pos, neg bool
	for _, v := range values {
		if v > 0 {
			pos = true
		} else if v < 0 {
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}

func wrapSolverError(op string, err error) error {
	detail := "solver failed"
	switch {
	case errors.Is(err, solver.ErrNoBracket):
		detail = "no rate brackets a root"
	case errors.Is(err, solver.ErrMaxIterations):
		detail = "iteration budget exhausted"
	}
	return &CalcError{Op: op, Err: ErrNoConvergence, Detail: detail, Cause: err}
}
