// Package solver provides the bounded root finder shared by the rate
// calculators (IRR and bond yield to maturity).
//
// The method is a safeguarded Newton-Raphson: Newton (or secant) steps are
// taken while they stay inside a bracket that is known to contain a sign
// change, and bisection is used otherwise. When the starting bracket shows no
// sign change, its upper end is doubled up to MaxUpper before giving up.
// Every call is bounded by an iteration budget.
package solver

import (
	"errors"
	"fmt"
	"math"
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

const (
	DefaultGuess     = 0.10
	DefaultLower     = -0.99
	DefaultUpper     = 10.0
	DefaultMaxUpper  = 1e6
	DefaultTolerance = 1e-10
	DefaultMaxIter   = 100

	// stepTolerance stops iteration once the step is negligible relative to x.
	stepTolerance = 1e-14
)

var (
	// ErrNoBracket is returned when f does not change sign over the bracket
	// and an unbracketed Newton run could not locate a root either.
	ErrNoBracket = errors.New("solver: no sign change in bracket")
	// ErrMaxIterations is returned when the iteration budget is exhausted.
	ErrMaxIterations = errors.New("solver: iteration budget exhausted")
)

// Config bounds a single Solve call. Zero fields take the package defaults.
type Config struct {
	Guess     float64
	Lower     float64
	Upper     float64
	MaxUpper  float64 // widening limit for Upper; at or below Upper disables it
	Tolerance float64 // on |f(x)|
	MaxIter   int
}

// DefaultConfig returns the configuration used by the rate calculators.
func DefaultConfig() Config {
	return Config{
		Guess:     DefaultGuess,
		Lower:     DefaultLower,
		Upper:     DefaultUpper,
		MaxUpper:  DefaultMaxUpper,
		Tolerance: DefaultTolerance,
		MaxIter:   DefaultMaxIter,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Lower == 0 && c.Upper == 0 {
		c.Lower, c.Upper = d.Lower, d.Upper
	}
	if c.MaxUpper == 0 {
		c.MaxUpper = d.MaxUpper
	}
	if c.Guess == 0 {
		c.Guess = d.Guess
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.MaxIter <= 0 {
		c.MaxIter = d.MaxIter
	}
	return c
}

// Result is a converged root.
type Result struct {
	Root       float64
	Iterations int
}

// Solve finds x in [cfg.Lower, cfg.MaxUpper] with f(x) ≈ 0, preferring a root
// inside [cfg.Lower, cfg.Upper]. df is the analytic derivative of f; when nil,
// secant steps are used.
func Solve(f, df Func, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if cfg.Lower >= cfg.Upper {
		return Result{}, fmt.Errorf("%w: empty bracket [%g, %g]", ErrNoBracket, cfg.Lower, cfg.Upper)
	}

	lo, hi := cfg.Lower, cfg.Upper
	flo, fhi := f(lo), f(hi)
	if math.Abs(flo) < cfg.Tolerance {
		return Result{Root: lo}, nil
	}
	if math.Abs(fhi) < cfg.Tolerance {
		return Result{Root: hi}, nil
	}

	if sameSign(flo, fhi) || math.IsNaN(flo) || math.IsNaN(fhi) {
		// A root pair may sit strictly inside the bracket (non-conventional
		// cash flows). Give plain Newton one chance before giving up.
		if res, err := newton(f, df, cfg); err == nil {
			return res, nil
		}
		return widen(f, df, cfg, hi, fhi)
	}

	return bracketed(f, df, cfg, lo, hi, flo)
}

// widen doubles the upper end of the bracket until f changes sign between
// consecutive ends or cfg.MaxUpper is reached.
func widen(f, df Func, cfg Config, hi, fhi float64) (Result, error) {
	for hi < cfg.MaxUpper {
		next := hi * 2
		if hi < 1 {
			next = hi + 1
		}
		next = math.Min(next, cfg.MaxUpper)
		fnext := f(next)
		if math.IsNaN(fnext) {
			break
		}
		if math.Abs(fnext) < cfg.Tolerance {
			return Result{Root: next}, nil
		}
		if !math.IsNaN(fhi) && !sameSign(fhi, fnext) {
			return bracketed(f, df, cfg, hi, next, fhi)
		}
		hi, fhi = next, fnext
	}
	return Result{}, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoBracket, cfg.Lower, f(cfg.Lower), hi, fhi)
}

// bracketed runs safeguarded Newton inside [lo, hi] where f(lo) and f(hi)
// have opposite signs.
func bracketed(f, df Func, cfg Config, lo, hi, flo float64) (Result, error) {
	x := cfg.Guess
	if x <= lo || x >= hi {
		x = lo + (hi-lo)/2
	}
	prevX, prevF := math.NaN(), math.NaN()

	for iter := 1; iter <= cfg.MaxIter; iter++ {
		fx := f(x)
		if math.Abs(fx) < cfg.Tolerance {
			return Result{Root: x, Iterations: iter}, nil
		}

		if sameSign(fx, flo) {
			lo, flo = x, fx
		} else {
			hi = x
		}

		next, ok := step(x, fx, prevX, prevF, df)
		if !ok || next <= lo || next >= hi {
			next = lo + (hi-lo)/2
		}
		if math.Abs(next-x) <= stepTolerance*(1+math.Abs(x)) {
			return Result{Root: next, Iterations: iter}, nil
		}
		prevX, prevF = x, fx
		x = next
	}

	return Result{}, fmt.Errorf("%w: %d iterations, last x=%g", ErrMaxIterations, cfg.MaxIter, x)
}

// newton runs unbracketed Newton (or secant) from cfg.Guess and accepts only
// a converged root that lies inside the configured bounds.
func newton(f, df Func, cfg Config) (Result, error) {
	x := cfg.Guess
	prevX, prevF := math.NaN(), math.NaN()
	if df == nil {
		prevX = x + 1e-4
		prevF = f(prevX)
	}

	for iter := 1; iter <= cfg.MaxIter; iter++ {
		fx := f(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return Result{}, ErrNoBracket
		}
		if math.Abs(fx) < cfg.Tolerance {
			if x < cfg.Lower || x > cfg.Upper {
				return Result{}, ErrNoBracket
			}
			return Result{Root: x, Iterations: iter}, nil
		}

		next, ok := step(x, fx, prevX, prevF, df)
		if !ok || next < cfg.Lower || next > cfg.Upper {
			return Result{}, ErrNoBracket
		}
		prevX, prevF = x, fx
		x = next
	}

	return Result{}, ErrMaxIterations
}

// step returns the Newton step when df is known, otherwise the secant step
// through the previous point.
func step(x, fx, prevX, prevF float64, df Func) (float64, bool) {
	var slope float64
	if df != nil {
		slope = df(x)
	} else {
		if math.IsNaN(prevX) || prevX == x {
			return 0, false
		}
		slope = (fx - prevF) / (x - prevX)
	}
	if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0, false
	}
	next := x - fx/slope
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return 0, false
	}
	return next, true
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
