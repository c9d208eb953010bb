package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tvm_calculator/pkg/core/calc"
)

// PercentToDecimal converts a whole-number percentage ("5" meaning 5%) to the
// decimal fraction used by the formulas.
func PercentToDecimal(percent float64) float64 {
	return percent / 100
}

// FormatPercent renders a decimal rate as a percentage with two decimals,
// e.g. 0.128257 -> "12.83%".
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// FormatCurrency renders an amount with two decimals.
func FormatCurrency(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatFactor renders a dimensionless factor with four decimals.
func FormatFactor(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// ParseError reports the first cash-flow token that is not a number.
type ParseError struct {
	Index int // zero-based position in the list
	Token string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("cash flow %d is empty", e.Index+1)
	}
	return fmt.Sprintf("cash flow %d (%q) is not a number", e.Index+1, e.Token)
}

func (e *ParseError) Unwrap() error { return calc.ErrInvalidInput }

// ParseCashFlows parses a delimited list of signed decimals such as
// "-1000, 200, 300". Commas are the separator; semicolons and line breaks
// are accepted as well. Empty or non-numeric entries fail the whole parse.
func ParseCashFlows(text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no cash flows given: %w", calc.ErrInvalidInput)
	}

	normalized := strings.NewReplacer(";", ",", "\r\n", ",", "\n", ",").Replace(text)
	tokens := strings.Split(normalized, ",")

	flows := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, &ParseError{Index: i}
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Index: i, Token: tok}
		}
		flows = append(flows, v)
	}
	return flows, nil
}

// FormatCashFlows is the inverse of ParseCashFlows for display.
func FormatCashFlows(flows []float64) string {
	parts := make([]string, len(flows))
	for i, v := range flows {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
