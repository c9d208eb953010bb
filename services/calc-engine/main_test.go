package main

import (
	"testing"

	"tvm_calculator/pkg/core/calculator"
)

func TestExitCode(t *testing.T) {
	cat := calculator.Default()

	cases := []struct {
		id   string
		in   calculator.Inputs
		want int
	}{
		{"pv_factor", calculator.Inputs{Values: map[string]float64{"rate": 0}}, 3},
		{"irr", calculator.Inputs{Text: map[string]string{"cash_flows": "1,2,3"}}, 3},
		{"pv", calculator.Inputs{Values: map[string]float64{"periods": -1}}, 2},
		{"annuity_payment", calculator.Inputs{}, 2},
		{"fv", calculator.Inputs{Values: map[string]float64{"periods": 100000}}, 3},
	}
	for _, c := range cases {
		_, err := cat.Evaluate(c.id, c.in)
		if err == nil {
			t.Fatalf("%s: expected an error", c.id)
		}
		if got := exitCode(err); got != c.want {
			t.Errorf("%s: expected exit code %d, got %d (%v)", c.id, c.want, got, err)
		}
	}
}
