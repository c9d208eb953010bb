package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"tvm_calculator/pkg/core/calc"
	"tvm_calculator/pkg/core/utils"
)

// ErrUnknownCalculator is returned for ids not in the catalog.
var ErrUnknownCalculator = errors.New("unknown calculator")

// Unit decides how an output is displayed.
type Unit string

const (
	UnitCurrency Unit = "currency" // two decimals
	UnitPercent  Unit = "percent"  // rate × 100, two decimals, "%"
	UnitFactor   Unit = "factor"   // four decimals
)

// Inputs are the raw values a caller supplies. Numeric fields are read from
// Values, cash-flow fields from Text. Absent fields take their defaults.
type Inputs struct {
	Values map[string]float64 `json:"values,omitempty"`
	Text   map[string]string  `json:"text,omitempty"`
}

// Output is one labelled result.
type Output struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Unit    Unit    `json:"unit"`
}

// Result is the outcome of one calculator run.
type Result struct {
	Calculator string          `json:"calculator"`
	Title      string          `json:"title"`
	Outputs    []Output        `json:"outputs"`
	Table      []calc.TableRow `json:"table,omitempty"`
}

// Output returns the output with the given key.
func (r *Result) Output(key string) (Output, bool) {
	for _, o := range r.Outputs {
		if o.Key == key {
			return o, true
		}
	}
	return Output{}, false
}

// InputError reports a field that failed its range check or could not be
// parsed. It unwraps to calc.ErrInvalidInput.
type InputError struct {
	Calculator string
	Field      string
	Reason     string
	Cause      error
}

func (e *InputError) Error() string {
	msg := fmt.Sprintf("%s: field %q: %s", e.Calculator, e.Field, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InputError) Unwrap() error { return calc.ErrInvalidInput }

// Evaluate runs one calculator: defaults are applied, every field is range
// checked and converted, then the formula is called. Formula errors are
// returned unchanged so callers can classify them with errors.Is.
func (c *Catalog) Evaluate(id string, in Inputs) (*Result, error) {
	def, ok := c.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalculator, id)
	}
	ev := evaluators[id]

	a, err := resolve(def, in)
	if err != nil {
		return nil, err
	}

	outputs, table, err := ev.run(a)
	if err != nil {
		return nil, err
	}
	if err := checkFinite(def.ID, outputs, table); err != nil {
		return nil, err
	}

	return &Result{
		Calculator: def.ID,
		Title:      def.Title,
		Outputs:    outputs,
		Table:      table,
	}, nil
}

// args holds converted field values for an evaluator.
type args struct {
	values map[string]float64
	flows  map[string][]float64
}

func (a args) f(key string) float64 { return a.values[key] }

func (a args) n(key string) int { return int(a.values[key]) }

func (a args) cf(key string) []float64 { return a.flows[key] }

func resolve(def *Calculator, in Inputs) (args, error) {
	if err := rejectUnknown(def, in); err != nil {
		return args{}, err
	}

	a := args{values: map[string]float64{}, flows: map[string][]float64{}}
	for _, f := range def.Fields {
		if f.Kind == KindCashFlows {
			text, ok := in.Text[f.Key]
			if !ok {
				text = f.DefaultText
			}
			flows, err := utils.ParseCashFlows(text)
			if err != nil {
				return args{}, &InputError{Calculator: def.ID, Field: f.Key, Reason: "invalid cash flows", Cause: err}
			}
			a.flows[f.Key] = flows
			continue
		}

		v, ok := in.Values[f.Key]
		if !ok {
			v = f.Default
		}
		if err := checkRange(def.ID, f, v); err != nil {
			return args{}, err
		}
		if f.Kind == KindPercent {
			v = utils.PercentToDecimal(v)
		}
		a.values[f.Key] = v
	}
	return a, nil
}

func rejectUnknown(def *Calculator, in Inputs) error {
	var unknown []string
	for key := range in.Values {
		if f, ok := def.Field(key); !ok || f.Kind == KindCashFlows {
			unknown = append(unknown, key)
		}
	}
	for key := range in.Text {
		if f, ok := def.Field(key); !ok || f.Kind != KindCashFlows {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &InputError{Calculator: def.ID, Field: unknown[0], Reason: "not an input of this calculator"}
}

func checkRange(id string, f Field, v float64) error {
	if !isFinite(v) {
		return &InputError{Calculator: id, Field: f.Key, Reason: "must be a finite number"}
	}
	if f.Min != nil && v < *f.Min {
		return &InputError{Calculator: id, Field: f.Key, Reason: fmt.Sprintf("must be at least %g, got %g", *f.Min, v)}
	}
	if f.Max != nil && v > *f.Max {
		return &InputError{Calculator: id, Field: f.Key, Reason: fmt.Sprintf("must be at most %g, got %g", *f.Max, v)}
	}
	if f.Kind == KindCount && (v != math.Trunc(v) || math.Abs(v) > math.MaxInt32) {
		return &InputError{Calculator: id, Field: f.Key, Reason: fmt.Sprintf("must be a whole number, got %g", v)}
	}
	return nil
}

// checkFinite rejects results that overflowed float64. Such inputs pass the
// range checks but have no representable answer.
func checkFinite(id string, outputs []Output, table []calc.TableRow) error {
	for _, o := range outputs {
		if !isFinite(o.Value) {
			return &calc.CalcError{Op: id, Err: calc.ErrSingular, Detail: fmt.Sprintf("%s is not finite (%g)", o.Key, o.Value)}
		}
	}
	for _, row := range table {
		if !isFinite(row.PVFactor) || !isFinite(row.FVFactor) {
			return &calc.CalcError{Op: id, Err: calc.ErrSingular, Detail: fmt.Sprintf("factors at period %d are not finite", row.Period)}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func output(key, label string, v float64, unit Unit) Output {
	var display string
	switch unit {
	case UnitPercent:
		display = utils.FormatPercent(v)
	case UnitFactor:
		display = utils.FormatFactor(v)
	default:
		display = utils.FormatCurrency(v)
	}
	return Output{Key: key, Label: label, Value: v, Display: display, Unit: unit}
}
