package e2e_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"tvm_calculator/pkg/api/tvm"
	"tvm_calculator/pkg/core/calculator"
)

type calcResponse struct {
	RequestID string              `json:"request_id"`
	Outputs   []calculator.Output `json:"outputs"`
	Kind      string              `json:"kind"`
	Error     string              `json:"error"`
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	tvm.NewHandler(calculator.Default()).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func calculate(t *testing.T, srv *httptest.Server, req map[string]interface{}) (int, calcResponse) {
	t.Helper()
	body, _ := json.Marshal(req)
	resp, err := http.Post(srv.URL+"/api/tvm/calculate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var out calcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, out
}

func outputByKey(t *testing.T, r calcResponse, key string) calculator.Output {
	t.Helper()
	for _, o := range r.Outputs {
		if o.Key == key {
			return o
		}
	}
	t.Fatalf("No output %q in %+v", key, r.Outputs)
	return calculator.Output{}
}

func TestE2E_Scenarios(t *testing.T) {
	srv := startServer(t)

	cases := []struct {
		name    string
		req     map[string]interface{}
		key     string
		value   float64
		display string
	}{
		{
			name:    "present value",
			req:     map[string]interface{}{"calculator": "pv", "inputs": map[string]float64{"fv": 1000, "rate": 5, "periods": 10}},
			key:     "pv",
			value:   613.913254,
			display: "613.91",
		},
		{
			name:    "npv",
			req:     map[string]interface{}{"calculator": "npv", "inputs": map[string]float64{"rate": 5}, "cash_flows": "-1000,200,300,400,500"},
			key:     "npv",
			value:   219.471311,
			display: "219.47",
		},
		{
			name:    "irr",
			req:     map[string]interface{}{"calculator": "irr", "cash_flows": []float64{-1000, 200, 300, 400, 500}},
			key:     "irr",
			value:   0.128257,
			display: "12.83%",
		},
		{
			name: "wacc",
			req: map[string]interface{}{"calculator": "wacc", "inputs": map[string]float64{
				"equity_value": 5000, "debt_value": 2000, "cost_of_equity": 10, "cost_of_debt": 5, "tax_rate": 30,
			}},
			key:     "wacc",
			value:   0.081429,
			display: "8.14%",
		},
		{
			name: "par bond",
			req: map[string]interface{}{"calculator": "bond_value", "inputs": map[string]float64{
				"face_value": 1000, "coupon_rate": 7, "discount_rate": 7, "periods": 12,
			}},
			key:     "bond_value",
			value:   1000,
			display: "1000.00",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, resp := calculate(t, srv, c.req)
			if status != http.StatusOK {
				t.Fatalf("Expected 200, got %d (%s)", status, resp.Error)
			}
			out := outputByKey(t, resp, c.key)
			if math.Abs(out.Value-c.value) > 1e-6 {
				t.Errorf("Expected value %f, got %f", c.value, out.Value)
			}
			if out.Display != c.display {
				t.Errorf("Expected display %q, got %q", c.display, out.Display)
			}
		})
	}
}

func TestE2E_ZeroRateAnnuityIsUndefined(t *testing.T) {
	srv := startServer(t)

	status, resp := calculate(t, srv, map[string]interface{}{
		"calculator": "pv_factor",
		"inputs":     map[string]float64{"rate": 0, "periods": 10},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", status)
	}
	if resp.Kind != "singular" {
		t.Errorf("Expected kind singular, got %q", resp.Kind)
	}
	if len(resp.Outputs) != 0 {
		t.Errorf("Expected no outputs, got %+v", resp.Outputs)
	}
}

func TestE2E_EveryCalculatorRunsWithDefaults(t *testing.T) {
	srv := startServer(t)

	for _, id := range calculator.Default().IDs() {
		status, resp := calculate(t, srv, map[string]interface{}{"calculator": id})
		if status != http.StatusOK {
			t.Errorf("%s: expected 200 with form defaults, got %d (%s)", id, status, resp.Error)
		}
	}
}
