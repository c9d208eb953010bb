package tvm

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"tvm_calculator/pkg/core/calculator"
)

func newServer() *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(calculator.Default()).Register(mux)
	return mux
}

func post(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/tvm/calculate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newServer().ServeHTTP(rec, req)

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, out
}

func display(t *testing.T, resp map[string]interface{}, key string) string {
	t.Helper()
	outputs, _ := resp["outputs"].([]interface{})
	for _, o := range outputs {
		m := o.(map[string]interface{})
		if m["key"] == key {
			return m["display"].(string)
		}
	}
	t.Fatalf("No output %q in %v", key, resp)
	return ""
}

func TestHandleCalculate_PresentValue(t *testing.T) {
	rec, resp := post(t, `{"calculator":"pv","inputs":{"fv":1000,"rate":5,"periods":10}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := display(t, resp, "pv"); got != "613.91" {
		t.Errorf("Expected 613.91, got %s", got)
	}
	if id, _ := resp["request_id"].(string); len(id) != 36 {
		t.Errorf("Expected a UUID request id, got %q", id)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Missing CORS header")
	}
}

func TestHandleCalculate_CashFlowForms(t *testing.T) {
	for _, body := range []string{
		`{"calculator":"irr","cash_flows":"-1000,200,300,400,500"}`,
		`{"calculator":"irr","cash_flows":[-1000,200,300,400,500]}`,
		`{"calculator": "irr", "cash_flows": [-1000, 200, 300, 400, 500,],}`,
	} {
		rec, resp := post(t, body)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", body, rec.Code, rec.Body.String())
			continue
		}
		if got := display(t, resp, "irr"); got != "12.83%" {
			t.Errorf("%s: expected 12.83%%, got %s", body, got)
		}
	}
}

func TestHandleCalculate_Errors(t *testing.T) {
	cases := []struct {
		body   string
		status int
		kind   string
	}{
		{`{"calculator":"pv_factor","inputs":{"rate":0}}`, http.StatusUnprocessableEntity, "singular"},
		{`{"calculator":"irr","cash_flows":"100,200,300"}`, http.StatusUnprocessableEntity, "no_convergence"},
		{`{"calculator":"npv","cash_flows":"-100,abc"}`, http.StatusBadRequest, "invalid_input"},
		{`{"calculator":"npv","cash_flows":{"a":1}}`, http.StatusBadRequest, "invalid_input"},
		{`{"calculator":"pv","inputs":{"periods":0}}`, http.StatusBadRequest, "invalid_input"},
		{`{"calculator":"mortgage"}`, http.StatusNotFound, "unknown_calculator"},
		{`[1,2,3]`, http.StatusBadRequest, "invalid_input"},
		{`{"calculator":"fv","inputs":{"pv":1000,"rate":5,"periods":100000}}`, http.StatusUnprocessableEntity, "singular"},
		{`{"calculator":"cagr","inputs":{"years":0.0001}}`, http.StatusUnprocessableEntity, "singular"},
	}

	for _, c := range cases {
		rec, resp := post(t, c.body)
		if rec.Code != c.status {
			t.Errorf("%s: expected %d, got %d: %s", c.body, c.status, rec.Code, rec.Body.String())
		}
		if resp["kind"] != c.kind {
			t.Errorf("%s: expected kind %q, got %v", c.body, c.kind, resp["kind"])
		}
		if resp["error"] == "" {
			t.Errorf("%s: expected an error message", c.body)
		}
	}
}

func TestHandleCalculate_MethodAndPreflight(t *testing.T) {
	mux := newServer()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvm/calculate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/tvm/calculate", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for OPTIONS, got %d", rec.Code)
	}
}

func TestHandleCatalog(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvm/calculators", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var cat struct {
		Calculators []calculator.Calculator `json:"calculators"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cat); err != nil {
		t.Fatal(err)
	}
	if len(cat.Calculators) != len(calculator.Default().Calculators) {
		t.Errorf("Expected %d calculators, got %d", len(calculator.Default().Calculators), len(cat.Calculators))
	}
}

func TestHandleTable_Formats(t *testing.T) {
	mux := newServer()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvm/table?rate=5&periods=4", nil))
	var resp struct {
		Table []struct {
			Period int `json:"period"`
		} `json:"table"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("JSON table: %v", err)
	}
	if len(resp.Table) != 4 || resp.Table[3].Period != 4 {
		t.Errorf("Unexpected JSON table %+v", resp.Table)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvm/table?rate=5&periods=4&format=markdown", nil))
	if !strings.HasPrefix(rec.Body.String(), "| Period | PV Factor | FV Factor |") {
		t.Errorf("Unexpected markdown:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvm/table?rate=10&periods=2&format=html", nil))
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	cells := doc.Find("tbody tr").Last().Find("td")
	if got := cells.Eq(2).Text(); got != "1.2100" {
		t.Errorf("Expected FV factor 1.2100 for period 2, got %q", got)
	}
}

func TestHandleTable_BadQuery(t *testing.T) {
	mux := newServer()
	for _, q := range []string{"rate=abc", "periods=0", "format=pdf"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvm/table?"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestHandleTable_Overflow(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvm/table?rate=100000&periods=1000", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if resp.Kind != "singular" {
		t.Errorf("Expected kind singular, got %q", resp.Kind)
	}
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"value": math.Inf(1)})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected a JSON error body, got %q", rec.Body.String())
	}
	if resp.Kind != "internal" || resp.Error == "" {
		t.Errorf("Unexpected error body %+v", resp)
	}
}
