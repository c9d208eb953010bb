// Package tvm serves the calculator catalog over HTTP.
package tvm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"tvm_calculator/pkg/core/calc"
	"tvm_calculator/pkg/core/calculator"
	"tvm_calculator/pkg/core/utils"
)

const maxBodyBytes = 1 << 20

// CalculateRequest selects one calculator and supplies its inputs.
// CashFlows may be a delimited string ("-1000,200,300") or a JSON array.
type CalculateRequest struct {
	Calculator string             `json:"calculator"`
	Inputs     map[string]float64 `json:"inputs"`
	CashFlows  json.RawMessage    `json:"cash_flows,omitempty"`
}

type CalculateResponse struct {
	RequestID string `json:"request_id"`
	*calculator.Result
}

type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
	Kind      string `json:"kind"`
}

// Handler holds dependencies for calculator endpoints
type Handler struct {
	Catalog *calculator.Catalog
}

// NewHandler creates a new calculator handler
func NewHandler(cat *calculator.Catalog) *Handler {
	return &Handler{Catalog: cat}
}

// Register mounts the calculator endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/tvm/calculators", h.HandleCatalog)
	mux.HandleFunc("/api/tvm/calculate", h.HandleCalculate)
	mux.HandleFunc("/api/tvm/table", h.HandleTable)
}

func setCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleCatalog lists calculators with their fields, labels and defaults.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog)
}

// HandleCalculate runs one calculator. Request bodies are decoded leniently
// (trailing commas, comments, unquoted keys are accepted).
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, requestID, http.StatusBadRequest, "invalid_input", fmt.Errorf("failed to read body: %w", err))
		return
	}

	var req CalculateRequest
	decoder, err := utils.SmartParse(string(body), &req)
	if err != nil {
		writeError(w, requestID, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if decoder != utils.DecoderJSON {
		fmt.Printf("[TVM] %s body accepted via %s\n", requestID, decoder)
	}

	in := calculator.Inputs{Values: req.Inputs}
	if len(req.CashFlows) > 0 && string(req.CashFlows) != "null" {
		text, err := cashFlowText(req.CashFlows)
		if err != nil {
			writeError(w, requestID, http.StatusBadRequest, "invalid_input", err)
			return
		}
		in.Text = map[string]string{"cash_flows": text}
	}

	res, err := h.Catalog.Evaluate(req.Calculator, in)
	if err != nil {
		status, kind := classify(err)
		fmt.Printf("[TVM] %s %s failed (%s): %v\n", requestID, req.Calculator, kind, err)
		writeError(w, requestID, status, kind, err)
		return
	}

	fmt.Printf("[TVM] %s %s ok\n", requestID, req.Calculator)
	writeJSON(w, http.StatusOK, CalculateResponse{RequestID: requestID, Result: res})
}

// HandleTable renders the PV/FV factor table.
// Query: rate (percent), periods, format=json|markdown|html.
func (h *Handler) HandleTable(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()
	q := r.URL.Query()

	values := map[string]float64{}
	for _, key := range []string{"rate", "periods"} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, requestID, http.StatusBadRequest, "invalid_input", fmt.Errorf("%s: %q is not a number", key, raw))
			return
		}
		values[key] = v
	}

	res, err := h.Catalog.Evaluate("pvfv_table", calculator.Inputs{Values: values})
	if err != nil {
		status, kind := classify(err)
		writeError(w, requestID, status, kind, err)
		return
	}

	switch format := q.Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, CalculateResponse{RequestID: requestID, Result: res})
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, calculator.TableMarkdown(res.Table))
	case "html":
		html, err := calculator.TableHTML(res.Table)
		if err != nil {
			writeError(w, requestID, http.StatusInternalServerError, "render", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, html)
	default:
		writeError(w, requestID, http.StatusBadRequest, "invalid_input", fmt.Errorf("unknown format %q", format))
	}
}

// cashFlowText accepts either a JSON string or a JSON array of numbers.
func cashFlowText(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var flows []float64
	if err := json.Unmarshal(raw, &flows); err != nil {
		return "", fmt.Errorf("cash_flows must be a string or an array of numbers: %w", calc.ErrInvalidInput)
	}
	return utils.FormatCashFlows(flows), nil
}

// classify maps an evaluation error to an HTTP status and error kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, calculator.ErrUnknownCalculator):
		return http.StatusNotFound, "unknown_calculator"
	case errors.Is(err, calc.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, calc.ErrSingular):
		return http.StatusUnprocessableEntity, "singular"
	case errors.Is(err, calc.ErrNoConvergence):
		return http.StatusUnprocessableEntity, "no_convergence"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeJSON encodes before writing the header so an encoding failure can
// still be reported as a 500 with a JSON body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		fmt.Printf("[API] Failed to encode response: %v\n", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "failed to encode response: " + err.Error(), Kind: "internal"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, requestID string, status int, kind string, err error) {
	writeJSON(w, status, ErrorResponse{RequestID: requestID, Error: err.Error(), Kind: kind})
}
