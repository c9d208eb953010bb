package calc

// =============================================================================
// COST OF CAPITAL
// =============================================================================

// CostOfEquityDDM calculates required return on equity from the constant
// growth dividend discount model (Gordon).
//
// FORMULA: r_e = D_1 / P_0 + g
//
// Where:
//   - D_1 = Expected dividend per share for next period
//   - P_0 = Current share price
//   - g = Constant dividend growth rate
func CostOfEquityDDM(dividend, price, growthRate float64) float64 {
	return dividend/price + growthRate
}

// CostOfEquityCAPM calculates required return on equity using CAPM.
//
// FORMULA: r_e = r_f + β × (r_m - r_f)
//
// Where:
//   - r_f = Risk-free rate
//   - β = Equity beta (market sensitivity)
//   - r_m = Expected market return
func CostOfEquityCAPM(riskFreeRate, beta, marketReturn float64) float64 {
	return riskFreeRate + beta*(marketReturn-riskFreeRate)
}

// CostOfDebt calculates the after-tax cost of debt implied by reported
// interest expense.
//
// FORMULA: r_d = (Interest Expense / Total Debt) × (1 - T)
func CostOfDebt(interestExpense, totalDebt, taxRate float64) float64 {
	return (interestExpense / totalDebt) * (1 - taxRate)
}

// =============================================================================
// WACC
// =============================================================================

// WACCInput parameters for calculating the weighted average cost of capital.
// Equity and debt are market values in the same currency unit.
type WACCInput struct {
	EquityValue  float64
	DebtValue    float64
	CostOfEquity float64
	CostOfDebt   float64 // Pre-tax
	TaxRate      float64
}

// WACCResult holds the calculated weights and rates.
type WACCResult struct {
	WeightEquity       float64 `json:"weight_equity"`
	WeightDebt         float64 `json:"weight_debt"`
	AfterTaxCostOfDebt float64 `json:"after_tax_cost_of_debt"`
	WACC               float64 `json:"wacc"`
}

// CalculateWACC computes the Weighted Average Cost of Capital.
//
// FORMULA: WACC = r_e × (E/V) + r_d × (1 - T) × (D/V),  V = E + D
//
// Singular when E + D = 0.
func CalculateWACC(input WACCInput) (WACCResult, error) {
	total := input.EquityValue + input.DebtValue
	if total == 0 {
		return WACCResult{}, newError("CalculateWACC", ErrSingular, "equity plus debt is zero")
	}

	we := input.EquityValue / total
	wd := input.DebtValue / total
	kd := input.CostOfDebt * (1 - input.TaxRate)

	return WACCResult{
		WeightEquity:       we,
		WeightDebt:         wd,
		AfterTaxCostOfDebt: kd,
		WACC:               we*input.CostOfEquity + wd*kd,
	}, nil
}
