package calculator

import (
	"tvm_calculator/pkg/core/calc"
)

type evaluator struct {
	fields []string // keys the catalog must declare
	run    func(a args) ([]Output, []calc.TableRow, error)
}

var evaluators = map[string]evaluator{
	"pv": {
		fields: []string{"fv", "rate", "periods"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			pv := calc.PresentValue(a.f("fv"), a.f("rate"), a.n("periods"))
			return []Output{output("pv", "Present Value (PV)", pv, UnitCurrency)}, nil, nil
		},
	},
	"fv": {
		fields: []string{"pv", "rate", "periods"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			fv := calc.FutureValue(a.f("pv"), a.f("rate"), a.n("periods"))
			return []Output{output("fv", "Future Value (FV)", fv, UnitCurrency)}, nil, nil
		},
	},
	"pv_factor": {
		fields: []string{"rate", "periods"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			pair, err := calc.PVAnnuityFactors(a.f("rate"), a.n("periods"))
			if err != nil {
				return nil, nil, err
			}
			return []Output{
				output("pv_factor_annuity", "PV Factor (Annuity)", pair.Ordinary, UnitFactor),
				output("pv_factor_annuity_due", "PV Factor (Annuity Due)", pair.Due, UnitFactor),
			}, nil, nil
		},
	},
	"fv_factor": {
		fields: []string{"rate", "periods"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			pair, err := calc.FVAnnuityFactors(a.f("rate"), a.n("periods"))
			if err != nil {
				return nil, nil, err
			}
			return []Output{
				output("fv_factor_annuity", "FV Factor (Annuity)", pair.Ordinary, UnitFactor),
				output("fv_factor_annuity_due", "FV Factor (Annuity Due)", pair.Due, UnitFactor),
			}, nil, nil
		},
	},
	"npv": {
		fields: []string{"rate", "cash_flows"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			npv := calc.NPV(a.f("rate"), a.cf("cash_flows"))
			return []Output{output("npv", "Net Present Value (NPV)", npv, UnitCurrency)}, nil, nil
		},
	},
	"irr": {
		fields: []string{"cash_flows"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			irr, err := calc.IRR(a.cf("cash_flows"))
			if err != nil {
				return nil, nil, err
			}
			return []Output{output("irr", "Internal Rate of Return (IRR)", irr, UnitPercent)}, nil, nil
		},
	},
	"bond_value": {
		fields: []string{"face_value", "coupon_rate", "discount_rate", "periods"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			v := calc.BondValue(a.f("face_value"), a.f("coupon_rate"), a.f("discount_rate"), a.n("periods"))
			return []Output{output("bond_value", "Bond Value", v, UnitCurrency)}, nil, nil
		},
	},
	"bond_ytm": {
		fields: []string{"price", "face_value", "coupon_rate", "periods"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			ytm, err := calc.BondYTM(a.f("price"), a.f("face_value"), a.f("coupon_rate"), a.n("periods"))
			if err != nil {
				return nil, nil, err
			}
			return []Output{output("ytm", "Yield to Maturity (YTM)", ytm, UnitPercent)}, nil, nil
		},
	},
	"cagr": {
		fields: []string{"initial_value", "final_value", "years"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			g, err := calc.CAGR(a.f("initial_value"), a.f("final_value"), a.f("years"))
			if err != nil {
				return nil, nil, err
			}
			return []Output{output("cagr", "Compound Annual Growth Rate (CAGR)", g, UnitPercent)}, nil, nil
		},
	},
	"cost_of_equity_ddm": {
		fields: []string{"dividend", "price", "growth_rate"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			ke := calc.CostOfEquityDDM(a.f("dividend"), a.f("price"), a.f("growth_rate"))
			return []Output{output("cost_of_equity", "Cost of Equity (DDM)", ke, UnitPercent)}, nil, nil
		},
	},
	"cost_of_equity_capm": {
		fields: []string{"risk_free_rate", "beta", "market_return"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			ke := calc.CostOfEquityCAPM(a.f("risk_free_rate"), a.f("beta"), a.f("market_return"))
			return []Output{output("cost_of_equity", "Cost of Equity (CAPM)", ke, UnitPercent)}, nil, nil
		},
	},
	"cost_of_debt": {
		fields: []string{"interest_expense", "total_debt", "tax_rate"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			kd := calc.CostOfDebt(a.f("interest_expense"), a.f("total_debt"), a.f("tax_rate"))
			return []Output{output("cost_of_debt", "Cost of Debt (After Tax)", kd, UnitPercent)}, nil, nil
		},
	},
	"wacc": {
		fields: []string{"equity_value", "debt_value", "cost_of_equity", "cost_of_debt", "tax_rate"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			res, err := calc.CalculateWACC(calc.WACCInput{
				EquityValue:  a.f("equity_value"),
				DebtValue:    a.f("debt_value"),
				CostOfEquity: a.f("cost_of_equity"),
				CostOfDebt:   a.f("cost_of_debt"),
				TaxRate:      a.f("tax_rate"),
			})
			if err != nil {
				return nil, nil, err
			}
			return []Output{
				output("weight_equity", "Weight of Equity", res.WeightEquity, UnitPercent),
				output("weight_debt", "Weight of Debt", res.WeightDebt, UnitPercent),
				output("after_tax_cost_of_debt", "After-Tax Cost of Debt", res.AfterTaxCostOfDebt, UnitPercent),
				output("wacc", "Weighted Average Cost of Capital (WACC)", res.WACC, UnitPercent),
			}, nil, nil
		},
	},
	"pvfv_table": {
		fields: []string{"rate", "periods"},
		run: func(a args) ([]Output, []calc.TableRow, error) {
			return []Output{}, calc.PVFVTable(a.f("rate"), a.n("periods")), nil
		},
	},
}
