package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"tvm_calculator/pkg/core/calc"
	"tvm_calculator/pkg/core/calculator"
	"tvm_calculator/pkg/core/utils"
)

// payload is the -data flag: field values keyed as in the catalog.
// Percent fields are whole numbers; cash_flows is a delimited string.
type payload struct {
	Inputs    map[string]float64 `json:"inputs"`
	CashFlows string             `json:"cash_flows"`
}

func main() {
	calcID := flag.String("calc", "", "Calculator id (see -list)")
	dataStr := flag.String("data", "", "JSON data payload, e.g. '{\"inputs\":{\"rate\":5}}'")
	format := flag.String("format", "text", "Output format: text, json or markdown")
	catalogPath := flag.String("catalog", "", "Optional catalog YAML override")
	list := flag.Bool("list", false, "List calculators and exit")
	flag.Parse()

	catalog := calculator.Default()
	if *catalogPath != "" {
		var err error
		catalog, err = calculator.LoadCatalogFile(*catalogPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *list {
		printCatalog(catalog)
		return
	}

	if *calcID == "" {
		fmt.Println("Error: No calculator provided (use -calc, or -list to see choices)")
		os.Exit(1)
	}

	var data payload
	if *dataStr != "" {
		if _, err := utils.SmartParse(*dataStr, &data); err != nil {
			fmt.Printf("Error unmarshaling data: %v\n", err)
			os.Exit(1)
		}
	}

	in := calculator.Inputs{Values: data.Inputs}
	if data.CashFlows != "" {
		in.Text = map[string]string{"cash_flows": data.CashFlows}
	}

	res, err := catalog.Evaluate(*calcID, in)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(exitCode(err))
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Printf("Error encoding result: %v\n", err)
			os.Exit(1)
		}
	case "markdown":
		fmt.Printf("## %s\n\n", res.Title)
		for _, o := range res.Outputs {
			fmt.Printf("**%s:** %s\n\n", o.Label, o.Display)
		}
		if len(res.Table) > 0 {
			fmt.Print(calculator.TableMarkdown(res.Table))
		}
	case "text":
		printText(res)
	default:
		fmt.Printf("Unknown format: %s\n", *format)
		os.Exit(1)
	}
}

func printCatalog(catalog *calculator.Catalog) {
	for _, c := range catalog.Calculators {
		keys := make([]string, len(c.Fields))
		for i, f := range c.Fields {
			keys[i] = f.Key
		}
		fmt.Printf("%-20s %-45s [%s]\n", c.ID, c.Title, strings.Join(keys, ", "))
	}
}

func printText(res *calculator.Result) {
	fmt.Println(res.Title)
	for _, o := range res.Outputs {
		fmt.Printf("  %s: %s\n", o.Label, o.Display)
	}
	if len(res.Table) > 0 {
		fmt.Printf("  %6s  %10s  %10s\n", "Period", "PV Factor", "FV Factor")
		for _, row := range res.Table {
			fmt.Printf("  %6d  %10s  %10s\n", row.Period, utils.FormatFactor(row.PVFactor), utils.FormatFactor(row.FVFactor))
		}
	}
}

// exitCode distinguishes input errors (2) from undefined results (3).
func exitCode(err error) int {
	switch {
	case errors.Is(err, calc.ErrSingular), errors.Is(err, calc.ErrNoConvergence):
		return 3
	case errors.Is(err, calc.ErrInvalidInput), errors.Is(err, calculator.ErrUnknownCalculator):
		return 2
	default:
		return 1
	}
}
