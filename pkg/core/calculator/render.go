package calculator

import (
	"strconv"

	"tvm_calculator/pkg/core/calc"
	"tvm_calculator/pkg/core/utils"
)

var tableHeaders = []string{"Period", "PV Factor", "FV Factor"}

// TableMarkdown renders PV/FV table rows as a Markdown table with factors to
// four decimals, keeping period order.
func TableMarkdown(rows []calc.TableRow) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			strconv.Itoa(r.Period),
			utils.FormatFactor(r.PVFactor),
			utils.FormatFactor(r.FVFactor),
		}
	}
	return utils.MarkdownTable(tableHeaders, cells)
}

// TableHTML renders PV/FV table rows as an HTML table fragment.
func TableHTML(rows []calc.TableRow) (string, error) {
	return utils.MarkdownToHTML(TableMarkdown(rows))
}
