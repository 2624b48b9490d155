// Package export renders report line items as a semicolon-delimited CSV
// table compatible with the spreadsheet the sellers import into.
package export

import (
	"strconv"
	"strings"

	"dailyreport/internal/models"
)

// Header row in the sheet's locale. Column order is fixed: position,
// volume, bottle, color, quantity, price, sum, remark.
const lineItemHeader = "№;Об'єм;Флакон;Колір;К-сть;Ціна;Сума;Примітка"

// LineItemsCSV encodes line items as UTF-8 CSV with a header row.
// Free-text fields are written as-is, without quoting or escaping of the
// delimiter. Downstream spreadsheet imports depend on this exact byte
// format, so changing it needs coordination with the sheet owners.
func LineItemsCSV(items []models.LineItem) []byte {
	var b strings.Builder
	b.WriteString(lineItemHeader)
	b.WriteString("\n")

	rows := make([]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, strings.Join([]string{
			strconv.Itoa(it.PositionNo),
			it.Volume,
			it.Bottle,
			it.Color,
			formatNumber(it.Quantity),
			formatNumber(it.Price),
			formatNumber(it.Sum),
			it.Remark,
		}, ";"))
	}
	b.WriteString(strings.Join(rows, "\n"))

	return []byte(b.String())
}

// formatNumber renders a quantity or amount with the shortest exact
// decimal form (2 not 2.000000, 5.5 not 5.50).
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
