package ingest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/table"
)

// cardHeaderMarker identifies the header row of a card statement sheet;
// issuers prepend a variable number of banner rows above it.
const cardHeaderMarker = "תאריך עסקה"

// cardAmountColumns are the charge-amount header candidates across
// issuers, in preference order.
var cardAmountColumns = []string{"סכום חיוב", "סכום עסקה", "סכום", "חיוב", `סכום בש"ח`, "סכום בשח"}

// ReadCard parses a credit-card statement .xlsx. The header row is
// located by its transaction-date marker; amounts follow the issuer
// convention of listing charges as positive, so a mostly-positive
// amount column is negated into outflows. Output columns: source,
// account_name, date, charge_date, merchant_raw, description_raw,
// amount_ils, currency.
func ReadCard(path, accountName string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening card statement %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet, headerIdx, rows, err := findCardHeader(f, path)
	if err != nil {
		return nil, err
	}

	header := rows[headerIdx]
	colIdx := make(map[string]int, len(header))
	for i, cell := range header {
		colIdx[strings.TrimSpace(cell)] = i
	}

	amountIdx, err := pickCardAmountColumn(colIdx, path, sheet)
	if err != nil {
		return nil, err
	}

	dataRows := rows[headerIdx+1:]
	amounts := make([]decimal.Decimal, len(dataRows))
	for i, row := range dataRows {
		amounts[i] = parseAmount(cellAt(row, amountIdx))
	}
	if chargesListedPositive(amounts) {
		for i := range amounts {
			amounts[i] = amounts[i].Abs().Neg()
		}
	}

	out := table.New(
		"source", "account_name", "date", "charge_date",
		"merchant_raw", "description_raw", "amount_ils", "currency",
	)
	for i, row := range dataRows {
		merchant := strings.TrimSpace(cellAtOpt(row, colIdx, "שם בית העסק"))
		notes := strings.TrimSpace(cellAtOpt(row, colIdx, "הערות"))
		description := merchant
		if notes != "" {
			description = strings.Trim(merchant+" | "+notes, " |")
		}

		out.Append(map[string]string{
			"source":          "card",
			"account_name":    strings.TrimSpace(accountName),
			"date":            formatDate(cellAtOpt(row, colIdx, "תאריך עסקה")),
			"charge_date":     formatDate(cellAtOpt(row, colIdx, "תאריך חיוב")),
			"merchant_raw":    merchant,
			"description_raw": description,
			"amount_ils":      amounts[i].Round(2).StringFixed(2),
			"currency":        strings.TrimSpace(cellAtOpt(row, colIdx, "מטבע חיוב")),
		})
	}
	return out, nil
}

func findCardHeader(f *excelize.File, path string) (sheet string, headerIdx int, rows [][]string, err error) {
	for _, name := range f.GetSheetList() {
		sheetRows, rowsErr := f.GetRows(name)
		if rowsErr != nil {
			return "", 0, nil, fmt.Errorf("reading sheet %s of %s: %w", name, path, rowsErr)
		}
		for i, row := range sheetRows {
			for _, cell := range row {
				if strings.TrimSpace(cell) == cardHeaderMarker {
					return name, i, sheetRows, nil
				}
			}
		}
	}
	return "", 0, nil, fmt.Errorf("%w: card statement %s has no header row containing %q",
		common.ErrUnrecognizedFormat, path, cardHeaderMarker)
}

func pickCardAmountColumn(colIdx map[string]int, path, sheet string) (int, error) {
	for _, name := range cardAmountColumns {
		if idx, ok := colIdx[name]; ok {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("%w: sheet %s of card statement %s has no recognizable amount column",
		common.ErrUnrecognizedFormat, sheet, path)
}

// chargesListedPositive reports whether at least 80% of non-zero
// amounts are positive, the issuer convention for charge listings.
func chargesListedPositive(amounts []decimal.Decimal) bool {
	nonZero, positive := 0, 0
	for _, a := range amounts {
		if a.IsZero() {
			continue
		}
		nonZero++
		if a.Sign() > 0 {
			positive++
		}
	}
	return nonZero > 0 && positive*5 >= nonZero*4
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func cellAtOpt(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}
