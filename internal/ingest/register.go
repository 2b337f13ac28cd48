package ingest

import (
	"fmt"
	"strings"

	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/model"
	"github.com/shekelflow/shekelflow/internal/table"
)

// Register exports come from both English and Hebrew locales; each
// logical field lists its header candidates in preference order.
var (
	registerDateColumns     = []string{"Date", "תאריך"}
	registerPayeeColumns    = []string{"Payee", "מוטב", "שם מוטב"}
	registerCategoryColumns = []string{"Category", "קטגוריה", "Category Name"}
	registerMasterColumns   = []string{"Master Category", "קטגוריה ראשית"}
	registerSubColumns      = []string{"Sub Category", "Subcategory", "קטגוריית משנה"}
	registerOutflowColumns  = []string{"Outflow", "הוצאה", "חיוב"}
	registerInflowColumns   = []string{"Inflow", "הכנסה", "זיכוי"}
	registerMemoColumns     = []string{"Memo", "הערה", "הערות"}
	registerAccountColumns  = []string{"Account", "account"}
)

// ReadRegister parses a budgeting-register CSV export. The date column
// is mandatory; everything else is best-effort. Category falls back to
// joining master and sub category when no flat category column exists.
func ReadRegister(path string) (*table.Table, error) {
	raw, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dateCol := findColumn(raw, registerDateColumns)
	if dateCol == "" {
		return nil, fmt.Errorf("%w: register file %s has no recognizable date column",
			common.ErrUnrecognizedFormat, path)
	}

	payeeCol := findColumn(raw, registerPayeeColumns)
	categoryCol := findColumn(raw, registerCategoryColumns)
	masterCol := findColumn(raw, registerMasterColumns)
	subCol := findColumn(raw, registerSubColumns)
	outflowCol := findColumn(raw, registerOutflowColumns)
	inflowCol := findColumn(raw, registerInflowColumns)
	memoCol := findColumn(raw, registerMemoColumns)
	accountCol := findColumn(raw, registerAccountColumns)

	out := table.New(
		"source", "account_name", "date", "payee_raw", "category_raw",
		"outflow", "inflow", "amount_ils", "direction", "txn_kind",
		"currency", "amount_bucket", "memo",
	)
	for i := 0; i < raw.Len(); i++ {
		category := ""
		if categoryCol != "" {
			category = raw.Get(i, categoryCol)
		} else {
			master := get(raw, i, masterCol)
			sub := get(raw, i, subCol)
			category = master
			if sub != "" {
				category = strings.Trim(master+":"+sub, ":")
			}
		}

		outflow := parseAmount(get(raw, i, outflowCol))
		inflow := parseAmount(get(raw, i, inflowCol))
		amount := inflow.Sub(outflow).Round(2)
		direction := model.DirectionFromSign(amount.Sign())

		out.Append(map[string]string{
			"source":        "ynab",
			"account_name":  get(raw, i, accountCol),
			"date":          formatDate(raw.Get(i, dateCol)),
			"payee_raw":     get(raw, i, payeeCol),
			"category_raw":  category,
			"outflow":       outflow.Round(2).StringFixed(2),
			"inflow":        inflow.Round(2).StringFixed(2),
			"amount_ils":    amount.StringFixed(2),
			"direction":     string(direction),
			"txn_kind":      string(direction),
			"currency":      "ILS",
			"amount_bucket": "",
			"memo":          get(raw, i, memoCol),
		})
	}
	return out, nil
}

// findColumn resolves a header candidate list against the table's
// columns, case-insensitively.
func findColumn(t *table.Table, candidates []string) string {
	byLower := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		byLower[strings.ToLower(strings.TrimSpace(col))] = col
	}
	for _, candidate := range candidates {
		if col, ok := byLower[strings.ToLower(strings.TrimSpace(candidate))]; ok {
			return col
		}
	}
	return ""
}

func get(t *table.Table, i int, column string) string {
	if column == "" {
		return ""
	}
	return t.Get(i, column)
}
