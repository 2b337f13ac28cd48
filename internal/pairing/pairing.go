// Package pairing reconciles bank and card transactions against
// budgeting-register entries by exact account, date and signed amount.
package pairing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shekelflow/shekelflow/internal/fingerprint"
	"github.com/shekelflow/shekelflow/internal/model"
	"github.com/shekelflow/shekelflow/internal/table"
	"github.com/shekelflow/shekelflow/internal/textnorm"
)

// Raw-text fallback orders differ per source: bank exports put the
// useful text in the cleaned description, card exports in the raw one.
var (
	bankRawCandidates = []string{"description_clean", "merchant_raw", "description_raw"}
	cardRawCandidates = []string{"description_clean", "description_raw", "merchant_raw"}
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02.01.2006",
}

type joinKey struct {
	account string
	date    string
	amount  string
}

type sourceRow struct {
	key         joinKey
	accountName string
	date        time.Time
	amount      decimal.Decimal
	rawText     string
	pairSource  string
}

type registerRow struct {
	key         joinKey
	payeeRaw    string
	categoryRaw string
}

// MatchPairs joins normalized bank and card batches against the
// budgeting register. Rows missing a parseable date or amount never
// join; every surviving pair carries the register payee/category and an
// ambiguous_key flag when several pairs share one join key.
func MatchPairs(bank, card, register *table.Table) []model.Pair {
	registerRows := prepareRegister(register)
	byKey := make(map[joinKey][]registerRow, len(registerRows))
	for _, row := range registerRows {
		byKey[row.key] = append(byKey[row.key], row)
	}

	sourceRows := prepareSource(bank, bankRawCandidates, "bank-ynab")
	sourceRows = append(sourceRows, prepareSource(card, cardRawCandidates, "card-ynab")...)

	var pairs []model.Pair
	keyCounts := make(map[joinKey]int)
	for _, src := range sourceRows {
		for _, reg := range byKey[src.key] {
			pairs = append(pairs, model.Pair{
				AccountName:     src.accountName,
				Date:            src.date,
				AmountILS:       src.amount,
				RawText:         src.rawText,
				RawNorm:         textnorm.Normalize(src.rawText),
				FingerprintV0:   fingerprint.V0(src.rawText),
				YNABPayeeRaw:    reg.payeeRaw,
				YNABCategoryRaw: reg.categoryRaw,
				PairSource:      src.pairSource,
			})
			keyCounts[src.key]++
		}
	}

	i := 0
	for _, src := range sourceRows {
		for range byKey[src.key] {
			pairs[i].AmbiguousKey = keyCounts[src.key] > 1
			i++
		}
	}
	return pairs
}

func prepareSource(t *table.Table, rawCandidates []string, pairSource string) []sourceRow {
	if t == nil || t.Len() == 0 {
		return nil
	}
	rawCol := pickColumn(t, rawCandidates)

	rows := make([]sourceRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		date, ok := parseDate(t.Get(i, "date"))
		if !ok {
			continue
		}
		amount, ok := parseAmount(t.Get(i, "amount_ils"))
		if !ok {
			continue
		}
		account := t.Get(i, "account_name")
		rows = append(rows, sourceRow{
			key:         joinKey{account, date.Format("2006-01-02"), amount.StringFixed(2)},
			accountName: account,
			date:        date,
			amount:      amount,
			rawText:     cellValue(t, i, rawCol),
			pairSource:  pairSource,
		})
	}
	return rows
}

func prepareRegister(t *table.Table) []registerRow {
	if t == nil || t.Len() == 0 {
		return nil
	}
	rows := make([]registerRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		date, ok := parseDate(t.Get(i, "date"))
		if !ok {
			continue
		}
		amount, ok := parseAmount(t.Get(i, "amount_ils"))
		if !ok {
			continue
		}
		account := t.Get(i, "account_name")
		rows = append(rows, registerRow{
			key:         joinKey{account, date.Format("2006-01-02"), amount.StringFixed(2)},
			payeeRaw:    t.Get(i, "payee_raw"),
			categoryRaw: t.Get(i, "category_raw"),
		})
	}
	return rows
}

func pickColumn(t *table.Table, candidates []string) string {
	for _, col := range candidates {
		if t.ColumnHasValues(col) {
			return col
		}
	}
	return ""
}

func cellValue(t *table.Table, i int, column string) string {
	if column == "" {
		return ""
	}
	return t.Get(i, column)
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseAmount parses and rounds to two decimal places so join keys
// compare exactly.
func parseAmount(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount.Round(2), true
}

// PairsTable renders pairs as the matched_pairs output table.
func PairsTable(pairs []model.Pair) *table.Table {
	t := table.New(
		"account_name",
		"date",
		"amount_ils",
		"raw_text",
		"raw_norm",
		"fingerprint_v0",
		"ynab_payee_raw",
		"ynab_category_raw",
		"pair_source",
		"ambiguous_key",
	)
	for _, pair := range pairs {
		ambiguous := "false"
		if pair.AmbiguousKey {
			ambiguous = "true"
		}
		t.Append(map[string]string{
			"account_name":      pair.AccountName,
			"date":              pair.Date.Format("2006-01-02"),
			"amount_ils":        pair.AmountILS.StringFixed(2),
			"raw_text":          pair.RawText,
			"raw_norm":          pair.RawNorm,
			"fingerprint_v0":    pair.FingerprintV0,
			"ynab_payee_raw":    pair.YNABPayeeRaw,
			"ynab_category_raw": pair.YNABCategoryRaw,
			"pair_source":       pair.PairSource,
			"ambiguous_key":     ambiguous,
		})
	}
	return t
}
