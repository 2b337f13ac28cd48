// Package ingest reads the source export formats (bank statement, card
// statement, budgeting-register CSV) into normalized record batches.
// Readers are external producers for the rule engine: they only promise
// the column contract, never classification semantics.
package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	amountJunkRe   = regexp.MustCompile(`[^\d.\-()]`)
	amountParensRe = regexp.MustCompile(`^\((.*)\)$`)
)

var dateLayouts = []string{
	"02/01/2006",
	"02/01/06",
	"02.01.2006",
	"2006-01-02",
	"02-01-2006",
}

// parseAmount cleans a statement amount cell: thousands separators and
// currency signs stripped, accounting parentheses read as negation.
// Unparseable cells are zero, matching blank.
func parseAmount(raw string) decimal.Decimal {
	text := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	text = strings.ReplaceAll(text, "₪", "")
	text = amountJunkRe.ReplaceAllString(text, "")
	text = amountParensRe.ReplaceAllString(text, "-$1")
	if text == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// parseDate parses day-first statement dates, falling back to ISO.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
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

func formatDate(raw string) string {
	d, ok := parseDate(raw)
	if !ok {
		return ""
	}
	return d.Format("2006-01-02")
}
