package rules

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shekelflow/shekelflow/internal/fingerprint"
	"github.com/shekelflow/shekelflow/internal/model"
	"github.com/shekelflow/shekelflow/internal/table"
	"github.com/shekelflow/shekelflow/internal/textnorm"
)

// descriptionCandidates is the fallback priority for the text the
// normalized description (and fingerprints) derive from.
var descriptionCandidates = []string{
	"description_clean_norm",
	"description_clean",
	"merchant_raw",
	"description_raw",
	"raw_norm",
	"raw_text",
}

// exampleCandidates is the fallback priority for the raw display text
// kept alongside each prepared transaction.
var exampleCandidates = []string{
	"description_raw",
	"raw_text",
	"description_clean",
	"merchant_raw",
	"description_clean_norm",
}

// PrepareTransactions derives the uniform comparison view from a raw
// record batch. Column fallback chains are resolved once per batch: the
// first candidate column holding any non-blank value serves the whole
// batch. No row is dropped and input order is preserved.
func PrepareTransactions(t *table.Table) []model.Transaction {
	kindCol := pickColumn(t, "txn_kind")
	sourceCol := pickColumn(t, "source")
	accountCol := pickColumn(t, "account_name")
	currencyCol := pickColumn(t, "currency")
	bucketCol := pickColumn(t, "amount_bucket")
	descCol := pickColumn(t, descriptionCandidates...)
	fingerprintCol := pickColumn(t, "fingerprint", "fingerprint_v0")
	exampleCol := pickColumn(t, exampleCandidates...)
	hasDirection := t.HasColumn("direction")
	hasAmount := t.HasColumn("amount_ils")

	out := make([]model.Transaction, t.Len())
	for i := range out {
		txn := &out[i]
		txn.TxnKind = strings.ToLower(cell(t, i, kindCol))
		txn.Source = strings.ToLower(cell(t, i, sourceCol))
		txn.AccountName = cell(t, i, accountCol)
		txn.AmountBucket = cell(t, i, bucketCol)

		txn.Currency = strings.ToUpper(cell(t, i, currencyCol))
		if txn.Currency == "" {
			txn.Currency = "ILS"
		}

		direction := ""
		if hasDirection {
			direction = strings.ToLower(t.Get(i, "direction"))
		}
		if direction == "" && hasAmount {
			direction = string(directionFromAmount(t.Get(i, "amount_ils")))
		}
		if direction == "" {
			direction = string(model.DirectionZero)
		}
		txn.Direction = model.Direction(direction)

		txn.DescriptionCleanNorm = textnorm.Normalize(cell(t, i, descCol))
		txn.FingerprintHash = fingerprint.HashV1(txn.TxnKind, txn.DescriptionCleanNorm)

		txn.Fingerprint = cell(t, i, fingerprintCol)
		if txn.Fingerprint == "" {
			txn.Fingerprint = fingerprint.V0(txn.DescriptionCleanNorm)
		}

		txn.ExampleText = cell(t, i, exampleCol)
	}
	return out
}

// pickColumn returns the first candidate column with any non-blank
// value in the batch, or "" when none qualifies.
func pickColumn(t *table.Table, candidates ...string) string {
	for _, col := range candidates {
		if t.ColumnHasValues(col) {
			return col
		}
	}
	return ""
}

func cell(t *table.Table, i int, column string) string {
	if column == "" {
		return ""
	}
	return t.Get(i, column)
}

// directionFromAmount derives direction from a signed amount cell.
// Unparseable amounts count as zero, matching blank.
func directionFromAmount(raw string) model.Direction {
	if raw == "" {
		return model.DirectionZero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.DirectionZero
	}
	return model.DirectionFromSign(amount.Sign())
}
