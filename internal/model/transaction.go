// Package model defines the core data structures for the shekelflow pipeline.
package model

// Direction classifies the sign of a transaction amount.
type Direction string

// Direction constants.
const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
	DirectionZero    Direction = "zero"
)

// DirectionFromSign derives a Direction from the sign of an amount.
func DirectionFromSign(sign int) Direction {
	switch {
	case sign > 0:
		return DirectionInflow
	case sign < 0:
		return DirectionOutflow
	default:
		return DirectionZero
	}
}

// Transaction is the prepared comparison view of a single raw record.
// Every field is already normalized the same way rule key fields are,
// so the rule engine compares values without re-folding per comparison.
type Transaction struct {
	TxnKind              string
	Source               string
	AccountName          string
	Currency             string
	Direction            Direction
	AmountBucket         string
	DescriptionCleanNorm string
	Fingerprint          string
	FingerprintHash      string
	ExampleText          string
}

// KeyValue returns the transaction's normalized value for a rule key
// column. Unknown columns resolve to the empty string.
func (t *Transaction) KeyValue(column string) string {
	switch column {
	case "txn_kind":
		return t.TxnKind
	case "fingerprint_hash":
		return t.FingerprintHash
	case "fingerprint":
		return t.Fingerprint
	case "description_clean_norm":
		return t.DescriptionCleanNorm
	case "account_name":
		return t.AccountName
	case "source":
		return t.Source
	case "direction":
		return string(t.Direction)
	case "currency":
		return t.Currency
	case "amount_bucket":
		return t.AmountBucket
	}
	return ""
}
