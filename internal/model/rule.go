package model

// Rule is one row of the payee map: up to nine key fields constraining
// which transactions it applies to, plus the canonical payee/category it
// assigns. A nil key field is a wildcard and imposes no constraint.
type Rule struct {
	TxnKind              *string
	FingerprintHash      *string
	Fingerprint          *string
	DescriptionCleanNorm *string
	AccountName          *string
	Source               *string
	Direction            *string
	Currency             *string
	AmountBucket         *string
	ID                   string
	PayeeCanonical       string
	CategoryTarget       string
	Notes                string
	Priority             int
	Specificity          int
	IsActive             bool
}

// RuleKeyColumns lists the key fields of a rule in payee-map column
// order. The order matters for specificity suppression: fingerprint_hash
// subsumes fingerprint and description_clean_norm, and fingerprint
// subsumes description_clean_norm.
var RuleKeyColumns = []string{
	"txn_kind",
	"fingerprint_hash",
	"fingerprint",
	"description_clean_norm",
	"account_name",
	"source",
	"direction",
	"currency",
	"amount_bucket",
}

// KeyValue returns the rule's constraint for a key column, or nil when
// the column is a wildcard.
func (r *Rule) KeyValue(column string) *string {
	switch column {
	case "txn_kind":
		return r.TxnKind
	case "fingerprint_hash":
		return r.FingerprintHash
	case "fingerprint":
		return r.Fingerprint
	case "description_clean_norm":
		return r.DescriptionCleanNorm
	case "account_name":
		return r.AccountName
	case "source":
		return r.Source
	case "direction":
		return r.Direction
	case "currency":
		return r.Currency
	case "amount_bucket":
		return r.AmountBucket
	}
	return nil
}
