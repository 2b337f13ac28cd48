// Package rules implements the payee-map rule store and the matching
// engine that classifies prepared transactions against it.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shekelflow/shekelflow/internal/model"
	"github.com/shekelflow/shekelflow/internal/table"
	"github.com/shekelflow/shekelflow/internal/textnorm"
)

// PayeeMapColumns is the full payee-map table schema, in order. Missing
// columns in an input table are treated as all-blank.
var PayeeMapColumns = []string{
	"rule_id",
	"is_active",
	"priority",
	"txn_kind",
	"fingerprint_hash",
	"fingerprint",
	"description_clean_norm",
	"account_name",
	"source",
	"direction",
	"currency",
	"amount_bucket",
	"payee_canonical",
	"category_target",
	"notes",
}

var (
	trueValues  = map[string]bool{"1": true, "true": true, "t": true, "yes": true, "y": true}
	falseValues = map[string]bool{"0": true, "false": true, "f": true, "no": true, "n": true}
)

// ValidationError reports a structurally invalid payee map. It is fatal:
// no matching runs against a table that fails validation.
type ValidationError struct {
	Problem string
	Values  []string
}

func (e *ValidationError) Error() string {
	if len(e.Values) == 0 {
		return fmt.Sprintf("payee map: %s", e.Problem)
	}
	return fmt.Sprintf("payee map: %s: %s", e.Problem, strings.Join(e.Values, ", "))
}

// ParseRules converts a payee-map table into validated, normalized
// rules with cached specificity. Rule ids must be present and unique;
// is_active must come from the recognized boolean vocabulary; priority
// must parse as an integer.
func ParseRules(t *table.Table) ([]model.Rule, error) {
	var emptyIDs int
	seen := make(map[string]bool, t.Len())
	var duplicates []string

	out := make([]model.Rule, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := t.Get(i, "rule_id")
		if id == "" {
			emptyIDs++
			continue
		}
		if seen[id] {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = true

		isActive, err := parseIsActive(t.Get(i, "is_active"))
		if err != nil {
			return nil, err
		}
		priority, err := parsePriority(t.Get(i, "priority"))
		if err != nil {
			return nil, err
		}

		rule := model.Rule{
			ID:                   id,
			IsActive:             isActive,
			Priority:             priority,
			TxnKind:              keyValue("txn_kind", t.Get(i, "txn_kind")),
			FingerprintHash:      keyValue("fingerprint_hash", t.Get(i, "fingerprint_hash")),
			Fingerprint:          keyValue("fingerprint", t.Get(i, "fingerprint")),
			DescriptionCleanNorm: keyValue("description_clean_norm", t.Get(i, "description_clean_norm")),
			AccountName:          keyValue("account_name", t.Get(i, "account_name")),
			Source:               keyValue("source", t.Get(i, "source")),
			Direction:            keyValue("direction", t.Get(i, "direction")),
			Currency:             keyValue("currency", t.Get(i, "currency")),
			AmountBucket:         keyValue("amount_bucket", t.Get(i, "amount_bucket")),
			PayeeCanonical:       t.Get(i, "payee_canonical"),
			CategoryTarget:       t.Get(i, "category_target"),
			Notes:                t.Get(i, "notes"),
		}
		rule.Specificity = computeSpecificity(&rule)
		out = append(out, rule)
	}

	if emptyIDs > 0 {
		return nil, &ValidationError{Problem: fmt.Sprintf("contains %d empty rule_id values", emptyIDs)}
	}
	if len(duplicates) > 0 {
		return nil, &ValidationError{Problem: "contains duplicate rule_id values", Values: duplicates}
	}
	return out, nil
}

// NormalizeKeyValue folds a raw cell the same way the Transaction
// Preparer folds the matching transaction field, so rule and
// transaction values compare without per-comparison transformation.
func NormalizeKeyValue(column, value string) string {
	v := strings.TrimSpace(value)
	switch column {
	case "txn_kind", "source", "direction", "fingerprint_hash":
		return strings.ToLower(v)
	case "currency":
		return strings.ToUpper(v)
	case "description_clean_norm":
		return textnorm.Normalize(v)
	}
	return v
}

// keyValue returns nil for blank cells: a blank key is a wildcard,
// distinct from a literal empty-string constraint.
func keyValue(column, value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v := NormalizeKeyValue(column, value)
	return &v
}

func parseIsActive(value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	lowered := strings.ToLower(value)
	if trueValues[lowered] {
		return true, nil
	}
	if falseValues[lowered] {
		return false, nil
	}
	return false, &ValidationError{Problem: "invalid is_active value", Values: []string{value}}
}

func parsePriority(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Problem: "invalid priority value", Values: []string{value}}
	}
	return n, nil
}

// suppressedKey reports whether a key column is skipped because a
// stronger key subsumes it: a pinned fingerprint_hash disables both
// fingerprint and description_clean_norm, and a pinned fingerprint
// disables description_clean_norm. Shared by matching and specificity
// so the two can never disagree.
func suppressedKey(column string, hasHash, hasFingerprint bool) bool {
	switch column {
	case "fingerprint":
		return hasHash
	case "description_clean_norm":
		return hasHash || hasFingerprint
	}
	return false
}

func computeSpecificity(rule *model.Rule) int {
	hasHash := rule.FingerprintHash != nil
	hasFingerprint := rule.Fingerprint != nil

	score := 0
	for _, column := range model.RuleKeyColumns {
		if suppressedKey(column, hasHash, hasFingerprint) {
			continue
		}
		if rule.KeyValue(column) != nil {
			score++
		}
	}
	return score
}
