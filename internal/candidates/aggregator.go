// Package candidates aggregates classified transactions into
// human-reviewable rule-candidate groups.
package candidates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shekelflow/shekelflow/internal/model"
)

const (
	exampleLimit      = 100
	distributionLimit = 3
)

// PairHint is one reconciled budgeting-register pair, already run
// through the Transaction Preparer so its kind and fingerprint hash
// line up with candidate group keys.
type PairHint struct {
	TxnKind         string
	FingerprintHash string
	PayeeRaw        string
	CategoryRaw     string
}

type groupKey struct {
	txnKind         string
	fingerprintHash string
	description     string
}

type hintKey struct {
	txnKind         string
	fingerprintHash string
}

// BuildGroups groups transactions by (txn_kind, fingerprint_hash,
// description_clean_norm) in first-appearance order. results must be
// parallel to txns; hints may be nil.
func BuildGroups(txns []model.Transaction, results []model.Classification, hints []PairHint) []model.CandidateGroup {
	order := make([]groupKey, 0)
	members := make(map[groupKey][]int)
	for i := range txns {
		key := groupKey{txns[i].TxnKind, txns[i].FingerprintHash, txns[i].DescriptionCleanNorm}
		if _, ok := members[key]; !ok {
			order = append(order, key)
		}
		members[key] = append(members[key], i)
	}

	payeeDist, categoryDist := hintDistributions(hints)

	groups := make([]model.CandidateGroup, 0, len(order))
	for _, key := range order {
		rows := members[key]
		group := model.CandidateGroup{
			TxnKind:              key.txnKind,
			FingerprintHash:      key.fingerprintHash,
			DescriptionCleanNorm: key.description,
			CountInPeriod:        len(rows),
		}
		group.Example1, group.Example2 = selectExamples(txns, rows)
		group.ExistingRulesHitCount = distinctRuleIDs(results, rows)
		group.Status = groupStatus(results, rows)

		hk := hintKey{key.txnKind, key.fingerprintHash}
		group.SuggestedPayeeDistribution = payeeDist[hk]
		group.SuggestedCategoryDistribution = categoryDist[hk]

		groups = append(groups, group)
	}
	return groups
}

// selectExamples scans group rows in input order and keeps up to two
// distinct non-empty example texts, each bounded to 100 characters.
// Per row the raw display text is preferred; the normalized description
// only stands in when no raw text survived ingestion.
func selectExamples(txns []model.Transaction, rows []int) (string, string) {
	var examples []string
	seen := make(map[string]bool)
	for _, i := range rows {
		value := exampleValue(&txns[i])
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		examples = append(examples, truncate(value, exampleLimit))
		if len(examples) == 2 {
			break
		}
	}
	for len(examples) < 2 {
		examples = append(examples, "")
	}
	return examples[0], examples[1]
}

func exampleValue(txn *model.Transaction) string {
	if txn.ExampleText != "" {
		return txn.ExampleText
	}
	return txn.DescriptionCleanNorm
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// distinctRuleIDs counts distinct rule ids across the group's
// semicolon-delimited candidate lists.
func distinctRuleIDs(results []model.Classification, rows []int) int {
	seen := make(map[string]bool)
	for _, i := range rows {
		for _, id := range strings.Split(results[i].MatchCandidateRuleIDs, ";") {
			id = strings.TrimSpace(id)
			if id != "" {
				seen[id] = true
			}
		}
	}
	return len(seen)
}

// groupStatus folds the group's match statuses: all none is unmatched,
// any ambiguity or a mix of matched and unmatched rows is ambiguous,
// and only a group of purely unique matches is matched_uniquely.
func groupStatus(results []model.Classification, rows []int) model.GroupStatus {
	var hasNone, hasUnique, hasAmbiguous bool
	for _, i := range rows {
		switch results[i].MatchStatus {
		case model.MatchNone:
			hasNone = true
		case model.MatchUnique:
			hasUnique = true
		case model.MatchAmbiguous:
			hasAmbiguous = true
		}
	}
	switch {
	case !hasUnique && !hasAmbiguous:
		return model.GroupUnmatched
	case hasAmbiguous || hasNone:
		return model.GroupAmbiguous
	default:
		return model.GroupMatchedUniquely
	}
}

// hintDistributions pre-computes the top-3 payee and category
// summaries per (txn_kind, fingerprint_hash) from reconciled pairs.
func hintDistributions(hints []PairHint) (map[hintKey]string, map[hintKey]string) {
	payeeCounts := make(map[hintKey]map[string]int)
	categoryCounts := make(map[hintKey]map[string]int)
	var keyOrder []hintKey
	payeeFirst := make(map[hintKey][]string)
	categoryFirst := make(map[hintKey][]string)

	for _, hint := range hints {
		key := hintKey{hint.TxnKind, hint.FingerprintHash}
		if payeeCounts[key] == nil {
			payeeCounts[key] = make(map[string]int)
			categoryCounts[key] = make(map[string]int)
			keyOrder = append(keyOrder, key)
		}
		if payee := strings.TrimSpace(hint.PayeeRaw); payee != "" {
			if payeeCounts[key][payee] == 0 {
				payeeFirst[key] = append(payeeFirst[key], payee)
			}
			payeeCounts[key][payee]++
		}
		if category := strings.TrimSpace(hint.CategoryRaw); category != "" {
			if categoryCounts[key][category] == 0 {
				categoryFirst[key] = append(categoryFirst[key], category)
			}
			categoryCounts[key][category]++
		}
	}

	payees := make(map[hintKey]string, len(keyOrder))
	categories := make(map[hintKey]string, len(keyOrder))
	for _, key := range keyOrder {
		payees[key] = topCounts(payeeFirst[key], payeeCounts[key])
		categories[key] = topCounts(categoryFirst[key], categoryCounts[key])
	}
	return payees, categories
}

// topCounts formats the most frequent values as "name (count)" entries
// joined by "; ", most frequent first, first occurrence breaking ties.
func topCounts(valuesInOrder []string, counts map[string]int) string {
	if len(valuesInOrder) == 0 {
		return ""
	}
	ranked := append([]string(nil), valuesInOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > distributionLimit {
		ranked = ranked[:distributionLimit]
	}
	parts := make([]string, len(ranked))
	for i, value := range ranked {
		parts[i] = fmt.Sprintf("%s (%d)", value, counts[value])
	}
	return strings.Join(parts, "; ")
}
