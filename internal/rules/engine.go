package rules

import (
	"sort"
	"strings"

	"github.com/shekelflow/shekelflow/internal/model"
)

// Engine matches prepared transactions against an immutable active rule
// set. Classification is a pure function of (transaction, rule set):
// the engine performs no I/O and is safe to share across goroutines.
//
// Rules pinning a fingerprint_hash are bucketed by that hash so the
// per-transaction work is one bucket plus the wildcard-hash scan list
// instead of a full scan. The index changes nothing about match
// semantics or ranking.
type Engine struct {
	byHash map[string][]*model.Rule
	scan   []*model.Rule
}

// NewEngine builds an engine over the active subset of rules. Inactive
// rules are never considered.
func NewEngine(ruleSet []model.Rule) *Engine {
	e := &Engine{byHash: make(map[string][]*model.Rule)}
	for i := range ruleSet {
		rule := &ruleSet[i]
		if !rule.IsActive {
			continue
		}
		if rule.FingerprintHash != nil {
			hash := *rule.FingerprintHash
			e.byHash[hash] = append(e.byHash[hash], rule)
		} else {
			e.scan = append(e.scan, rule)
		}
	}
	return e
}

// Classify evaluates every rule against the transaction and resolves
// the outcome: none, unique, or ambiguous when several rules tie at the
// top (priority, specificity) tier.
func (e *Engine) Classify(txn *model.Transaction) model.Classification {
	var matched []*model.Rule
	for _, rule := range e.byHash[txn.FingerprintHash] {
		if ruleMatches(rule, txn) {
			matched = append(matched, rule)
		}
	}
	for _, rule := range e.scan {
		if ruleMatches(rule, txn) {
			matched = append(matched, rule)
		}
	}

	if len(matched) == 0 {
		return model.Classification{MatchStatus: model.MatchNone}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Specificity != b.Specificity {
			return a.Specificity > b.Specificity
		}
		return a.ID < b.ID
	})

	top := matched[0]
	tieEnd := 1
	for tieEnd < len(matched) &&
		matched[tieEnd].Priority == top.Priority &&
		matched[tieEnd].Specificity == top.Specificity {
		tieEnd++
	}

	allIDs := joinRuleIDs(matched)
	if tieEnd > 1 {
		return model.Classification{
			MatchRuleID:           joinRuleIDs(matched[:tieEnd]),
			MatchSpecificityScore: top.Specificity,
			MatchStatus:           model.MatchAmbiguous,
			MatchCandidateRuleIDs: allIDs,
			MatchRuleCount:        len(matched),
		}
	}

	return model.Classification{
		PayeeCanonicalSuggested: top.PayeeCanonical,
		CategoryTargetSuggested: top.CategoryTarget,
		MatchRuleID:             top.ID,
		MatchSpecificityScore:   top.Specificity,
		MatchStatus:             model.MatchUnique,
		MatchCandidateRuleIDs:   allIDs,
		MatchRuleCount:          len(matched),
	}
}

// ClassifyAll classifies a batch in input order, one result per
// transaction.
func (e *Engine) ClassifyAll(txns []model.Transaction) []model.Classification {
	out := make([]model.Classification, len(txns))
	for i := range txns {
		out[i] = e.Classify(&txns[i])
	}
	return out
}

// ruleMatches reports whether every non-wildcard, non-suppressed key
// field of the rule equals the transaction's normalized value.
func ruleMatches(rule *model.Rule, txn *model.Transaction) bool {
	hasHash := rule.FingerprintHash != nil
	hasFingerprint := rule.Fingerprint != nil

	for _, column := range model.RuleKeyColumns {
		if suppressedKey(column, hasHash, hasFingerprint) {
			continue
		}
		ruleValue := rule.KeyValue(column)
		if ruleValue == nil {
			continue
		}
		if txn.KeyValue(column) != *ruleValue {
			return false
		}
	}
	return true
}

func joinRuleIDs(ruleSet []*model.Rule) string {
	ids := make([]string, len(ruleSet))
	for i, rule := range ruleSet {
		ids[i] = rule.ID
	}
	return strings.Join(ids, ";")
}
