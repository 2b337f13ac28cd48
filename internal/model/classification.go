package model

// MatchStatus describes how a transaction resolved against the rule set.
type MatchStatus string

// Match status constants.
const (
	MatchUnique    MatchStatus = "unique"
	MatchAmbiguous MatchStatus = "ambiguous"
	MatchNone      MatchStatus = "none"
)

// Classification is the rule engine's verdict for one transaction.
// Suggestions are empty strings, never absent, when unresolved.
type Classification struct {
	PayeeCanonicalSuggested string
	CategoryTargetSuggested string
	MatchRuleID             string
	MatchStatus             MatchStatus
	MatchCandidateRuleIDs   string
	MatchSpecificityScore   int
	MatchRuleCount          int
}

// GroupStatus summarizes the match statuses within a candidate group.
type GroupStatus string

// Group status constants.
const (
	GroupUnmatched       GroupStatus = "unmatched"
	GroupAmbiguous       GroupStatus = "ambiguous"
	GroupMatchedUniquely GroupStatus = "matched_uniquely"
)

// CandidateGroup aggregates transactions sharing (txn_kind,
// fingerprint_hash, description_clean_norm) into one reviewable row of
// the rule-candidate report.
type CandidateGroup struct {
	TxnKind                       string
	FingerprintHash               string
	DescriptionCleanNorm          string
	Example1                      string
	Example2                      string
	SuggestedPayeeDistribution    string
	SuggestedCategoryDistribution string
	Status                        GroupStatus
	CountInPeriod                 int
	ExistingRulesHitCount         int
}
