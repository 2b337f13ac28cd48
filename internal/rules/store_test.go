package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shekelflow/shekelflow/internal/table"
)

// ruleTable builds a payee-map table from partial row maps; columns not
// mentioned stay blank, which the store must treat as wildcards.
func ruleTable(rows ...map[string]string) *table.Table {
	t := table.New(PayeeMapColumns...)
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

func TestParseRulesDefaults(t *testing.T) {
	ruleSet, err := ParseRules(ruleTable(map[string]string{"rule_id": "r1"}))
	require.NoError(t, err)
	require.Len(t, ruleSet, 1)

	rule := ruleSet[0]
	assert.True(t, rule.IsActive, "blank is_active defaults to true")
	assert.Equal(t, 0, rule.Priority, "blank priority defaults to 0")
	assert.Equal(t, 0, rule.Specificity, "all-wildcard rule pins nothing")
	assert.Nil(t, rule.TxnKind)
	assert.Nil(t, rule.FingerprintHash)
}

func TestParseRulesNormalizesKeyFields(t *testing.T) {
	ruleSet, err := ParseRules(ruleTable(map[string]string{
		"rule_id":                "r1",
		"txn_kind":               "  Expense ",
		"source":                 "BANK",
		"direction":              "Outflow",
		"currency":               "ils",
		"fingerprint_hash":       "ABCDEF123456",
		"description_clean_norm": "  Coffee   SHOP!! ",
	}))
	require.NoError(t, err)
	require.Len(t, ruleSet, 1)

	rule := ruleSet[0]
	assert.Equal(t, "expense", *rule.TxnKind)
	assert.Equal(t, "bank", *rule.Source)
	assert.Equal(t, "outflow", *rule.Direction)
	assert.Equal(t, "ILS", *rule.Currency)
	assert.Equal(t, "abcdef123456", *rule.FingerprintHash)
	assert.Equal(t, "coffee shop", *rule.DescriptionCleanNorm)
}

func TestParseRulesBooleanVocabulary(t *testing.T) {
	tests := []struct {
		value  string
		want   bool
		wantOK bool
	}{
		{"1", true, true},
		{"0", false, true},
		{"TRUE", true, true},
		{"f", false, true},
		{"Yes", true, true},
		{"n", false, true},
		{"", true, true},
		{"maybe", false, false},
		{"2", false, false},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			ruleSet, err := ParseRules(ruleTable(map[string]string{
				"rule_id":   "r1",
				"is_active": tt.value,
			}))
			if !tt.wantOK {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Error(), tt.value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ruleSet[0].IsActive)
		})
	}
}

func TestParseRulesValidation(t *testing.T) {
	tests := []struct {
		name    string
		rows    []map[string]string
		wantErr string
	}{
		{
			name:    "empty rule id",
			rows:    []map[string]string{{"rule_id": ""}, {"rule_id": "r2"}},
			wantErr: "empty rule_id",
		},
		{
			name:    "duplicate rule id",
			rows:    []map[string]string{{"rule_id": "r1"}, {"rule_id": "r1"}},
			wantErr: "duplicate rule_id",
		},
		{
			name:    "non integer priority",
			rows:    []map[string]string{{"rule_id": "r1", "priority": "high"}},
			wantErr: "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules(ruleTable(tt.rows...))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.wantErr)
		})
	}
}

func TestParseRulesMissingColumns(t *testing.T) {
	// A table carrying only rule_id parses: every other column is blank.
	bare := table.New("rule_id")
	bare.Append(map[string]string{"rule_id": "only"})

	ruleSet, err := ParseRules(bare)
	require.NoError(t, err)
	require.Len(t, ruleSet, 1)
	assert.Equal(t, "only", ruleSet[0].ID)
	assert.True(t, ruleSet[0].IsActive)
}

func TestSpecificitySuppression(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
		want int
	}{
		{
			name: "hash alone scores one",
			row:  map[string]string{"rule_id": "r", "fingerprint_hash": "abc"},
			want: 1,
		},
		{
			name: "hash suppresses fingerprint and description",
			row: map[string]string{
				"rule_id":                "r",
				"fingerprint_hash":       "abc",
				"fingerprint":            "coffee shop",
				"description_clean_norm": "coffee shop tlv",
			},
			want: 1,
		},
		{
			name: "fingerprint suppresses description only",
			row: map[string]string{
				"rule_id":                "r",
				"fingerprint":            "coffee shop",
				"description_clean_norm": "coffee shop tlv",
			},
			want: 1,
		},
		{
			name: "unsuppressed keys all count",
			row: map[string]string{
				"rule_id":     "r",
				"txn_kind":    "expense",
				"fingerprint": "bit",
				"source":      "bank",
				"direction":   "outflow",
				"currency":    "ILS",
			},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ruleSet, err := ParseRules(ruleTable(tt.row))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ruleSet[0].Specificity)
		})
	}
}
