package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shekelflow/shekelflow/internal/table"
)

func sourceBatch(rows ...map[string]string) *table.Table {
	t := table.New("account_name", "date", "amount_ils", "description_clean", "merchant_raw", "description_raw")
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

func registerBatch(rows ...map[string]string) *table.Table {
	t := table.New("account_name", "date", "amount_ils", "payee_raw", "category_raw")
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

func TestMatchPairsExactJoin(t *testing.T) {
	bank := sourceBatch(
		map[string]string{
			"account_name":      "Checking",
			"date":              "2024-03-01",
			"amount_ils":        "-120.50",
			"description_clean": "Supersal TLV",
		},
		map[string]string{
			"account_name":      "Checking",
			"date":              "2024-03-02",
			"amount_ils":        "-99.00",
			"description_clean": "No register match",
		},
	)
	register := registerBatch(map[string]string{
		"account_name": "Checking",
		"date":         "2024-03-01",
		"amount_ils":   "-120.5",
		"payee_raw":    "Supersal",
		"category_raw": "Groceries",
	})

	pairs := MatchPairs(bank, nil, register)
	require.Len(t, pairs, 1)

	pair := pairs[0]
	assert.Equal(t, "Checking", pair.AccountName)
	assert.Equal(t, "2024-03-01", pair.Date.Format("2006-01-02"))
	assert.Equal(t, "-120.50", pair.AmountILS.StringFixed(2))
	assert.Equal(t, "Supersal TLV", pair.RawText)
	assert.Equal(t, "supersal tlv", pair.RawNorm)
	assert.Equal(t, "supersal tlv", pair.FingerprintV0)
	assert.Equal(t, "Supersal", pair.YNABPayeeRaw)
	assert.Equal(t, "Groceries", pair.YNABCategoryRaw)
	assert.Equal(t, "bank-ynab", pair.PairSource)
	assert.False(t, pair.AmbiguousKey)
}

func TestMatchPairsAmountsCompareAfterRounding(t *testing.T) {
	bank := sourceBatch(map[string]string{
		"account_name":      "A",
		"date":              "2024-01-15",
		"amount_ils":        "-50.004",
		"description_clean": "x",
	})
	register := registerBatch(map[string]string{
		"account_name": "A",
		"date":         "2024-01-15",
		"amount_ils":   "-50.00",
	})

	pairs := MatchPairs(bank, nil, register)
	assert.Len(t, pairs, 1, "amounts join on two-decimal rounding")
}

func TestMatchPairsAmbiguousKeyFlag(t *testing.T) {
	bank := sourceBatch(
		map[string]string{"account_name": "A", "date": "2024-02-01", "amount_ils": "-30.00", "description_clean": "first"},
		map[string]string{"account_name": "A", "date": "2024-02-01", "amount_ils": "-30.00", "description_clean": "second"},
	)
	register := registerBatch(map[string]string{
		"account_name": "A", "date": "2024-02-01", "amount_ils": "-30.00", "payee_raw": "One",
	})

	pairs := MatchPairs(bank, nil, register)
	require.Len(t, pairs, 2)
	for _, pair := range pairs {
		assert.True(t, pair.AmbiguousKey, "two source rows share the join key")
	}
}

func TestMatchPairsCardUsesCardFallbackOrder(t *testing.T) {
	// Card batches without description_clean fall back to
	// description_raw before merchant_raw.
	card := table.New("account_name", "date", "amount_ils", "description_raw", "merchant_raw")
	card.Append(map[string]string{
		"account_name":    "Visa",
		"date":            "2024-04-10",
		"amount_ils":      "-75.00",
		"description_raw": "CAFE RIMON | tip",
		"merchant_raw":    "CAFE RIMON",
	})
	register := registerBatch(map[string]string{
		"account_name": "Visa", "date": "2024-04-10", "amount_ils": "-75.00", "payee_raw": "Cafe Rimon",
	})

	pairs := MatchPairs(nil, card, register)
	require.Len(t, pairs, 1)
	assert.Equal(t, "CAFE RIMON | tip", pairs[0].RawText)
	assert.Equal(t, "card-ynab", pairs[0].PairSource)
}

func TestMatchPairsSkipsUnparseableRows(t *testing.T) {
	bank := sourceBatch(
		map[string]string{"account_name": "A", "date": "not a date", "amount_ils": "-10.00", "description_clean": "bad date"},
		map[string]string{"account_name": "A", "date": "2024-05-01", "amount_ils": "oops", "description_clean": "bad amount"},
	)
	register := registerBatch(
		map[string]string{"account_name": "A", "date": "2024-05-01", "amount_ils": "-10.00"},
	)

	pairs := MatchPairs(bank, nil, register)
	assert.Empty(t, pairs)
}

func TestPairsTableColumns(t *testing.T) {
	bank := sourceBatch(map[string]string{
		"account_name": "A", "date": "2024-06-01", "amount_ils": "-5.00", "description_clean": "x",
	})
	register := registerBatch(map[string]string{
		"account_name": "A", "date": "2024-06-01", "amount_ils": "-5.00",
	})

	out := PairsTable(MatchPairs(bank, nil, register))
	assert.Equal(t, []string{
		"account_name", "date", "amount_ils", "raw_text", "raw_norm",
		"fingerprint_v0", "ynab_payee_raw", "ynab_category_raw",
		"pair_source", "ambiguous_key",
	}, out.Columns)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "false", out.Get(0, "ambiguous_key"))
}
