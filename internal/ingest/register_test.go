package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shekelflow/shekelflow/internal/common"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "register.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadRegisterEnglishHeaders(t *testing.T) {
	path := writeTempCSV(t,
		"Account,Date,Payee,Category,Outflow,Inflow,Memo\n"+
			"Checking,01/03/2024,Supersal,Groceries,120.50,0,weekly\n"+
			"Checking,02/03/2024,Employer,Income,0,\"9,000.00\",salary\n")

	batch, err := ReadRegister(path)
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	assert.Equal(t, "ynab", batch.Get(0, "source"))
	assert.Equal(t, "Checking", batch.Get(0, "account_name"))
	assert.Equal(t, "2024-03-01", batch.Get(0, "date"))
	assert.Equal(t, "Supersal", batch.Get(0, "payee_raw"))
	assert.Equal(t, "Groceries", batch.Get(0, "category_raw"))
	assert.Equal(t, "-120.50", batch.Get(0, "amount_ils"))
	assert.Equal(t, "outflow", batch.Get(0, "direction"))
	assert.Equal(t, "outflow", batch.Get(0, "txn_kind"))
	assert.Equal(t, "ILS", batch.Get(0, "currency"))

	assert.Equal(t, "9000.00", batch.Get(1, "amount_ils"))
	assert.Equal(t, "inflow", batch.Get(1, "direction"))
}

func TestReadRegisterHebrewHeaders(t *testing.T) {
	path := writeTempCSV(t,
		"תאריך,מוטב,קטגוריה,הוצאה,הכנסה\n"+
			"15/01/2024,סופרסל,מזון,250.00,0\n")

	batch, err := ReadRegister(path)
	require.NoError(t, err)
	require.Equal(t, 1, batch.Len())
	assert.Equal(t, "2024-01-15", batch.Get(0, "date"))
	assert.Equal(t, "סופרסל", batch.Get(0, "payee_raw"))
	assert.Equal(t, "מזון", batch.Get(0, "category_raw"))
	assert.Equal(t, "-250.00", batch.Get(0, "amount_ils"))
}

func TestReadRegisterMasterSubCategoryFallback(t *testing.T) {
	path := writeTempCSV(t,
		"Date,Master Category,Sub Category,Outflow\n"+
			"01/02/2024,Everyday,Food,10\n"+
			"02/02/2024,Everyday,,20\n")

	batch, err := ReadRegister(path)
	require.NoError(t, err)
	assert.Equal(t, "Everyday:Food", batch.Get(0, "category_raw"))
	assert.Equal(t, "Everyday", batch.Get(1, "category_raw"), "blank sub category leaves no trailing colon")
}

func TestReadRegisterMissingDateColumn(t *testing.T) {
	path := writeTempCSV(t, "Payee,Outflow\nX,1\n")
	_, err := ReadRegister(path)
	require.ErrorIs(t, err, common.ErrUnrecognizedFormat)
	assert.Contains(t, err.Error(), "date column")
	assert.Contains(t, err.Error(), path, "errors name the offending file")
}

func TestParseAmountCleanup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234.56", "1234.56"},
		{"₪ 50.00", "50.00"},
		{"(75.25)", "-75.25"},
		{"", "0.00"},
		{"garbage", "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAmount(tt.input).StringFixed(2), "input %q", tt.input)
	}
}
