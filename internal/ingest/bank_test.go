package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shekelflow/shekelflow/internal/common"
)

const bankStatementHTML = `<html><body>
<table><tr><td>irrelevant banner table</td></tr></table>
<table>
<tr><th>תאריך</th><th>תאריך ערך</th><th>תיאור</th><th>אסמכתא</th><th>בחובה</th><th>בזכות</th></tr>
<tr><td>03/01/2024</td><td>03/01/2024</td><td>העברת משכורת</td><td>123456</td><td></td><td>9,000.00</td></tr>
<tr><td>05/01/2024</td><td>05/01/2024</td><td>סופרסל תל אביב</td><td>654321</td><td>₪ 250.30</td><td></td></tr>
</table>
</body></html>`

func TestReadBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xls")
	require.NoError(t, os.WriteFile(path, []byte(bankStatementHTML), 0o600))

	batch, err := ReadBank(path)
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	assert.Equal(t, []string{
		"source", "date", "value_date", "description_raw", "ref",
		"outflow_ils", "inflow_ils", "amount_ils",
	}, batch.Columns)

	assert.Equal(t, "bank", batch.Get(0, "source"))
	assert.Equal(t, "2024-01-03", batch.Get(0, "date"))
	assert.Equal(t, "העברת משכורת", batch.Get(0, "description_raw"))
	assert.Equal(t, "123456", batch.Get(0, "ref"))
	assert.Equal(t, "0.00", batch.Get(0, "outflow_ils"))
	assert.Equal(t, "9000.00", batch.Get(0, "inflow_ils"))
	assert.Equal(t, "9000.00", batch.Get(0, "amount_ils"))

	assert.Equal(t, "250.30", batch.Get(1, "outflow_ils"))
	assert.Equal(t, "-250.30", batch.Get(1, "amount_ils"), "amount is inflow minus outflow")
}

func TestReadBankNoStatementTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xls")
	require.NoError(t, os.WriteFile(path, []byte("<html><body><p>no tables here</p></body></html>"), 0o600))

	_, err := ReadBank(path)
	require.ErrorIs(t, err, common.ErrUnrecognizedFormat)
	assert.Contains(t, err.Error(), path)
}

func TestReadBankMissingFile(t *testing.T) {
	_, err := ReadBank(filepath.Join(t.TempDir(), "absent.xls"))
	require.ErrorIs(t, err, common.ErrMissingFile)
}
