package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/columns"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/tabular"
)

var testHeader = tabular.Row{
	"Loan Number", "Customer Name", "Loan Amount", "Maturity Date",
	"Extended Date", "Outstanding Balance", "Undisbursed Amount",
	"% of Loan Drawn", "% of Completion",
}

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	indexes, err := columns.Resolve(testHeader)
	require.NoError(t, err)
	return New(indexes, nil)
}

func TestRow_FullRecord(t *testing.T) {
	n := newTestNormalizer(t)

	record, ok := n.Row(tabular.Row{
		"LN-001", "Acme Construction", "$1,000,000", "1/1/26",
		"7/1/26", "200,000", "800,000", "20%", "20",
	})
	require.True(t, ok)
	require.NotNil(t, record)

	assert.Equal(t, "LN-001", record.LoanNumber)
	assert.Equal(t, "Acme Construction", record.CustomerName)
	assert.Equal(t, "1000000", record.LoanAmount.String())
	assert.Equal(t, "200000", record.OutstandingBalance.String())
	assert.Equal(t, "800000", record.UndisbursedAmount.String())
	assert.Equal(t, 20, record.PercentOfCompletion)
	assert.Equal(t, "20", record.PercentOfLoanDrawn.String())
	assert.True(t, record.MaturityDate.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, record.ExtendedDate.Equal(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRow_MissingRequiredFieldSkips(t *testing.T) {
	n := newTestNormalizer(t)

	// Extended Date is blank.
	_, ok := n.Row(tabular.Row{
		"LN-002", "Acme", "1000000", "1/1/26", "", "200000", "800000", "20", "20",
	})
	assert.False(t, ok)

	// N/A counts as missing regardless of case.
	_, ok = n.Row(tabular.Row{
		"LN-003", "Acme", "n/a", "1/1/26", "7/1/26", "200000", "800000", "20", "20",
	})
	assert.False(t, ok)

	// Short row: trailing required cells read as empty.
	_, ok = n.Row(tabular.Row{"LN-004", "Acme", "1000000"})
	assert.False(t, ok)
}

func TestRow_OptionalFieldsMayBeMissing(t *testing.T) {
	n := newTestNormalizer(t)

	record, ok := n.Row(tabular.Row{
		"LN-005", "", "1000000", "1/1/26", "7/1/26", "200000", "800000", "N/A", "20",
	})
	require.True(t, ok)
	assert.Equal(t, "", record.CustomerName)
	assert.Equal(t, "0", record.PercentOfLoanDrawn.String())
}

func TestRow_UnparseableDateFallsBackToNow(t *testing.T) {
	n := newTestNormalizer(t)
	frozen := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	n.SetClock(func() time.Time { return frozen })

	record, ok := n.Row(tabular.Row{
		"LN-006", "Acme", "1000000", "not a date", "7/1/26", "200000", "800000", "20", "20",
	})
	require.True(t, ok)
	assert.True(t, record.MaturityDate.Equal(frozen))
	assert.True(t, record.ExtendedDate.Equal(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRow_UnparseableAmountCoercesToZero(t *testing.T) {
	n := newTestNormalizer(t)

	record, ok := n.Row(tabular.Row{
		"LN-007", "Acme", "1000000", "1/1/26", "7/1/26", "garbage", "800000", "20", "20",
	})
	require.True(t, ok)
	assert.True(t, record.OutstandingBalance.IsZero())
}
