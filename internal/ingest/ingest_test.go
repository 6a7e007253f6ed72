package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/parsererror"
)

const sampleHeader = "Loan Number,Customer Name,Loan Amount,Maturity Date,Extended Date,Outstanding Balance,Undisbursed Amount,% of Loan Drawn,% of Completion"

var forecastStart = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

func TestIngest_FullBatch(t *testing.T) {
	input := sampleHeader + "\n" +
		`LN-001,Acme Construction,"$1,000,000",1/1/26,7/1/26,"200,000","800,000",20%,20` + "\n" +
		"LN-002,Beta Builders,500000,3/1/26,9/1/26,100000,400000,25,25\n"

	p := NewProcessor(nil, ',')
	result, err := p.Ingest(strings.NewReader(input), forecastStart)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.TotalRecords)
	assert.Equal(t, 2, result.ProcessedRecords)
	assert.Equal(t, 0, result.FailedRecords)
	assert.True(t, strings.HasPrefix(result.BatchID, "BATCH_"))
	require.Len(t, result.Forecasts, 2)

	first := result.Forecasts[0]
	assert.Equal(t, "LN-001", first.LoanNumber)
	assert.Equal(t, "1000000", first.LoanAmount.String())
	assert.NotEmpty(t, first.Series)
	assert.True(t, first.TotalForecastedAmount.IsPositive())
}

func TestIngest_RowFailuresAreCounted(t *testing.T) {
	input := sampleHeader + "\n" +
		"LN-001,Acme,1000000,1/1/26,7/1/26,200000,800000,20,20\n" +
		"LN-002,Beta,500000,3/1/26,,100000,400000,25,25\n" + // missing extended date
		"LN-003,Gamma,750000,4/1/26,10/1/26,50000,700000,30,150\n" // completion out of range

	p := NewProcessor(nil, ',')
	result, err := p.Ingest(strings.NewReader(input), forecastStart)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 3, result.TotalRecords)
	assert.Equal(t, 1, result.ProcessedRecords)
	assert.Equal(t, 2, result.FailedRecords)
	assert.Equal(t, result.TotalRecords, result.ProcessedRecords+result.FailedRecords)
}

func TestIngest_MissingCriticalColumnIsFatal(t *testing.T) {
	input := "Loan Number,Customer Name,Loan Amount\nLN-001,Acme,1000000\n"

	p := NewProcessor(nil, ',')
	result, err := p.Ingest(strings.NewReader(input), forecastStart)
	require.Error(t, err)

	var missing *parsererror.MissingColumnError
	assert.ErrorAs(t, err, &missing)

	require.NotNil(t, result)
	assert.Equal(t, models.StatusFailed, result.Status)
	assert.Equal(t, 0, result.TotalRecords)
	assert.Empty(t, result.Forecasts)
}

func TestIngest_EmptyInputIsFatal(t *testing.T) {
	p := NewProcessor(nil, ',')
	result, err := p.Ingest(strings.NewReader(""), forecastStart)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.StatusFailed, result.Status)
}

func TestRecords_NormalizesWithoutForecasting(t *testing.T) {
	input := sampleHeader + "\n" +
		"LN-001,Acme,1000000,1/1/26,7/1/26,200000,800000,20,20\n" +
		"LN-002,Beta,500000,3/1/26,,100000,400000,25,25\n"

	p := NewProcessor(nil, ',')
	records, err := p.Records(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "LN-001", records[0].LoanNumber)
}

func TestIngestFile_MissingFile(t *testing.T) {
	p := NewProcessor(nil, ',')
	result, err := p.IngestFile("does-not-exist.csv", forecastStart)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.StatusFailed, result.Status)
}

func TestNewBatchID_Format(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id := NewBatchID()
		require.Len(t, id, len("BATCH_")+8)
		assert.True(t, strings.HasPrefix(id, "BATCH_"))
		for _, r := range id[len("BATCH_"):] {
			assert.Contains(t, batchIDAlphabet, string(r))
		}
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
