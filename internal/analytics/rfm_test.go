package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/rfm"
)

func scored() []rfm.CustomerRFM {
	return []rfm.CustomerRFM{
		{CustomerID: "A", Recency: 0, Frequency: 5, Monetary: 500, Category: rfm.SegmentTop},
		{CustomerID: "B", Recency: 10, Frequency: 2, Monetary: 1000, Category: rfm.SegmentTop},
		{CustomerID: "C", Recency: 30, Frequency: 1, Monetary: 50, Category: rfm.SegmentLow},
	}
}

func TestRFMSummaries(t *testing.T) {
	avg := RFMSummaries(scored())
	assert.InDelta(t, 40.0/3, avg.AverageRecency, 1e-9)
	assert.InDelta(t, 8.0/3, avg.AverageFrequency, 1e-9)
	assert.InDelta(t, 1550.0/3, avg.AverageMonetary, 1e-9)

	assert.Zero(t, RFMSummaries(nil))
}

func TestTopCustomers(t *testing.T) {
	rows := scored()

	byRecency := TopCustomers(rows, MetricRecency, 2)
	require.Len(t, byRecency, 2)
	assert.Equal(t, "A", byRecency[0].CustomerID)
	assert.Equal(t, "B", byRecency[1].CustomerID)

	byMonetary := TopCustomers(rows, MetricMonetary, 1)
	require.Len(t, byMonetary, 1)
	assert.Equal(t, "B", byMonetary[0].CustomerID)

	byFrequency := TopCustomers(rows, MetricFrequency, 0)
	require.Len(t, byFrequency, 3)
	assert.Equal(t, "A", byFrequency[0].CustomerID)

	assert.Nil(t, TopCustomers(rows, "rfm_score", 3))

	// The input order is untouched.
	assert.Equal(t, "A", rows[0].CustomerID)
}

func TestSegmentShares(t *testing.T) {
	got := SegmentShares(scored())
	require.Len(t, got, 2)
	assert.Equal(t, CountBucket{Label: rfm.SegmentTop, Count: 2}, got[0])
	assert.Equal(t, CountBucket{Label: rfm.SegmentLow, Count: 1}, got[1])
}
