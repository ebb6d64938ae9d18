package analytics

import (
	"sort"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/rfm"
)

// RFMAverages feeds the three RFM metric cards.
type RFMAverages struct {
	AverageRecency   float64 `json:"average_recency"`
	AverageFrequency float64 `json:"average_frequency"`
	AverageMonetary  float64 `json:"average_monetary"`
}

// RFMSummaries computes mean recency, frequency and monetary over the
// scored table.
func RFMSummaries(rows []rfm.CustomerRFM) RFMAverages {
	var out RFMAverages
	if len(rows) == 0 {
		return out
	}
	for _, r := range rows {
		out.AverageRecency += float64(r.Recency)
		out.AverageFrequency += float64(r.Frequency)
		out.AverageMonetary += r.Monetary
	}
	n := float64(len(rows))
	out.AverageRecency /= n
	out.AverageFrequency /= n
	out.AverageMonetary /= n
	return out
}

// RFM leaderboard metrics.
const (
	MetricRecency   = "recency"
	MetricFrequency = "frequency"
	MetricMonetary  = "monetary"
)

// TopCustomers returns the n best customers for a metric: smallest recency
// first, or largest frequency/monetary first. Unknown metrics return nil.
func TopCustomers(rows []rfm.CustomerRFM, metric string, n int) []rfm.CustomerRFM {
	var less func(a, b rfm.CustomerRFM) bool
	switch metric {
	case MetricRecency:
		less = func(a, b rfm.CustomerRFM) bool { return a.Recency < b.Recency }
	case MetricFrequency:
		less = func(a, b rfm.CustomerRFM) bool { return a.Frequency > b.Frequency }
	case MetricMonetary:
		less = func(a, b rfm.CustomerRFM) bool { return a.Monetary > b.Monetary }
	default:
		return nil
	}

	sorted := make([]rfm.CustomerRFM, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SegmentShares counts customers per segment label for the segmentation pie.
func SegmentShares(rows []rfm.CustomerRFM) []CountBucket {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Category]++
	}
	return allBuckets(counts)
}
