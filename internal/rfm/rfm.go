package rfm

import (
	"errors"
	"sort"
	"time"
)

// ErrEmptyInput is returned when the order table has no rows; without at
// least one purchase there is no reference date to measure recency against.
var ErrEmptyInput = errors.New("rfm: empty order table")

// OrderLine is the slice of an order record the pipeline consumes. One
// customer may appear on many lines (repeat purchases, multiple payment
// lines per order).
type OrderLine struct {
	CustomerID        string
	PurchaseTimestamp time.Time
	PaymentValue      float64
}

// CustomerRFM is one scored customer. Field names are stable so the
// dashboard can group by category and sort by the raw metrics.
type CustomerRFM struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	RRank      float64 `json:"r_rank"`
	FRank      float64 `json:"f_rank"`
	MRank      float64 `json:"m_rank"`
	RRankNorm  float64 `json:"r_rank_norm"`
	FRankNorm  float64 `json:"f_rank_norm"`
	MRankNorm  float64 `json:"m_rank_norm"`
	RScore     float64 `json:"r_score"`
	FScore     float64 `json:"f_score"`
	MScore     float64 `json:"m_score"`
	RFMScore   float64 `json:"rfm_score"`
	Category   string  `json:"category"`
}

// Segment labels assigned by Compute.
const (
	SegmentTop    = "Top Customer"
	SegmentHigh   = "High Value Customer"
	SegmentMedium = "Medium Value Customer"
	SegmentLow    = "Low Value Customer"
	SegmentBottom = "Bottom"
)

// Per-metric score weight and the business weighting of the composite score.
// Monetary dominates, frequency second, recency least.
const (
	rankWeight      = 0.05
	recencyWeight   = 0.2
	frequencyWeight = 0.3
	monetaryWeight  = 0.5
)

// segments are evaluated in order, first strict-greater match wins. A score
// of exactly 4.0 therefore lands in the lower bucket.
var segments = []struct {
	threshold float64
	label     string
}{
	{4.0, SegmentTop},
	{3.0, SegmentHigh},
	{2.0, SegmentMedium},
	{1.0, SegmentLow},
}

// Compute derives the RFM table from raw order lines: per-customer recency
// against the dataset's latest purchase date, raw line counts, payment sums,
// average ranks, rank normalization to (0, 100], weighted scoring and
// segmentation. It is a pure function of its input; rows come back sorted by
// customer ID so repeated runs yield identical tables.
func Compute(orders []OrderLine) ([]CustomerRFM, error) {
	if len(orders) == 0 {
		return nil, ErrEmptyInput
	}

	type aggregate struct {
		lastPurchase time.Time
		frequency    int
		monetary     float64
	}

	byCustomer := make(map[string]*aggregate)
	var latest time.Time
	for _, line := range orders {
		day := calendarDate(line.PurchaseTimestamp)
		if day.After(latest) {
			latest = day
		}
		agg := byCustomer[line.CustomerID]
		if agg == nil {
			agg = &aggregate{}
			byCustomer[line.CustomerID] = agg
		}
		if day.After(agg.lastPurchase) {
			agg.lastPurchase = day
		}
		agg.frequency++
		agg.monetary += line.PaymentValue
	}

	rows := make([]CustomerRFM, 0, len(byCustomer))
	for id, agg := range byCustomer {
		rows = append(rows, CustomerRFM{
			CustomerID: id,
			Recency:    int(latest.Sub(agg.lastPurchase).Hours() / 24),
			Frequency:  agg.frequency,
			Monetary:   agg.monetary,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CustomerID < rows[j].CustomerID })

	rVals := make([]float64, len(rows))
	fVals := make([]float64, len(rows))
	mVals := make([]float64, len(rows))
	for i, row := range rows {
		// Recency ranks descending: the most recent purchaser (smallest raw
		// recency) must hold the highest rank.
		rVals[i] = -float64(row.Recency)
		fVals[i] = float64(row.Frequency)
		mVals[i] = row.Monetary
	}

	rRanks := averageRank(rVals)
	fRanks := averageRank(fVals)
	mRanks := averageRank(mVals)

	// With ties at the top of a column the maximum rank is a non-integer
	// average, so normalize by the observed maximum, not the row count.
	rMax := maxOf(rRanks)
	fMax := maxOf(fRanks)
	mMax := maxOf(mRanks)

	for i := range rows {
		row := &rows[i]
		row.RRank = rRanks[i]
		row.FRank = fRanks[i]
		row.MRank = mRanks[i]
		row.RRankNorm = row.RRank / rMax * 100
		row.FRankNorm = row.FRank / fMax * 100
		row.MRankNorm = row.MRank / mMax * 100
		row.RScore = row.RRankNorm * rankWeight
		row.FScore = row.FRankNorm * rankWeight
		row.MScore = row.MRankNorm * rankWeight
		row.RFMScore = row.RScore*recencyWeight + row.FScore*frequencyWeight + row.MScore*monetaryWeight
		row.Category = categoryFor(row.RFMScore)
	}

	return rows, nil
}

// categoryFor classifies a composite score against the ordered thresholds.
func categoryFor(score float64) string {
	for _, s := range segments {
		if score > s.threshold {
			return s.label
		}
	}
	return SegmentBottom
}

// averageRank assigns 1-based ascending ranks, tied values sharing the mean
// of the positions they jointly occupy (two customers tied over positions 3
// and 4 both rank 3.5).
func averageRank(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		mean := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = mean
		}
		i = j + 1
	}
	return ranks
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// calendarDate drops the time-of-day component; only the purchase date
// matters for recency.
func calendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
