package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/dataset"
)

// Overview holds the dashboard's metric cards.
type Overview struct {
	TotalCustomers      int     `json:"total_customers"`
	TotalProducts       int     `json:"total_products"`
	TotalOrders         int     `json:"total_orders"`
	TotalSellers        int     `json:"total_sellers"`
	TotalPaymentMethods int     `json:"total_payment_methods"`
	TotalCities         int     `json:"total_cities"`
	TotalIncome         float64 `json:"total_income"`
	AverageIncome       float64 `json:"average_income"`
	MaxIncome           float64 `json:"max_income"`
	MinIncome           float64 `json:"min_income"`
	GoodReviews         int     `json:"good_reviews"`
	BadReviews          int     `json:"bad_reviews"`
}

// CountBucket is one bar or pie slice: a label and how many rows (or
// distinct entities) fall under it.
type CountBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearCount is one point of a per-year growth line, broken down by a label
// (payment type, review score).
type YearCount struct {
	Year  int    `json:"year"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StatusCount is one cell of a review-score x order-status matrix.
type StatusCount struct {
	ReviewScore int    `json:"review_score"`
	OrderStatus string `json:"order_status"`
	Count       int    `json:"count"`
}

// CategoryCount is one cell of a review-score x review-category matrix.
type CategoryCount struct {
	ReviewScore    int    `json:"review_score"`
	ReviewCategory string `json:"review_category"`
	Count          int    `json:"count"`
}

// GeoPoint is one customer position for the scatter-geo chart.
type GeoPoint struct {
	CustomerID    string  `json:"customer_id"`
	City          string  `json:"customer_city"`
	ZipCodePrefix string  `json:"customer_zip_code_prefix"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
}

// Calendar ordering for month and weekday buckets; the labels sort by
// position, not lexically.
var (
	monthOrder = []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	weekdayOrder = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday",
		"Friday", "Saturday"}
)

// BuildOverview computes the metric cards over the (possibly date-filtered)
// dataset. Customer totals count unique customers, not order lines.
func BuildOverview(records []dataset.Record) Overview {
	var o Overview
	if len(records) == 0 {
		return o
	}

	o.TotalCustomers = distinct(records, func(r dataset.Record) string { return r.CustomerUniqueID })
	o.TotalProducts = distinct(records, func(r dataset.Record) string { return r.ProductCategory })
	o.TotalSellers = distinct(records, func(r dataset.Record) string { return r.SellerID })
	o.TotalPaymentMethods = distinct(records, func(r dataset.Record) string { return r.PaymentType })
	o.TotalCities = distinct(records, func(r dataset.Record) string { return r.CustomerCity })
	o.TotalOrders = len(records)

	o.MinIncome = records[0].PaymentValue
	o.MaxIncome = records[0].PaymentValue
	for _, r := range records {
		o.TotalIncome += r.PaymentValue
		if r.PaymentValue > o.MaxIncome {
			o.MaxIncome = r.PaymentValue
		}
		if r.PaymentValue < o.MinIncome {
			o.MinIncome = r.PaymentValue
		}
		switch r.ReviewScore {
		case 4, 5:
			o.GoodReviews++
		case 1, 2:
			o.BadReviews++
		}
	}
	o.AverageIncome = o.TotalIncome / float64(len(records))
	return o
}

// FilterRange keeps records whose purchase timestamp falls in [start, end],
// bounds inclusive, mirroring the dashboard's date filter. Zero bounds are
// open-ended.
func FilterRange(records []dataset.Record, start, end time.Time) []dataset.Record {
	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if !start.IsZero() && r.PurchaseTimestamp.Before(start) {
			continue
		}
		if !end.IsZero() && r.PurchaseTimestamp.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TopCities returns the n cities with the most order lines, descending.
func TopCities(records []dataset.Record, n int) []CountBucket {
	return topBuckets(countBy(records, func(r dataset.Record) string { return r.CustomerCity }), n)
}

// TopStates returns the n states with the most order lines, descending.
func TopStates(records []dataset.Record, n int) []CountBucket {
	return topBuckets(countBy(records, func(r dataset.Record) string { return r.CustomerState }), n)
}

// CustomerGeo returns one point per order line carrying a geolocation.
func CustomerGeo(records []dataset.Record) []GeoPoint {
	var points []GeoPoint
	for _, r := range records {
		if r.GeolocationLat == 0 && r.GeolocationLng == 0 {
			continue
		}
		points = append(points, GeoPoint{
			CustomerID:    r.CustomerID,
			City:          r.CustomerCity,
			ZipCodePrefix: r.ZipCodePrefix,
			Lat:           r.GeolocationLat,
			Lng:           r.GeolocationLng,
		})
	}
	return points
}

// PaymentTypeUsage counts distinct customers per payment method.
func PaymentTypeUsage(records []dataset.Record) []CountBucket {
	return allBuckets(distinctBy(records,
		func(r dataset.Record) string { return r.PaymentType },
		func(r dataset.Record) string { return r.CustomerID }))
}

// PaymentBySequential counts distinct sequential positions per payment
// method (how many times a method appears as the n-th payment of an order).
func PaymentBySequential(records []dataset.Record) []CountBucket {
	return allBuckets(distinctBy(records,
		func(r dataset.Record) string { return r.PaymentType },
		func(r dataset.Record) int { return r.PaymentSequential }))
}

// PaymentByInstallments counts distinct installment counts per payment method.
func PaymentByInstallments(records []dataset.Record) []CountBucket {
	return allBuckets(distinctBy(records,
		func(r dataset.Record) string { return r.PaymentType },
		func(r dataset.Record) int { return r.PaymentInstallments }))
}

// PaymentGrowth counts distinct customers per (year, payment method).
func PaymentGrowth(records []dataset.Record) []YearCount {
	type key struct {
		year  int
		label string
	}
	seen := make(map[key]map[string]struct{})
	for _, r := range records {
		k := key{r.OrderYear(), r.PaymentType}
		if seen[k] == nil {
			seen[k] = make(map[string]struct{})
		}
		seen[k][r.CustomerID] = struct{}{}
	}

	out := make([]YearCount, 0, len(seen))
	for k, customers := range seen {
		out = append(out, YearCount{Year: k.year, Label: k.label, Count: len(customers)})
	}
	sortYearCounts(out)
	return out
}

// BestSellingProducts returns the n most-purchased product categories.
func BestSellingProducts(records []dataset.Record, n int) []CountBucket {
	return topBuckets(countBy(records, func(r dataset.Record) string { return r.ProductCategory }), n)
}

// WorstSellingProducts returns the n least-purchased product categories,
// ascending.
func WorstSellingProducts(records []dataset.Record, n int) []CountBucket {
	buckets := allBuckets(countBy(records, func(r dataset.Record) string { return r.ProductCategory }))
	// allBuckets sorts descending; take the tail reversed.
	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	if n > 0 && len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}

// ReviewScoreDistribution counts order lines per review score (1..5).
func ReviewScoreDistribution(records []dataset.Record) []CountBucket {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.ReviewScore]++
	}
	scores := make([]int, 0, len(counts))
	for s := range counts {
		scores = append(scores, s)
	}
	sort.Ints(scores)
	out := make([]CountBucket, 0, len(scores))
	for _, s := range scores {
		out = append(out, CountBucket{Label: strconv.Itoa(s), Count: counts[s]})
	}
	return out
}

// ReviewByOrderStatus builds the review-score x order-status matrix.
func ReviewByOrderStatus(records []dataset.Record) []StatusCount {
	type key struct {
		score  int
		status string
	}
	counts := make(map[key]int)
	for _, r := range records {
		counts[key{r.ReviewScore, r.OrderStatus}]++
	}
	out := make([]StatusCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, StatusCount{ReviewScore: k.score, OrderStatus: k.status, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReviewScore != out[j].ReviewScore {
			return out[i].ReviewScore < out[j].ReviewScore
		}
		return out[i].OrderStatus < out[j].OrderStatus
	})
	return out
}

// ReviewScoreByCategory builds the review-score x review-category matrix.
func ReviewScoreByCategory(records []dataset.Record) []CategoryCount {
	type key struct {
		score    int
		category string
	}
	counts := make(map[key]int)
	for _, r := range records {
		counts[key{r.ReviewScore, r.ReviewCategory}]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, CategoryCount{ReviewScore: k.score, ReviewCategory: k.category, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReviewScore != out[j].ReviewScore {
			return out[i].ReviewScore < out[j].ReviewScore
		}
		return out[i].ReviewCategory < out[j].ReviewCategory
	})
	return out
}

// SatisfactionGrowth counts reviews per (year, score).
func SatisfactionGrowth(records []dataset.Record) []YearCount {
	type key struct {
		year  int
		score int
	}
	counts := make(map[key]int)
	for _, r := range records {
		counts[key{r.OrderYear(), r.ReviewScore}]++
	}
	out := make([]YearCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, YearCount{Year: k.year, Label: strconv.Itoa(k.score), Count: c})
	}
	sortYearCounts(out)
	return out
}

// ReviewCategoryShares counts order lines per review category.
func ReviewCategoryShares(records []dataset.Record) []CountBucket {
	return allBuckets(countBy(records, func(r dataset.Record) string { return r.ReviewCategory }))
}

// OrderStatusCounts counts order lines per status, descending.
func OrderStatusCounts(records []dataset.Record) []CountBucket {
	return allBuckets(countBy(records, func(r dataset.Record) string { return r.OrderStatus }))
}

// OrderStatusByYear counts order lines per (year, status).
func OrderStatusByYear(records []dataset.Record) []YearCount {
	type key struct {
		year   int
		status string
	}
	counts := make(map[key]int)
	for _, r := range records {
		counts[key{r.OrderYear(), r.OrderStatus}]++
	}
	out := make([]YearCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, YearCount{Year: k.year, Label: k.status, Count: c})
	}
	sortYearCounts(out)
	return out
}

// OrderStatusByMonth counts order lines per (month, status) in calendar order.
func OrderStatusByMonth(records []dataset.Record) []StatusBucket {
	return statusBuckets(records, monthOrder, func(r dataset.Record) string { return r.OrderMonth() })
}

// OrderStatusByWeekday counts order lines per (weekday, status) in calendar
// order.
func OrderStatusByWeekday(records []dataset.Record) []StatusBucket {
	return statusBuckets(records, weekdayOrder, func(r dataset.Record) string { return r.OrderWeekday() })
}

// StatusBucket is one cell of a period x order-status breakdown, where the
// period is a month or weekday name.
type StatusBucket struct {
	Period      string `json:"period"`
	OrderStatus string `json:"order_status"`
	Count       int    `json:"count"`
}

func statusBuckets(records []dataset.Record, order []string, period func(dataset.Record) string) []StatusBucket {
	type key struct {
		period string
		status string
	}
	counts := make(map[key]int)
	for _, r := range records {
		counts[key{period(r), r.OrderStatus}]++
	}

	position := make(map[string]int, len(order))
	for i, p := range order {
		position[p] = i
	}

	out := make([]StatusBucket, 0, len(counts))
	for k, c := range counts {
		out = append(out, StatusBucket{Period: k.period, OrderStatus: k.status, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if position[out[i].Period] != position[out[j].Period] {
			return position[out[i].Period] < position[out[j].Period]
		}
		return out[i].OrderStatus < out[j].OrderStatus
	})
	return out
}

func countBy(records []dataset.Record, key func(dataset.Record) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if k := key(r); k != "" {
			counts[k]++
		}
	}
	return counts
}

// distinctBy counts distinct values of `of` per value of `key`.
func distinctBy[T comparable](records []dataset.Record, key func(dataset.Record) string, of func(dataset.Record) T) map[string]int {
	seen := make(map[string]map[T]struct{})
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if seen[k] == nil {
			seen[k] = make(map[T]struct{})
		}
		seen[k][of(r)] = struct{}{}
	}
	counts := make(map[string]int, len(seen))
	for k, values := range seen {
		counts[k] = len(values)
	}
	return counts
}

func distinct(records []dataset.Record, key func(dataset.Record) string) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		if k := key(r); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// allBuckets flattens a count map into buckets sorted by count descending,
// label ascending on ties for stable output.
func allBuckets(counts map[string]int) []CountBucket {
	out := make([]CountBucket, 0, len(counts))
	for label, count := range counts {
		out = append(out, CountBucket{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func topBuckets(counts map[string]int, n int) []CountBucket {
	buckets := allBuckets(counts)
	if n > 0 && len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}

func sortYearCounts(out []YearCount) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Label < out[j].Label
	})
}

