package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/dataset"
)

func rec(customer, city, state string, ts string, status, payment string, value float64, score int, category string) dataset.Record {
	t, err := time.Parse("2006-01-02", ts)
	if err != nil {
		panic(err)
	}
	return dataset.Record{
		OrderID:           "o-" + customer + ts,
		CustomerID:        customer,
		CustomerUniqueID:  "u-" + customer,
		CustomerCity:      city,
		CustomerState:     state,
		PurchaseTimestamp: t,
		OrderStatus:       status,
		PaymentType:       payment,
		PaymentValue:      value,
		ReviewScore:       score,
		ProductCategory:   category,
		SellerID:          "s-" + city,
	}
}

func fixture() []dataset.Record {
	return []dataset.Record{
		rec("c1", "sao paulo", "SP", "2018-01-15", "delivered", "credit_card", 100, 5, "beleza_saude"),
		rec("c1", "sao paulo", "SP", "2018-03-10", "delivered", "boleto", 50, 4, "esporte_lazer"),
		rec("c2", "rio de janeiro", "RJ", "2018-02-20", "shipped", "credit_card", 200, 1, "beleza_saude"),
		rec("c3", "sao paulo", "SP", "2017-11-05", "canceled", "voucher", 30, 3, "livros"),
	}
}

func TestBuildOverview(t *testing.T) {
	o := BuildOverview(fixture())

	assert.Equal(t, 3, o.TotalCustomers)
	assert.Equal(t, 3, o.TotalProducts)
	assert.Equal(t, 4, o.TotalOrders)
	assert.Equal(t, 2, o.TotalSellers)
	assert.Equal(t, 3, o.TotalPaymentMethods)
	assert.Equal(t, 2, o.TotalCities)
	assert.InDelta(t, 380, o.TotalIncome, 1e-9)
	assert.InDelta(t, 95, o.AverageIncome, 1e-9)
	assert.InDelta(t, 200, o.MaxIncome, 1e-9)
	assert.InDelta(t, 30, o.MinIncome, 1e-9)
	assert.Equal(t, 2, o.GoodReviews)
	assert.Equal(t, 1, o.BadReviews)
}

func TestBuildOverviewEmpty(t *testing.T) {
	assert.Zero(t, BuildOverview(nil))
}

func TestBuildOverviewAllNegativePayments(t *testing.T) {
	// Refund-only slices keep max/min at the observed values, not zero.
	records := []dataset.Record{
		rec("c1", "sao paulo", "SP", "2018-01-15", "delivered", "credit_card", -10, 5, "beleza_saude"),
		rec("c2", "rio de janeiro", "RJ", "2018-02-20", "shipped", "boleto", -40, 4, "livros"),
	}

	o := BuildOverview(records)
	assert.InDelta(t, -10, o.MaxIncome, 1e-9)
	assert.InDelta(t, -40, o.MinIncome, 1e-9)
	assert.InDelta(t, -50, o.TotalIncome, 1e-9)
}

func TestFilterRangeInclusive(t *testing.T) {
	records := fixture()
	start := time.Date(2018, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2018, 2, 20, 0, 0, 0, 0, time.UTC)

	got := FilterRange(records, start, end)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].CustomerID)
	assert.Equal(t, "c2", got[1].CustomerID)

	// Zero bounds are open-ended.
	assert.Len(t, FilterRange(records, time.Time{}, time.Time{}), 4)
}

func TestTopCities(t *testing.T) {
	got := TopCities(fixture(), 1)
	require.Len(t, got, 1)
	assert.Equal(t, CountBucket{Label: "sao paulo", Count: 3}, got[0])
}

func TestCustomerGeoCarriesZipAndSkipsZeroCoords(t *testing.T) {
	records := fixture()
	records[0].ZipCodePrefix = "01310"
	records[0].GeolocationLat = -23.55
	records[0].GeolocationLng = -46.63

	got := CustomerGeo(records)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].CustomerID)
	assert.Equal(t, "01310", got[0].ZipCodePrefix)
	assert.InDelta(t, -23.55, got[0].Lat, 1e-9)
}

func TestPaymentTypeUsageCountsDistinctCustomers(t *testing.T) {
	records := fixture()
	// A second credit_card line for c2 must not inflate the count.
	records = append(records, rec("c2", "rio de janeiro", "RJ", "2018-02-21", "shipped", "credit_card", 10, 4, "livros"))

	got := PaymentTypeUsage(records)
	require.NotEmpty(t, got)
	assert.Equal(t, CountBucket{Label: "credit_card", Count: 2}, got[0])
}

func TestWorstSellingProductsAscending(t *testing.T) {
	got := WorstSellingProducts(fixture(), 2)
	require.Len(t, got, 2)
	assert.LessOrEqual(t, got[0].Count, got[1].Count)
}

func TestOrderStatusByMonthCalendarOrder(t *testing.T) {
	got := OrderStatusByMonth(fixture())
	require.NotEmpty(t, got)

	position := map[string]int{}
	for i, m := range monthOrder {
		position[m] = i
	}
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, position[got[i-1].Period], position[got[i].Period])
	}
}

func TestReviewScoreDistribution(t *testing.T) {
	got := ReviewScoreDistribution(fixture())
	require.Len(t, got, 4)
	// Ascending by score.
	assert.Equal(t, "1", got[0].Label)
	assert.Equal(t, "5", got[len(got)-1].Label)
}

func TestReviewScoreByCategory(t *testing.T) {
	records := fixture()
	for i := range records {
		if records[i].ReviewScore >= 4 {
			records[i].ReviewCategory = "Satisfied"
		} else {
			records[i].ReviewCategory = "Unsatisfied"
		}
	}

	got := ReviewScoreByCategory(records)
	require.Len(t, got, 4)
	// Ascending by score, then category.
	assert.Equal(t, CategoryCount{ReviewScore: 1, ReviewCategory: "Unsatisfied", Count: 1}, got[0])
	assert.Equal(t, CategoryCount{ReviewScore: 5, ReviewCategory: "Satisfied", Count: 1}, got[3])
}

func TestPaymentGrowthSorted(t *testing.T) {
	got := PaymentGrowth(fixture())
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Year, got[i].Year)
	}
	assert.Equal(t, 2017, got[0].Year)
}
