package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	path := writeCSV(t, `order_id,customer_id,customer_unique_id,customer_city,customer_state,customer_zip_code_prefix,order_purchase_timestamp,order_status,payment_type,payment_sequential,payment_installments,payment_value,product_category_name,review_score,seller_id
o1,c1,u1,sao paulo,SP,01310,2018-08-29 14:30:00,delivered,credit_card,1,2,129.90,beleza_saude,5,s1
o2,c2,u2,rio de janeiro,RJ,20040,2018-08-19 08:00:00,shipped,boleto,1,1,54.20,esporte_lazer,4.0,s2
`)

	src := &CSVSource{Path: path}
	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "c1", first.CustomerID)
	assert.Equal(t, "sao paulo", first.CustomerCity)
	assert.Equal(t, "01310", first.ZipCodePrefix)
	assert.Equal(t, time.Date(2018, 8, 29, 14, 30, 0, 0, time.UTC), first.PurchaseTimestamp)
	assert.InDelta(t, 129.90, first.PaymentValue, 1e-9)
	assert.Equal(t, 2, first.PaymentInstallments)
	assert.Equal(t, 5, first.ReviewScore)
	assert.Equal(t, 2018, first.OrderYear())
	assert.Equal(t, "August", first.OrderMonth())
	assert.Equal(t, "Wednesday", first.OrderWeekday())

	// "4.0"-style scores from dataframe exports still parse as ints.
	assert.Equal(t, 4, records[1].ReviewScore)
}

func TestCSVSourceMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, `order_id,customer_id,payment_value
o1,c1,10.0
`)

	src := &CSVSource{Path: path}
	_, err := src.Load(context.Background())
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "order_purchase_timestamp", schemaErr.Column)
}

func TestCSVSourceMalformedTimestamp(t *testing.T) {
	path := writeCSV(t, `customer_id,order_purchase_timestamp,payment_value
c1,2018-08-29 14:30:00,10.0
c2,not-a-date,12.5
`)

	src := &CSVSource{Path: path}
	_, err := src.Load(context.Background())
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Equal(t, "order_purchase_timestamp", parseErr.Column)
}

func TestCSVSourceMalformedPayment(t *testing.T) {
	path := writeCSV(t, `customer_id,order_purchase_timestamp,payment_value
c1,2018-08-29 14:30:00,abc
`)

	src := &CSVSource{Path: path}
	_, err := src.Load(context.Background())
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "payment_value", parseErr.Column)
}

func TestCSVSourceOptionalColumnsDefault(t *testing.T) {
	path := writeCSV(t, `customer_id,order_purchase_timestamp,payment_value
c1,2018-08-29 14:30:00,10.0
`)

	src := &CSVSource{Path: path}
	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].CustomerCity)
	assert.Zero(t, records[0].ReviewScore)
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, raw := range []string{"2018-08-29 14:30:00", "2018-08-29T14:30:00Z", "2018-08-29"} {
		ts, err := parseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2018, ts.Year())
	}
	_, err := parseTimestamp("29/08/2018")
	assert.Error(t, err)
}
