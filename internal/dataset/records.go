package dataset

import (
	"context"
	"fmt"
	"time"
)

// Record is one order line of the flattened e-commerce dataset. Only the
// customer, timestamp and payment columns are required; the rest feed the
// dashboard projections and default to zero values when a source does not
// carry them.
type Record struct {
	OrderID             string    `json:"order_id"`
	CustomerID          string    `json:"customer_id"`
	CustomerUniqueID    string    `json:"customer_unique_id"`
	CustomerCity        string    `json:"customer_city"`
	CustomerState       string    `json:"customer_state"`
	ZipCodePrefix       string    `json:"customer_zip_code_prefix"`
	GeolocationLat      float64   `json:"customer_geolocation_lat"`
	GeolocationLng      float64   `json:"customer_geolocation_lng"`
	PurchaseTimestamp   time.Time `json:"order_purchase_timestamp"`
	OrderStatus         string    `json:"order_status"`
	PaymentType         string    `json:"payment_type"`
	PaymentSequential   int       `json:"payment_sequential"`
	PaymentInstallments int       `json:"payment_installments"`
	PaymentValue        float64   `json:"payment_value"`
	ProductCategory     string    `json:"product_category_name"`
	ReviewID            string    `json:"review_id"`
	ReviewScore         int       `json:"review_score"`
	ReviewCategory      string    `json:"review_category"`
	SellerID            string    `json:"seller_id"`
}

// OrderYear returns the purchase year.
func (r Record) OrderYear() int { return r.PurchaseTimestamp.Year() }

// OrderMonth returns the purchase month name ("January" .. "December").
func (r Record) OrderMonth() string { return r.PurchaseTimestamp.Month().String() }

// OrderWeekday returns the purchase weekday name ("Sunday" .. "Saturday").
func (r Record) OrderWeekday() string { return r.PurchaseTimestamp.Weekday().String() }

// Source loads the full order-line table. Implementations read a CSV export
// or a warehouse table; the pipeline does not care which.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

// SchemaError reports a required column missing from the input shape.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset: required column %q missing", e.Column)
}

// ParseError reports a record field that could not be interpreted, naming
// the offending line and column instead of silently coercing.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Timestamp layouts accepted by the sources: the dataset's native format and
// RFC 3339.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
