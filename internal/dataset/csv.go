package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
)

// Columns the pipeline cannot run without.
var requiredColumns = []string{"customer_id", "order_purchase_timestamp", "payment_value"}

// CSVSource reads the flattened dataset export (one header row, one order
// line per row).
type CSVSource struct {
	Path string
	// ShowProgress renders a byte-progress bar while reading; the full
	// dataset is ~100k rows and takes a noticeable moment on first load.
	ShowProgress bool
}

// Load reads and types every row. It fails on the first malformed field
// rather than dropping rows.
func (s *CSVSource) Load(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if s.ShowProgress {
		info, err := f.Stat()
		if err == nil {
			bar := progressbar.DefaultBytes(info.Size(), "loading dataset")
			reader = io.TeeReader(f, bar)
		}
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &SchemaError{Column: name}
		}
	}

	var records []Record
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line+1, err)
		}
		line++

		rec, err := parseRow(cols, row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(cols map[string]int, row []string, line int) (Record, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	ts, err := parseTimestamp(field("order_purchase_timestamp"))
	if err != nil {
		return Record{}, &ParseError{Line: line, Column: "order_purchase_timestamp", Err: err}
	}

	rec := Record{
		OrderID:           field("order_id"),
		CustomerID:        field("customer_id"),
		CustomerUniqueID:  field("customer_unique_id"),
		CustomerCity:      field("customer_city"),
		CustomerState:     field("customer_state"),
		ZipCodePrefix:     field("customer_zip_code_prefix"),
		PurchaseTimestamp: ts,
		OrderStatus:       field("order_status"),
		PaymentType:       field("payment_type"),
		ProductCategory:   field("product_category_name"),
		ReviewID:          field("review_id"),
		ReviewCategory:    field("review_category"),
		SellerID:          field("seller_id"),
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{"payment_value", &rec.PaymentValue},
		{"customer_geolocation_lat", &rec.GeolocationLat},
		{"customer_geolocation_lng", &rec.GeolocationLng},
	}
	for _, fp := range floats {
		raw := field(fp.col)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Record{}, &ParseError{Line: line, Column: fp.col, Err: err}
		}
		*fp.dst = v
	}

	ints := []struct {
		col string
		dst *int
	}{
		{"payment_sequential", &rec.PaymentSequential},
		{"payment_installments", &rec.PaymentInstallments},
		{"review_score", &rec.ReviewScore},
	}
	for _, ip := range ints {
		raw := field(ip.col)
		if raw == "" {
			continue
		}
		// Review scores come back as "4.0" from some exports.
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Record{}, &ParseError{Line: line, Column: ip.col, Err: err}
		}
		*ip.dst = int(v)
	}

	return rec, nil
}
