package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource loads the order-line table from a warehouse instead of a
// CSV export. The table carries the same column names as the flat file.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource connects a pool to the given conn string.
func NewPostgresSource(ctx context.Context, connString, table string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if table == "" {
		table = "order_lines"
	}
	return &PostgresSource{pool: pool, table: table}, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Load reads every order line. Optional columns come back NULL-able and
// default to zero values.
func (s *PostgresSource) Load(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT order_id, customer_id, customer_unique_id, customer_city,
			customer_state, customer_zip_code_prefix,
			customer_geolocation_lat, customer_geolocation_lng,
			order_purchase_timestamp, order_status, payment_type,
			payment_sequential, payment_installments, payment_value,
			product_category_name, review_id, review_score, review_category,
			seller_id
		FROM %s
		ORDER BY order_purchase_timestamp
	`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var (
			orderID, uniqueID, city, state, zip, status        *string
			paymentType, category, reviewID, reviewCat, seller *string
			lat, lng                                           *float64
			sequential, installments, score                    *int
		)
		if err := rows.Scan(&orderID, &rec.CustomerID, &uniqueID, &city, &state,
			&zip, &lat, &lng, &rec.PurchaseTimestamp, &status, &paymentType,
			&sequential, &installments, &rec.PaymentValue, &category,
			&reviewID, &score, &reviewCat, &seller); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}

		assignString := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		assignString(&rec.OrderID, orderID)
		assignString(&rec.CustomerUniqueID, uniqueID)
		assignString(&rec.CustomerCity, city)
		assignString(&rec.CustomerState, state)
		assignString(&rec.ZipCodePrefix, zip)
		assignString(&rec.OrderStatus, status)
		assignString(&rec.PaymentType, paymentType)
		assignString(&rec.ProductCategory, category)
		assignString(&rec.ReviewID, reviewID)
		assignString(&rec.ReviewCategory, reviewCat)
		assignString(&rec.SellerID, seller)
		if lat != nil {
			rec.GeolocationLat = *lat
		}
		if lng != nil {
			rec.GeolocationLng = *lng
		}
		if sequential != nil {
			rec.PaymentSequential = *sequential
		}
		if installments != nil {
			rec.PaymentInstallments = *installments
		}
		if score != nil {
			rec.ReviewScore = *score
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read order lines: %w", err)
	}

	return records, nil
}
