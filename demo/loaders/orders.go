package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seeds a local Postgres with a small order_lines sample so the service can
// be exercised without the full CSV export.
func main() {
	connString := os.Getenv("DATASET_POSTGRES_URL")
	if connString == "" {
		connString = "postgres://localhost:5432/ecommerce?sslmode=disable"
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatal("connect to postgres:", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS order_lines (
			order_id text,
			customer_id text NOT NULL,
			customer_unique_id text,
			customer_city text,
			customer_state text,
			customer_zip_code_prefix text,
			customer_geolocation_lat double precision,
			customer_geolocation_lng double precision,
			order_purchase_timestamp timestamptz NOT NULL,
			order_status text,
			payment_type text,
			payment_sequential integer,
			payment_installments integer,
			payment_value double precision NOT NULL,
			product_category_name text,
			review_id text,
			review_score integer,
			review_category text,
			seller_id text
		)
	`); err != nil {
		log.Fatal("create order_lines:", err)
	}

	day := func(offset int) time.Time {
		return time.Date(2018, 8, 29, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
	}

	lines := []struct {
		OrderID   string
		Customer  string
		UniqueID  string
		City      string
		State     string
		Zip       string
		Lat, Lng  float64
		Purchased time.Time
		Status    string
		PayType   string
		Seq       int
		Install   int
		Value     float64
		Category  string
		ReviewID  string
		Score     int
		ReviewCat string
		Seller    string
	}{
		{"ord-0001", "cust-001", "uniq-001", "sao paulo", "SP", "01310", -23.55, -46.63, day(0), "delivered", "credit_card", 1, 4, 189.90, "beleza_saude", "rev-0001", 5, "Satisfied", "sell-01"},
		{"ord-0002", "cust-001", "uniq-001", "sao paulo", "SP", "01310", -23.55, -46.63, day(12), "delivered", "credit_card", 1, 2, 74.50, "informatica_acessorios", "rev-0002", 4, "Satisfied", "sell-02"},
		{"ord-0003", "cust-002", "uniq-002", "rio de janeiro", "RJ", "20040", -22.91, -43.17, day(3), "shipped", "boleto", 1, 1, 320.00, "esporte_lazer", "rev-0003", 3, "Neutral", "sell-03"},
		{"ord-0004", "cust-003", "uniq-003", "belo horizonte", "MG", "30130", -19.92, -43.94, day(25), "delivered", "credit_card", 1, 8, 1250.75, "moveis_decoracao", "rev-0004", 2, "Unsatisfied", "sell-01"},
		{"ord-0005", "cust-004", "uniq-004", "curitiba", "PR", "80010", -25.43, -49.27, day(7), "delivered", "debit_card", 1, 1, 45.20, "livros", "rev-0005", 5, "Satisfied", "sell-04"},
		{"ord-0006", "cust-004", "uniq-004", "curitiba", "PR", "80010", -25.43, -49.27, day(40), "canceled", "voucher", 2, 1, 19.99, "livros", "rev-0006", 1, "Unsatisfied", "sell-04"},
		{"ord-0007", "cust-005", "uniq-005", "porto alegre", "RS", "90010", -30.03, -51.23, day(60), "delivered", "credit_card", 1, 3, 410.00, "relogios_presentes", "rev-0007", 4, "Satisfied", "sell-05"},
		{"ord-0008", "cust-005", "uniq-005", "porto alegre", "RS", "90010", -30.03, -51.23, day(1), "delivered", "credit_card", 1, 1, 89.90, "beleza_saude", "rev-0008", 5, "Satisfied", "sell-02"},
	}

	log.Println("Loading sample order lines...")

	for _, l := range lines {
		if _, err := pool.Exec(ctx, `
			INSERT INTO order_lines (
				order_id, customer_id, customer_unique_id, customer_city,
				customer_state, customer_zip_code_prefix,
				customer_geolocation_lat, customer_geolocation_lng,
				order_purchase_timestamp, order_status, payment_type,
				payment_sequential, payment_installments, payment_value,
				product_category_name, review_id, review_score, review_category,
				seller_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		`, l.OrderID, l.Customer, l.UniqueID, l.City, l.State, l.Zip, l.Lat, l.Lng,
			l.Purchased, l.Status, l.PayType, l.Seq, l.Install, l.Value,
			l.Category, l.ReviewID, l.Score, l.ReviewCat, l.Seller); err != nil {
			log.Printf("Failed to insert %s: %v", l.OrderID, err)
			continue
		}
		log.Printf("Loaded order line: %s (customer: %s, value: %.2f)", l.OrderID, l.Customer, l.Value)
	}

	log.Println("Done loading order lines")
}
