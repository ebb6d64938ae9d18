package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/dataset"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/rfm"
)

// Server exposes the computed dashboard tables as a JSON API. It holds the
// full dataset and the full-range RFM table; date-filtered requests derive
// fresh views per call.
type Server struct {
	log     *zap.Logger
	records []dataset.Record
	table   []rfm.CustomerRFM
	router  *mux.Router
}

// NewServer builds the router over a loaded dataset and its scored table.
func NewServer(log *zap.Logger, records []dataset.Record, table []rfm.CustomerRFM) *Server {
	s := &Server{log: log, records: records, table: table}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/overview", s.handleOverview).Methods(http.MethodGet)

	api.HandleFunc("/rfm/metrics", s.handleRFMMetrics).Methods(http.MethodGet)
	api.HandleFunc("/rfm/segments", s.handleRFMSegments).Methods(http.MethodGet)
	api.HandleFunc("/rfm/top", s.handleRFMTop).Methods(http.MethodGet)

	api.HandleFunc("/customers/cities", s.handleCustomerCities).Methods(http.MethodGet)
	api.HandleFunc("/customers/states", s.handleCustomerStates).Methods(http.MethodGet)
	api.HandleFunc("/customers/geo", s.handleCustomerGeo).Methods(http.MethodGet)

	api.HandleFunc("/payments/usage", s.handlePaymentUsage).Methods(http.MethodGet)
	api.HandleFunc("/payments/sequential", s.handlePaymentSequential).Methods(http.MethodGet)
	api.HandleFunc("/payments/installments", s.handlePaymentInstallments).Methods(http.MethodGet)
	api.HandleFunc("/payments/growth", s.handlePaymentGrowth).Methods(http.MethodGet)

	api.HandleFunc("/products/best", s.handleBestProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/worst", s.handleWorstProducts).Methods(http.MethodGet)

	api.HandleFunc("/reviews/scores", s.handleReviewScores).Methods(http.MethodGet)
	api.HandleFunc("/reviews/status", s.handleReviewStatus).Methods(http.MethodGet)
	api.HandleFunc("/reviews/growth", s.handleReviewGrowth).Methods(http.MethodGet)
	api.HandleFunc("/reviews/score-categories", s.handleReviewScoreCategories).Methods(http.MethodGet)
	api.HandleFunc("/reviews/categories", s.handleReviewCategories).Methods(http.MethodGet)

	api.HandleFunc("/orders/status", s.handleOrderStatus).Methods(http.MethodGet)
	api.HandleFunc("/orders/status/yearly", s.handleOrderStatusYearly).Methods(http.MethodGet)
	api.HandleFunc("/orders/status/monthly", s.handleOrderStatusMonthly).Methods(http.MethodGet)
	api.HandleFunc("/orders/status/daily", s.handleOrderStatusDaily).Methods(http.MethodGet)

	s.router = r
	return s
}

// Router returns the HTTP handler for tests and embedding.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe serves until the context is cancelled, then drains.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("dashboard API listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
