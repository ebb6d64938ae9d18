package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/analytics"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/dataset"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/pipeline"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/rfm"
)

const dateParamLayout = "2006-01-02"

// filtered applies the optional start/end query params (inclusive calendar
// dates) to the dataset.
func (s *Server) filtered(r *http.Request) ([]dataset.Record, error) {
	q := r.URL.Query()
	var start, end time.Time

	if v := q.Get("start"); v != "" {
		t, err := time.Parse(dateParamLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q, want YYYY-MM-DD", v)
		}
		start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(dateParamLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q, want YYYY-MM-DD", v)
		}
		// Inclusive of the whole end day.
		end = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, fmt.Errorf("end date before start date")
	}

	return analytics.FilterRange(s.records, start, end), nil
}

// rfmFor returns the scored table for the request's range: the precomputed
// full-range table when unfiltered, a fresh computation otherwise.
func (s *Server) rfmFor(r *http.Request) ([]rfm.CustomerRFM, error) {
	q := r.URL.Query()
	if q.Get("start") == "" && q.Get("end") == "" {
		return s.table, nil
	}
	records, err := s.filtered(r)
	if err != nil {
		return nil, err
	}
	table, err := rfm.Compute(pipeline.OrderLines(records))
	if errors.Is(err, rfm.ErrEmptyInput) {
		return nil, nil
	}
	return table, err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{
		"status":      "ok",
		"order_lines": len(s.records),
		"customers":   len(s.table),
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	records, err := s.filtered(r)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	jsonResponse(w, analytics.BuildOverview(records))
}

func (s *Server) handleRFMMetrics(w http.ResponseWriter, r *http.Request) {
	table, err := s.rfmFor(r)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	jsonResponse(w, analytics.RFMSummaries(table))
}

func (s *Server) handleRFMSegments(w http.ResponseWriter, r *http.Request) {
	table, err := s.rfmFor(r)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	shares := analytics.SegmentShares(table)
	if shares == nil {
		shares = []analytics.CountBucket{}
	}
	jsonResponse(w, shares)
}

func (s *Server) handleRFMTop(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = analytics.MetricMonetary
	}
	switch metric {
	case analytics.MetricRecency, analytics.MetricFrequency, analytics.MetricMonetary:
	default:
		jsonError(w, fmt.Errorf("unknown metric %q", metric), http.StatusBadRequest)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	table, err := s.rfmFor(r)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	top := analytics.TopCustomers(table, metric, limit)
	if top == nil {
		top = []rfm.CustomerRFM{}
	}
	jsonResponse(w, top)
}

// chart wraps the shared filter-then-project handler shape.
func (s *Server) chart(project func([]dataset.Record) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.filtered(r)
		if err != nil {
			jsonError(w, err, http.StatusBadRequest)
			return
		}
		s.log.Debug("chart request",
			zap.String("path", r.URL.Path),
			zap.Int("order_lines", len(records)))
		jsonResponse(w, project(records))
	}
}

func (s *Server) handleCustomerCities(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.TopCities(records, 10) })(w, r)
}

func (s *Server) handleCustomerStates(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.TopStates(records, 10) })(w, r)
}

func (s *Server) handleCustomerGeo(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.CustomerGeo(records) })(w, r)
}

func (s *Server) handlePaymentUsage(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.PaymentTypeUsage(records) })(w, r)
}

func (s *Server) handlePaymentSequential(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.PaymentBySequential(records) })(w, r)
}

func (s *Server) handlePaymentInstallments(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.PaymentByInstallments(records) })(w, r)
}

func (s *Server) handlePaymentGrowth(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.PaymentGrowth(records) })(w, r)
}

func (s *Server) handleBestProducts(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.BestSellingProducts(records, 10) })(w, r)
}

func (s *Server) handleWorstProducts(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.WorstSellingProducts(records, 10) })(w, r)
}

func (s *Server) handleReviewScores(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.ReviewScoreDistribution(records) })(w, r)
}

func (s *Server) handleReviewStatus(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.ReviewByOrderStatus(records) })(w, r)
}

func (s *Server) handleReviewGrowth(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.SatisfactionGrowth(records) })(w, r)
}

func (s *Server) handleReviewScoreCategories(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.ReviewScoreByCategory(records) })(w, r)
}

func (s *Server) handleReviewCategories(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.ReviewCategoryShares(records) })(w, r)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.OrderStatusCounts(records) })(w, r)
}

func (s *Server) handleOrderStatusYearly(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.OrderStatusByYear(records) })(w, r)
}

func (s *Server) handleOrderStatusMonthly(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.OrderStatusByMonth(records) })(w, r)
}

func (s *Server) handleOrderStatusDaily(w http.ResponseWriter, r *http.Request) {
	s.chart(func(records []dataset.Record) any { return analytics.OrderStatusByWeekday(records) })(w, r)
}
