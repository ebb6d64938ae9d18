package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/config"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/dataset"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/kafka"
	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/rfm"
)

// Pipeline orchestrates the batch flow: load the dataset, score customers,
// publish the segment snapshot.
type Pipeline struct {
	cfg      *config.Config
	log      *zap.Logger
	source   dataset.Source
	pgSource *dataset.PostgresSource
	producer *kafka.Producer
}

// Result is the in-memory dashboard state: the raw order lines and the
// scored customer table derived from them.
type Result struct {
	Records []dataset.Record
	RFM     []rfm.CustomerRFM
}

// New wires the configured dataset source and, when brokers are configured,
// the segment producer.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	p := &Pipeline{cfg: cfg, log: log}

	if cfg.Dataset.PostgresURL != "" {
		src, err := dataset.NewPostgresSource(ctx, cfg.Dataset.PostgresURL, cfg.Dataset.PostgresTable)
		if err != nil {
			return nil, fmt.Errorf("postgres source: %w", err)
		}
		p.pgSource = src
		p.source = src
	} else {
		p.source = &dataset.CSVSource{
			Path:         cfg.Dataset.CSVPath,
			ShowProgress: cfg.Dataset.ShowProgress,
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		p.producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.SegmentsTopic)
	}

	return p, nil
}

// Run executes one full pass. The computation is pure and bounded; callers
// wanting a different date range invoke it again on their own slice.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	records, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	p.log.Info("dataset loaded", zap.Int("order_lines", len(records)))

	table, err := rfm.Compute(OrderLines(records))
	if err != nil {
		return nil, fmt.Errorf("compute rfm: %w", err)
	}
	p.log.Info("rfm table computed", zap.Int("customers", len(table)))

	if p.producer != nil {
		if err := p.producer.PublishSegments(ctx, table); err != nil {
			// The dashboard still works without the snapshot notification.
			p.log.Warn("publish segments failed", zap.Error(err))
		} else {
			p.log.Info("segment snapshot published",
				zap.String("topic", p.cfg.Kafka.SegmentsTopic),
				zap.Int("customers", len(table)))
		}
	}

	return &Result{Records: records, RFM: table}, nil
}

// Close releases the source pool and the producer.
func (p *Pipeline) Close() error {
	if p.pgSource != nil {
		p.pgSource.Close()
	}
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// OrderLines projects the wide dataset rows down to the three columns the
// RFM pipeline consumes.
func OrderLines(records []dataset.Record) []rfm.OrderLine {
	lines := make([]rfm.OrderLine, len(records))
	for i, r := range records {
		lines[i] = rfm.OrderLine{
			CustomerID:        r.CustomerID,
			PurchaseTimestamp: r.PurchaseTimestamp,
			PaymentValue:      r.PaymentValue,
		}
	}
	return lines
}
