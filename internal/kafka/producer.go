package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/mathiasyeremiaaryadi/data-science-ecommerce-brazil/internal/rfm"
)

// Producer publishes computed customer segments to Kafka. It is a
// fire-and-forget notification that a fresh RFM snapshot exists, not a
// persistence layer.
type Producer struct {
	segmentsWriter *kafka.Writer
}

// NewProducer creates a producer for the segments topic.
func NewProducer(brokers []string, segmentsTopic string) *Producer {
	return &Producer{
		segmentsWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    segmentsTopic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishSegments sends one message per scored customer, keyed by customer
// ID so repeated snapshots of the same customer land in one partition.
func (p *Producer) PublishSegments(ctx context.Context, rows []rfm.CustomerRFM) error {
	msgs := make([]kafka.Message, 0, len(rows))
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(row.CustomerID),
			Value: data,
		})
	}

	return p.segmentsWriter.WriteMessages(ctx, msgs...)
}

// Close closes the Kafka writer.
func (p *Producer) Close() error {
	return p.segmentsWriter.Close()
}
