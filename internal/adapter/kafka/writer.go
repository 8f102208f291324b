package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/trip-analytics/internal/config"
	"github.com/couchcryptid/trip-analytics/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys set on every exported trip.
const (
	HeaderHourOfDay = "hour_of_day"
	HeaderLoadedAt  = "loaded_at"
)

// Writer produces cleaned trips to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchFlushInterval,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes cleaned trips to the sink topic in a
// single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, loadedAt time.Time, trips []domain.Trip) error {
	if len(trips) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(trips))
	for i := range trips {
		msg, err := serializeToMessage(trips[i], loadedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d trips: %w", len(msgs), err)
	}
	w.logger.Debug("trip batch written", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Trip into a Kafka message keyed by its
// deterministic trip ID.
func serializeToMessage(trip domain.Trip, loadedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(trip)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize trip: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(domain.TripID(trip)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderHourOfDay, Value: []byte(strconv.Itoa(trip.HourOfDay))},
			{Key: HeaderLoadedAt, Value: []byte(loadedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
