// Package intake screens candidate locations arriving on a Kafka topic and publishes the duplicate reports.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"location-dedup/internal/models"
	"location-dedup/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// KafkaReader defines the interface for a Kafka message reader.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaWriter defines the interface for a Kafka message writer.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Checker screens one candidate.
type Checker interface {
	Check(ctx context.Context, candidate models.Location) (*models.DuplicateReport, error)
}

// Archiver keeps a copy of every published report.
type Archiver interface {
	StoreReport(ctx context.Context, report *models.DuplicateReport) (string, error)
}

const readBackoff = time.Second

// NewKafkaReader creates a consumer-group reader with manual offset commits.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
		// zero disables auto-commit
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
}

// NewKafkaWriter creates a writer publishing to topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// Worker reads candidates, screens them and publishes one report per candidate.
type Worker struct {
	reader  KafkaReader
	writer  KafkaWriter
	checker Checker
	archive Archiver
	backoff time.Duration
}

// NewWorker wires a worker. archive may be nil.
func NewWorker(reader KafkaReader, writer KafkaWriter, checker Checker, archive Archiver) *Worker {
	return &Worker{
		reader:  reader,
		writer:  writer,
		checker: checker,
		archive: archive,
		backoff: readBackoff,
	}
}

// Run consumes until ctx is cancelled or the reader is closed. A message is finished before the next one is
// fetched: transient failures are retried in place, rejected candidates are committed.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Msg("starting intake consumer loop")

	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Info().Msg("intake consumer loop stopped")
				return nil
			}
			log.Error().Err(err).Msg("error reading message")
			if !w.wait(ctx) {
				return nil
			}
			continue
		}

		if err := w.handle(ctx, msg); err != nil {
			// the offset stays uncommitted for the next session
			if ctx.Err() != nil {
				log.Info().
					Str("topic", msg.Topic).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("intake consumer loop stopped before the candidate was finished")
				return nil
			}
			return err
		}
	}
}

// isRejected reports whether err means the candidate itself is invalid, so screening it again cannot succeed.
func isRejected(err error) bool {
	return errors.Is(err, service.ErrEmptyCandidate) || errors.Is(err, service.ErrInvalidCoordinates)
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) error {
	var candidate models.Location
	if err := json.Unmarshal(msg.Value, &candidate); err != nil {
		log.Warn().Err(err).Int64("offset", msg.Offset).Msg("dropping undecodable candidate")
		return w.commit(ctx, msg)
	}

	var report *models.DuplicateReport
	err := w.retry(ctx, msg, "check", func() error {
		var err error
		report, err = w.checker.Check(ctx, candidate)
		if err != nil {
			return fmt.Errorf("intake: check failed: %w", err)
		}
		return nil
	})
	if isRejected(err) {
		log.Warn().Err(err).Int64("offset", msg.Offset).Msg("dropping rejected candidate")
		return w.commit(ctx, msg)
	}
	if err != nil {
		return err
	}

	value, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("intake: failed to encode report: %w", err)
	}

	key := candidate.ID
	if key == "" {
		key = report.ID
	}
	err = w.retry(ctx, msg, "publish", func() error {
		if err := w.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
			return fmt.Errorf("intake: failed to publish report: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if w.archive != nil {
		err = w.retry(ctx, msg, "archive", func() error {
			if _, err := w.archive.StoreReport(ctx, report); err != nil {
				return fmt.Errorf("intake: failed to archive report: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	log.Info().
		Str("report_id", report.ID).
		Int("matches", len(report.Matches)).
		Bool("unique", report.Unique).
		Msg("candidate screened")
	return w.commit(ctx, msg)
}

// retry runs fn until it succeeds, fails with a rejection or ctx is done. Only the last two return an error.
func (w *Worker) retry(ctx context.Context, msg kafka.Message, step string, fn func() error) error {
	for {
		err := fn()
		if err == nil || isRejected(err) {
			return err
		}
		log.Error().Err(err).
			Str("step", step).
			Str("topic", msg.Topic).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Dur("backoff", w.backoff).
			Msg("failed to process candidate, retrying")
		if !w.wait(ctx) {
			return ctx.Err()
		}
	}
}

// wait sleeps for the backoff and reports false when ctx ended first.
func (w *Worker) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.backoff):
		return true
	}
}

func (w *Worker) commit(ctx context.Context, msg kafka.Message) error {
	return w.retry(ctx, msg, "commit", func() error {
		log.Debug().Str("topic", msg.Topic).Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("committing offset")
		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("intake: failed to commit offset: %w", err)
		}
		return nil
	})
}

// Close shuts down the reader and the writer.
func (w *Worker) Close() error {
	return errors.Join(w.reader.Close(), w.writer.Close())
}
