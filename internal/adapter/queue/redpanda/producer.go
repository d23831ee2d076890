// Package redpanda provides the Kafka/Redpanda queue adapter for parse
// jobs: a transactional producer and a group consumer with per-job
// status handling.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/talentsift/resume-parser/internal/domain"
)

// TopicParse is the Kafka topic carrying parse jobs.
const TopicParse = "parse-jobs"

// Producer wraps a transactional Kafka producer and implements
// domain.Queue. Transactions are serialized through a channel so
// concurrent uploads do not interleave begin/commit on one client.
type Producer struct {
	client          *kgo.Client
	transactionChan chan struct{}
}

// NewProducer constructs a Producer with exactly-once semantics and
// ensures the parse topic exists.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTransactionalID(brokers, "resume-parser-producer")
}

// NewProducerWithTransactionalID constructs a Producer with a custom
// transactional ID, useful in tests to avoid conflicts.
func NewProducerWithTransactionalID(brokers []string, transactionalID string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}

	if err := createTopicIfNotExists(context.Background(), client, TopicParse, 1, 1); err != nil {
		slog.Warn("failed to create topic, it may already exist",
			slog.String("topic", TopicParse),
			slog.Any("error", err))
	}

	return &Producer{
		client:          client,
		transactionChan: make(chan struct{}, 1),
	}, nil
}

// EnqueueParse enqueues one parse task and returns the resume id as the
// task id.
func (p *Producer) EnqueueParse(ctx domain.Context, payload domain.ParseTaskPayload) (string, error) {
	select {
	case p.transactionChan <- struct{}{}:
		defer func() { <-p.transactionChan }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if err := p.client.BeginTransaction(); err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		p.abort(ctx)
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	record := &kgo.Record{
		Topic: TopicParse,
		// Resume id as key keeps per-resume ordering.
		Key:   []byte(payload.ResumeID),
		Value: b,
	}
	e := kgo.AbortingFirstErrPromise(p.client)
	p.client.Produce(ctx, record, e.Promise())
	if err := e.Err(); err != nil {
		p.abort(ctx)
		return "", fmt.Errorf("produce: %w", err)
	}

	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("parse task enqueued",
		slog.String("topic", TopicParse),
		slog.String("resume_id", payload.ResumeID))
	return payload.ResumeID, nil
}

func (p *Producer) abort(ctx context.Context) {
	if err := p.client.EndTransaction(ctx, kgo.TryAbort); err != nil {
		slog.Error("failed to abort transaction", slog.Any("error", err))
	}
}

// Ping checks broker connectivity, for readiness probing.
func (p *Producer) Ping(ctx domain.Context) error {
	return p.client.Ping(ctx)
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
