package redpanda

import (
	"context"
	"encoding/json"
	"time"

	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/talentsift/resume-parser/internal/domain"
)

// Handler processes one decoded parse task.
type Handler interface {
	Handle(ctx context.Context, payload domain.ParseTaskPayload) error
}

// Consumer reads parse tasks from Kafka and dispatches them to a
// Handler. Offsets are marked only after the handler finishes, so a
// crashed worker replays its in-flight job.
type Consumer struct {
	client     *kgo.Client
	handler    Handler
	jobTimeout time.Duration
}

// NewConsumer builds a group consumer on the parse topic with
// OpenTelemetry record tracing.
func NewConsumer(brokers []string, group string, handler Handler, jobTimeout time.Duration) (*Consumer, error) {
	tracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	hooks := kotel.NewKotel(kotel.WithTracer(tracer))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(TopicParse),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.WithHooks(hooks.Hooks()...),
		kgo.DialTimeout(10*time.Second),
		kgo.SessionTimeout(30*time.Second),
		kgo.HeartbeatInterval(3*time.Second),
		kgo.AutoCommitMarks(),
		kgo.AutoCommitInterval(time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Consumer{client: client, handler: handler, jobTimeout: jobTimeout}, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("worker consuming", slog.String("topic", TopicParse))
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			slog.Error("fetch error",
				slog.String("topic", topic),
				slog.Int("partition", int(partition)),
				slog.Any("error", err))
		})
		fetches.EachRecord(func(record *kgo.Record) {
			c.consume(ctx, record)
			c.client.MarkCommitRecords(record)
		})
	}
}

func (c *Consumer) consume(ctx context.Context, record *kgo.Record) {
	var payload domain.ParseTaskPayload
	if err := json.Unmarshal(record.Value, &payload); err != nil {
		// Malformed payloads are dropped; retrying cannot fix them.
		slog.Error("malformed parse task",
			slog.String("key", string(record.Key)),
			slog.Any("error", err))
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	defer cancel()

	if err := c.handler.Handle(jobCtx, payload); err != nil {
		slog.Error("parse task failed",
			slog.String("resume_id", payload.ResumeID),
			slog.Any("error", err))
		return
	}
	slog.Info("parse task done", slog.String("resume_id", payload.ResumeID))
}

// Close closes the underlying client.
func (c *Consumer) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
