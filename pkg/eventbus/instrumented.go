package eventbus

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chris-alexander-pop/system-design-library/pkg/logger"
)

// InstrumentedBroker wraps a Broker with tracing spans around publish, batch
// publish and the handling of each consumed message, and structured logs on
// producer/consumer creation failures, subscribe and shutdown. HealthCheck
// is passed through without a span.
type InstrumentedBroker struct {
	next   Broker
	tracer trace.Tracer
}

// NewInstrumentedBroker wraps next with tracing and logging.
func NewInstrumentedBroker(next Broker) *InstrumentedBroker {
	return &InstrumentedBroker{next: next, tracer: otel.Tracer("pkg/eventbus")}
}

func (b *InstrumentedBroker) Producer(topic string) (Producer, error) {
	producer, err := b.next.Producer(topic)
	if err != nil {
		logger.L().Error("failed to create producer", "topic", topic, "error", err)
		return nil, err
	}
	return &instrumentedProducer{next: producer, topic: topic, tracer: b.tracer}, nil
}

func (b *InstrumentedBroker) Consumer() (Consumer, error) {
	consumer, err := b.next.Consumer()
	if err != nil {
		logger.L().Error("failed to create consumer", "error", err)
		return nil, err
	}
	return &instrumentedConsumer{next: consumer, tracer: b.tracer}, nil
}

func (b *InstrumentedBroker) HealthCheck(ctx context.Context) error {
	return b.next.HealthCheck(ctx)
}

func (b *InstrumentedBroker) Shutdown(ctx context.Context) error {
	logger.L().InfoContext(ctx, "shutting down event broker")
	return b.next.Shutdown(ctx)
}

type instrumentedProducer struct {
	next   Producer
	topic  string
	tracer trace.Tracer
}

func (p *instrumentedProducer) Publish(ctx context.Context, msg *Message) error {
	ctx, span := p.tracer.Start(ctx, "eventbus.Publish", trace.WithAttributes(
		attribute.String("eventbus.topic", msg.Topic),
	))
	defer span.End()

	err := p.next.Publish(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().ErrorContext(ctx, "failed to publish event", "topic", msg.Topic, "error", err)
		return err
	}
	span.SetStatus(codes.Ok, "published")
	return nil
}

func (p *instrumentedProducer) PublishBatch(ctx context.Context, msgs []*Message) error {
	ctx, span := p.tracer.Start(ctx, "eventbus.PublishBatch", trace.WithAttributes(
		attribute.String("eventbus.topic", p.topic),
		attribute.Int("eventbus.batch_size", len(msgs)),
	))
	defer span.End()

	err := p.next.PublishBatch(ctx, msgs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().ErrorContext(ctx, "failed to publish event batch", "topic", p.topic, "error", err)
		return err
	}
	span.SetStatus(codes.Ok, "batch published")
	return nil
}

func (p *instrumentedProducer) Close() error {
	return p.next.Close()
}

type instrumentedConsumer struct {
	next   Consumer
	tracer trace.Tracer
}

func (c *instrumentedConsumer) Subscribe(ctx context.Context, topic string, cfg SubscriptionConfig, handler RawHandler) error {
	logger.L().InfoContext(ctx, "subscribing", "topic", topic, "consumer_group", cfg.ConsumerGroup)

	wrapped := func(ctx context.Context, msg *Message) Outcome {
		ctx, span := c.tracer.Start(ctx, "eventbus.HandleMessage", trace.WithAttributes(
			attribute.String("eventbus.topic", topic),
			attribute.Int64("eventbus.partition", int64(msg.Metadata.Partition)),
			attribute.Int64("eventbus.offset", msg.Metadata.Offset),
		))
		defer span.End()

		outcome := handler(ctx, msg)
		switch outcome.Kind {
		case ResultSuccess:
			span.SetStatus(codes.Ok, "handled")
		default:
			span.SetStatus(codes.Error, outcome.Reason)
		}
		return outcome
	}

	return c.next.Subscribe(ctx, topic, cfg, wrapped)
}

func (c *instrumentedConsumer) Close() error {
	return c.next.Close()
}
