package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/logger"
)

// Config configures an EventBus independent of the underlying broker.
type Config struct {
	// OperationTimeout bounds publish and health-check calls.
	OperationTimeout time.Duration `env:"EVENTBUS_OPERATION_TIMEOUT" env-default:"5s"`
}

// EventBus is the application-facing handle applications publish through and
// subscribe from. It owns per-topic producer caching; the broker itself
// owns the actual transport connection.
type EventBus struct {
	broker Broker
	cfg    Config

	mu        sync.Mutex
	producers map[string]Producer
}

// New wraps broker with the publish/subscribe semantics described by this
// package's generic functions.
func New(broker Broker, cfg Config) *EventBus {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	return &EventBus{
		broker:    broker,
		cfg:       cfg,
		producers: make(map[string]Producer),
	}
}

func (b *EventBus) producerFor(topic string) (Producer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.producers[topic]; ok {
		return p, nil
	}
	p, err := b.broker.Producer(topic)
	if err != nil {
		return nil, err
	}
	b.producers[topic] = p
	return p, nil
}

// HealthCheck probes the underlying broker under the bus's operation
// timeout, wrapped in the documented 10s outer deadline.
func (b *EventBus) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ctx, cancelOp := context.WithTimeout(ctx, b.cfg.OperationTimeout)
	defer cancelOp()
	return b.broker.HealthCheck(ctx)
}

// Shutdown shuts down the underlying broker. What that releases is up to the
// broker: the kafka adapter closes its producers and client, but not the
// consumer groups opened by its consumers.
func (b *EventBus) Shutdown(ctx context.Context) error {
	return b.broker.Shutdown(ctx)
}

// Publish wraps data in a fresh envelope and delivers it to T's topic, keyed
// by the payload's partition key (or the envelope id if the payload
// declares none).
func Publish[T Event](ctx context.Context, bus *EventBus, data T) error {
	env := NewEnvelope(data)
	return publishEnvelope(ctx, bus, env)
}

// PublishWithMaxAttempts is Publish with an explicit retry budget.
func PublishWithMaxAttempts[T Event](ctx context.Context, bus *EventBus, data T, maxAttempts uint32) error {
	env := NewEnvelopeWithMaxAttempts(data, maxAttempts)
	return publishEnvelope(ctx, bus, env)
}

func publishEnvelope[T Event](ctx context.Context, bus *EventBus, env *Envelope[T]) error {
	producer, err := bus.producerFor(env.Data.Topic())
	if err != nil {
		return err
	}

	payload, err := env.MarshalJSON()
	if err != nil {
		return ErrSerializationFailed(err)
	}

	ctx, cancel := context.WithTimeout(ctx, bus.cfg.OperationTimeout)
	defer cancel()

	msg := &Message{
		Topic:     env.Data.Topic(),
		Key:       []byte(env.PartitionKey()),
		Payload:   payload,
		Timestamp: env.Timestamp,
	}
	if err := producer.Publish(ctx, msg); err != nil {
		return ErrPublishFailed(err)
	}
	return nil
}

// PublishBatch issues len(items) concurrent publishes and fails on the
// first error encountered, after awaiting all of them — publishing the
// others is not rolled back.
func PublishBatch[T Event](ctx context.Context, bus *EventBus, items []T) error {
	if len(items) == 0 {
		return nil
	}

	errs := make([]error, len(items))
	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		go func(i int, item T) {
			defer wg.Done()
			errs[i] = Publish(ctx, bus, item)
		}(i, item)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers handler for T's topic under the bus's broker-level
// consumer group, blocking until ctx is canceled. Each record is
// deserialized to Envelope[T]; the handler's Outcome drives the retry/DLQ
// router, which republishes and always commits the original offset.
//
// Unparsable payloads are logged and committed without invoking handler —
// they can never block the partition.
func Subscribe[T Event](ctx context.Context, bus *EventBus, cfg SubscriptionConfig, handler func(ctx context.Context, env *Envelope[T]) Outcome) error {
	var zero T
	topic := zero.Topic()

	consumer, err := bus.broker.Consumer()
	if err != nil {
		return err
	}

	raw := func(ctx context.Context, msg *Message) Outcome {
		var env Envelope[T]
		if err := env.UnmarshalJSON(msg.Payload); err != nil {
			// Poison message: never reaches the handler, never blocks the
			// partition. Reported as Success so the consumer loop commits
			// and moves on.
			return Success()
		}

		if cfg.MaxAttempts > 0 {
			env.MaxAttempts = cfg.MaxAttempts
		}

		outcome := safeInvoke(ctx, &env, handler)

		if dest := applyOutcome(topic, &env, outcome); dest != "" {
			republish(ctx, bus, dest, &env)
		}
		return outcome
	}

	return consumer.Subscribe(ctx, topic, cfg, raw)
}

// safeInvoke converts a handler panic into a RetryableError outcome, per
// the handler-failure-isolation rule: broker state must not be mutated
// between invocation and panic capture, so this recovers before the caller
// ever routes or commits anything.
func safeInvoke[T Event](ctx context.Context, env *Envelope[T], handler func(context.Context, *Envelope[T]) Outcome) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Retryable("handler panic")
		}
	}()
	return handler(ctx, env)
}

func republish[T Event](ctx context.Context, bus *EventBus, topic string, env *Envelope[T]) {
	producer, err := bus.producerFor(topic)
	if err != nil {
		logger.L().Error("failed to acquire producer for retry/dlq routing", "topic", topic, "event_id", env.EventID, "error", err)
		return
	}
	payload, err := env.MarshalJSON()
	if err != nil {
		logger.L().Error("failed to marshal envelope for retry/dlq routing", "topic", topic, "event_id", env.EventID, "error", err)
		return
	}
	publishCtx, cancel := context.WithTimeout(ctx, bus.cfg.OperationTimeout)
	defer cancel()
	if err := producer.Publish(publishCtx, &Message{
		Topic:     topic,
		Key:       []byte(env.PartitionKey()),
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		logger.L().Error("failed to publish envelope to retry/dlq topic", "topic", topic, "event_id", env.EventID, "error", err)
	}
}
