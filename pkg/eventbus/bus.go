// Package eventbus provides a broker-backed, at-least-once event bus: a
// generic envelope protocol, partitioned publish, a manual-commit subscribe
// loop, and a retry/dead-letter routing layer on top of it.
//
// # Architecture
//
// The low-level Broker/Producer/Consumer interfaces defined here have zero
// external dependencies; concrete transports live under their own adapter
// package (pkg/eventbus/adapters/{kafka,memory}). The generic Publish and
// Subscribe functions in pub.go sit on top of a Broker and are the
// surface application code should use — they own envelope encoding and
// retry/DLQ routing so adapters only need to move bytes.
//
// # Usage
//
//	broker, err := kafka.New(kafka.Config{BootstrapServers: []string{"localhost:9092"}, ConsumerGroup: "conversation-hub"})
//	bus := eventbus.New(broker, eventbus.Config{OperationTimeout: 5 * time.Second})
//
//	err = eventbus.Publish(ctx, bus, MessageReceived{...})
//
//	err = eventbus.Subscribe(ctx, bus, eventbus.DefaultSubscriptionConfig("workers"),
//	    func(ctx context.Context, env *eventbus.Envelope[MessageReceived]) eventbus.Outcome {
//	        ...
//	        return eventbus.Success()
//	    })
package eventbus

import (
	"context"
	"time"
)

// Message is the wire-level unit moved by a Broker. Application code never
// constructs these directly; Publish/Subscribe in pub.go build and parse
// them around an Envelope.
type Message struct {
	Topic     string
	Key       []byte
	Payload   []byte
	Headers   map[string]string
	Timestamp time.Time
	Metadata  MessageMetadata
}

// MessageMetadata carries broker-assigned placement info, populated by the
// producer after a successful send or by the consumer on receipt.
type MessageMetadata struct {
	Partition int32
	Offset    int64
}

// ResultKind classifies a handler's outcome for the retry/DLQ router.
type ResultKind int

const (
	// ResultSuccess commits the offset; the envelope's lifecycle ends.
	ResultSuccess ResultKind = iota
	// ResultRetryableError routes to the retry or DLQ topic depending on
	// remaining attempts, then commits the original offset.
	ResultRetryableError
	// ResultPermanentError routes straight to the DLQ topic regardless of
	// remaining attempts, then commits the original offset.
	ResultPermanentError
)

// Outcome is what a handler returns to drive the retry/DLQ state machine.
type Outcome struct {
	Kind   ResultKind
	Reason string
}

// Success reports the envelope as fully handled.
func Success() Outcome { return Outcome{Kind: ResultSuccess} }

// Retryable reports a transient failure; the router decides retry vs. DLQ
// based on the envelope's remaining attempts.
func Retryable(reason string) Outcome { return Outcome{Kind: ResultRetryableError, Reason: reason} }

// Permanent reports a failure that must never be retried.
func Permanent(reason string) Outcome { return Outcome{Kind: ResultPermanentError, Reason: reason} }

// RawHandler processes one broker message's bytes. Used internally by the
// generic Subscribe wrapper; adapters only need to deliver Messages to it.
type RawHandler func(ctx context.Context, msg *Message) Outcome

// SubscriptionConfig configures a single subscribe call.
type SubscriptionConfig struct {
	// ConsumerGroup is appended to the bus's base consumer group to form the
	// broker-level group id: "{base}-{ConsumerGroup}".
	ConsumerGroup string

	// MaxBatchSize carries a batch-size limit for batching handlers built on
	// top of RawHandler. The bus itself does not read it.
	MaxBatchSize int

	// BatchTimeout carries a batch-fill wait for batching handlers built on
	// top of RawHandler. The bus itself does not read it.
	BatchTimeout time.Duration

	// AutoCommit is part of the abstraction's declared contract; the
	// concrete broker-backed bus always commits manually regardless of this
	// flag, per the subscribe path's at-least-once design.
	AutoCommit bool

	// MaxAttempts overrides the envelope's default max_attempts for events
	// consumed under this subscription. Zero means keep whatever the
	// envelope already carries.
	MaxAttempts uint32
}

// DefaultSubscriptionConfig returns the documented defaults for a given
// consumer group suffix.
func DefaultSubscriptionConfig(consumerGroup string) SubscriptionConfig {
	return SubscriptionConfig{
		ConsumerGroup: consumerGroup,
		MaxBatchSize:  100,
		BatchTimeout:  1 * time.Second,
		AutoCommit:    true,
	}
}

// Producer sends messages to one topic. Implementations must be safe for
// concurrent use: the bus shares one producer across every publisher.
type Producer interface {
	Publish(ctx context.Context, msg *Message) error
	PublishBatch(ctx context.Context, msgs []*Message) error
	Close() error
}

// Consumer runs a manual-commit poll loop for one topic under one consumer
// group. Subscribe blocks until ctx is canceled or the handler loop returns
// a terminal error; it never returns nil early just because the topic is
// momentarily empty.
type Consumer interface {
	Subscribe(ctx context.Context, topic string, cfg SubscriptionConfig, handler RawHandler) error
	Close() error
}

// Broker is the concrete transport behind an EventBus. Each adapter
// (pkg/eventbus/adapters/kafka, pkg/eventbus/adapters/memory) implements
// this once for its backend.
type Broker interface {
	// Producer returns a Producer bound to topic, shared across callers.
	Producer(topic string) (Producer, error)

	// Consumer returns a Consumer bound to the bus's base consumer group.
	// Per-subscription group suffixing happens in Subscribe's cfg argument.
	Consumer() (Consumer, error)

	// HealthCheck probes broker connectivity under ctx's deadline.
	HealthCheck(ctx context.Context) error

	// Shutdown releases every producer/consumer the broker created,
	// flushing any buffered sends first.
	Shutdown(ctx context.Context) error
}
