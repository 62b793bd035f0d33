// Package kafka adapts the eventbus Broker/Producer/Consumer interfaces to
// a Kafka cluster via sarama.
package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

// Broker is a Kafka-backed eventbus.Broker. One client is shared across
// every producer and consumer it creates.
type Broker struct {
	cfg    Config
	client sarama.Client

	mu        sync.Mutex
	producers []sarama.SyncProducer
}

// New dials the configured Kafka cluster and returns a ready Broker.
func New(cfg Config) (*Broker, error) {
	if len(cfg.BootstrapServers) == 0 {
		return nil, eventbus.ErrInvalidConfig("no bootstrap servers configured", nil)
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = cfg.ClientID
	saramaCfg.Version = sarama.V2_8_0_0
	saramaCfg.Net.TLS.Enable = cfg.TLSEnabled
	if cfg.OperationTimeout > 0 {
		saramaCfg.Net.DialTimeout = cfg.OperationTimeout
	}

	applyProducerConfig(saramaCfg)
	applyConsumerConfig(saramaCfg)

	client, err := sarama.NewClient(cfg.BootstrapServers, saramaCfg)
	if err != nil {
		return nil, eventbus.ErrConnectionFailed(err)
	}

	return &Broker{cfg: cfg, client: client}, nil
}

// applyProducerConfig sets the durability/throughput tradeoff for an
// at-least-once, ordered-per-key event stream: every write is acked by the
// full ISR, idempotence dedupes retried sends, and writes are batched
// briefly to keep small events from starving broker I/O.
func applyProducerConfig(cfg *sarama.Config) {
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 10
	cfg.Producer.Retry.Backoff = 1 * time.Second
	cfg.Producer.Compression = sarama.CompressionZSTD
	cfg.Producer.Flush.Bytes = 65536
	cfg.Producer.Flush.Frequency = 5 * time.Millisecond
	cfg.Producer.Flush.MaxMessages = 0
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
}

// applyConsumerConfig configures manual offset commits so a consumer never
// acknowledges a record until the retry/DLQ router has decided its fate.
func applyConsumerConfig(cfg *sarama.Config) {
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Offsets.AutoCommit.Enable = false
	cfg.Consumer.Group.Session.Timeout = 30 * time.Second
	cfg.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	cfg.Consumer.Group.Rebalance.Timeout = 300 * time.Second
	cfg.Consumer.Fetch.Min = 1024
	cfg.Consumer.MaxWaitTime = 500 * time.Millisecond
	cfg.Consumer.Return.Errors = true
}

func (b *Broker) Producer(topic string) (eventbus.Producer, error) {
	p, err := sarama.NewSyncProducerFromClient(b.client)
	if err != nil {
		return nil, eventbus.ErrConnectionFailed(err)
	}

	b.mu.Lock()
	b.producers = append(b.producers, p)
	b.mu.Unlock()

	return &producer{topic: topic, producer: p}, nil
}

func (b *Broker) Consumer() (eventbus.Consumer, error) {
	return &consumer{
		client:       b.client,
		baseGroup:    b.cfg.ConsumerGroup,
		drainTimeout: b.cfg.ShutdownDrainTimeout,
	}, nil
}

func (b *Broker) HealthCheck(ctx context.Context) error {
	return healthCheck(ctx, b.client, b.cfg.HealthCheckInnerTimeout)
}

// Shutdown closes every producer this broker created, then the shared
// client. Consumer groups opened through Consumer() are not closed here;
// only that consumer's Close closes them.
func (b *Broker) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	producers := b.producers
	b.producers = nil
	b.mu.Unlock()

	var firstErr error
	for _, p := range producers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := b.client.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
