package eventbus

import (
	"context"
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/resilience"
)

// ResilientBrokerConfig configures the circuit-breaker and retry wrapping
// applied to producer acquisition, publish, and health checks. The
// subscribe path is left unwrapped: its own retry/DLQ machinery already
// governs failure handling at the envelope level.
type ResilientBrokerConfig struct {
	CircuitBreakerEnabled   bool          `env:"EVENTBUS_CB_ENABLED" env-default:"true"`
	CircuitBreakerThreshold int64         `env:"EVENTBUS_CB_THRESHOLD" env-default:"5"`
	CircuitBreakerTimeout   time.Duration `env:"EVENTBUS_CB_TIMEOUT" env-default:"30s"`

	RetryEnabled     bool          `env:"EVENTBUS_RETRY_ENABLED" env-default:"true"`
	RetryMaxAttempts int           `env:"EVENTBUS_RETRY_MAX" env-default:"3"`
	RetryBackoff     time.Duration `env:"EVENTBUS_RETRY_BACKOFF" env-default:"100ms"`
}

// ResilientBroker wraps a Broker with circuit breaker and retry support.
type ResilientBroker struct {
	broker   Broker
	cb       *resilience.CircuitBreaker
	retryCfg resilience.RetryConfig
}

// NewResilientBroker wraps broker with the resilience features cfg enables.
func NewResilientBroker(broker Broker, cfg ResilientBrokerConfig) *ResilientBroker {
	rb := &ResilientBroker{broker: broker}

	if cfg.CircuitBreakerEnabled {
		rb.cb = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "eventbus",
			FailureThreshold: cfg.CircuitBreakerThreshold,
			SuccessThreshold: 2,
			Timeout:          cfg.CircuitBreakerTimeout,
		})
	}

	if cfg.RetryEnabled {
		rb.retryCfg = resilience.RetryConfig{
			MaxAttempts:    cfg.RetryMaxAttempts,
			InitialBackoff: cfg.RetryBackoff,
			MaxBackoff:     5 * time.Second,
			Multiplier:     2.0,
		}
	}

	return rb
}

func (rb *ResilientBroker) Producer(topic string) (Producer, error) {
	var producer Producer
	err := rb.execute(context.Background(), func(ctx context.Context) error {
		var err error
		producer, err = rb.broker.Producer(topic)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &resilientProducer{producer: producer, broker: rb}, nil
}

func (rb *ResilientBroker) Consumer() (Consumer, error) {
	return rb.broker.Consumer()
}

func (rb *ResilientBroker) HealthCheck(ctx context.Context) error {
	return rb.execute(ctx, rb.broker.HealthCheck)
}

func (rb *ResilientBroker) Shutdown(ctx context.Context) error {
	return rb.broker.Shutdown(ctx)
}

func (rb *ResilientBroker) execute(ctx context.Context, fn resilience.Executor) error {
	operation := fn

	if rb.cb != nil {
		cbFn := operation
		operation = func(ctx context.Context) error {
			return rb.cb.Execute(ctx, cbFn)
		}
	}

	if rb.retryCfg.MaxAttempts > 0 {
		return resilience.Retry(ctx, rb.retryCfg, operation)
	}

	return operation(ctx)
}

// resilientProducer wraps a producer with resilience.
type resilientProducer struct {
	producer Producer
	broker   *ResilientBroker
}

func (rp *resilientProducer) Publish(ctx context.Context, msg *Message) error {
	return rp.broker.execute(ctx, func(ctx context.Context) error {
		return rp.producer.Publish(ctx, msg)
	})
}

func (rp *resilientProducer) PublishBatch(ctx context.Context, msgs []*Message) error {
	return rp.broker.execute(ctx, func(ctx context.Context) error {
		return rp.producer.PublishBatch(ctx, msgs)
	})
}

func (rp *resilientProducer) Close() error {
	return rp.producer.Close()
}
