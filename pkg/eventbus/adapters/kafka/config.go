package kafka

import "time"

// Config configures the Kafka broker adapter. Producer and consumer tuning
// follow the values used in production for this kind of ordered,
// at-least-once event stream: idempotent acks=all producers, manual-commit
// consumers with a generous poll interval for slow handlers.
type Config struct {
	BootstrapServers []string `env:"KAFKA_BOOTSTRAP_SERVERS" env-separator:"," env-required:"true"`
	ClientID         string   `env:"KAFKA_CLIENT_ID" env-default:"eventbus"`
	ConsumerGroup    string   `env:"KAFKA_CONSUMER_GROUP" env-required:"true"`

	// OperationTimeout bounds the dial to each broker (sarama's
	// Net.DialTimeout).
	OperationTimeout time.Duration `env:"KAFKA_OPERATION_TIMEOUT" env-default:"10s"`

	// HealthCheckInnerTimeout bounds the metadata fetch performed inside the
	// 10s outer health check deadline.
	HealthCheckInnerTimeout time.Duration `env:"KAFKA_HEALTH_CHECK_TIMEOUT" env-default:"5s"`

	// ShutdownDrainTimeout bounds how long a consumer's Close waits for each
	// of its consumer groups to close. Broker.Shutdown does not close
	// consumers, so it is not bounded by this value.
	ShutdownDrainTimeout time.Duration `env:"KAFKA_SHUTDOWN_DRAIN_TIMEOUT" env-default:"5s"`

	TLSEnabled bool `env:"KAFKA_TLS_ENABLED" env-default:"false"`
}
