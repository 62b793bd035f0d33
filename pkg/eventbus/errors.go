package eventbus

import "github.com/chris-alexander-pop/system-design-library/pkg/errors"

// Error codes for event bus operations. These map onto the taxonomy kinds
// from the error handling design: Connection, PublishFailed,
// SubscriptionFailed/ConsumerError, TopicNotFound, Serialization,
// Configuration.
const (
	CodeConnectionFailed    errors.Code = "EVENTBUS_CONNECTION_FAILED"
	CodeTopicNotFound       errors.Code = "EVENTBUS_TOPIC_NOT_FOUND"
	CodePublishFailed       errors.Code = "EVENTBUS_PUBLISH_FAILED"
	CodeSubscriptionFailed  errors.Code = "EVENTBUS_SUBSCRIPTION_FAILED"
	CodeConsumerError       errors.Code = "EVENTBUS_CONSUMER_ERROR"
	CodeTimeout             errors.Code = "EVENTBUS_TIMEOUT"
	CodeClosed              errors.Code = "EVENTBUS_CLOSED"
	CodeInvalidConfig       errors.Code = "EVENTBUS_INVALID_CONFIG"
	CodeSerializationFailed errors.Code = "EVENTBUS_SERIALIZATION_FAILED"
	CodeShutdownRequested   errors.Code = "EVENTBUS_SHUTDOWN_REQUESTED"
)

// ErrConnectionFailed reports broker transport/metadata failures.
func ErrConnectionFailed(err error) *errors.AppError {
	return errors.New(CodeConnectionFailed, "failed to connect to event broker", err)
}

// ErrTopicNotFound reports a named topic absent on the broker.
func ErrTopicNotFound(topic string, err error) *errors.AppError {
	return errors.New(CodeTopicNotFound, "topic not found: "+topic, err)
}

// ErrPublishFailed reports the producer refusing or timing out a send.
func ErrPublishFailed(err error) *errors.AppError {
	return errors.New(CodePublishFailed, "failed to publish event", err)
}

// ErrSubscriptionFailed reports consumer group assignment failing outright.
func ErrSubscriptionFailed(err error) *errors.AppError {
	return errors.New(CodeSubscriptionFailed, "failed to subscribe to topic", err)
}

// ErrConsumerError reports a runtime poll/commit failure.
func ErrConsumerError(err error) *errors.AppError {
	return errors.New(CodeConsumerError, "consumer runtime error", err)
}

// ErrTimeout reports an operation exceeding its configured deadline.
func ErrTimeout(operation string, err error) *errors.AppError {
	return errors.New(CodeTimeout, "event bus operation timed out: "+operation, err)
}

// ErrClosed reports use of an already-closed broker/producer/consumer.
func ErrClosed(err error) *errors.AppError {
	return errors.New(CodeClosed, "broker connection is closed", err)
}

// ErrInvalidConfig reports missing or malformed configuration.
func ErrInvalidConfig(msg string, err error) *errors.AppError {
	return errors.New(CodeInvalidConfig, "invalid event bus configuration: "+msg, err)
}

// ErrSerializationFailed reports an envelope JSON encode/decode failure.
func ErrSerializationFailed(err error) *errors.AppError {
	return errors.New(CodeSerializationFailed, "failed to serialize event envelope", err)
}

// ErrShutdownRequested reports cooperative cancellation during drain.
func ErrShutdownRequested() *errors.AppError {
	return errors.New(CodeShutdownRequested, "shutdown requested", nil)
}
