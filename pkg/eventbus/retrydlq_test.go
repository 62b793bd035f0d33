package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type retryTestEvent struct {
	ID string `json:"id"`
}

func (retryTestEvent) Topic() string          { return "retry.events" }
func (retryTestEvent) Version() string        { return "1.0" }
func (retryTestEvent) EventType() string      { return "RetryTestEvent" }
func (e retryTestEvent) PartitionKey() string { return e.ID }

func TestApplyOutcomeSuccessNeverRepublishes(t *testing.T) {
	env := NewEnvelope(retryTestEvent{ID: "x"})
	dest := applyOutcome("orders", env, Success())
	assert.Equal(t, "", dest)
	assert.Equal(t, uint32(0), env.AttemptCount)
	assert.Empty(t, env.Metadata)
}

func TestApplyOutcomePermanentErrorGoesStraightToDLQ(t *testing.T) {
	env := NewEnvelopeWithMaxAttempts(retryTestEvent{ID: "x"}, 10)
	dest := applyOutcome("orders", env, Permanent("bad schema"))

	assert.Equal(t, "orders.dlq", dest)
	assert.Equal(t, uint32(0), env.AttemptCount, "permanent errors skip retry accounting")
	assert.Equal(t, "permanent_error", env.Metadata["dlq_reason"])
	assert.Equal(t, "orders", env.Metadata["original_topic"])
	assert.Equal(t, "bad schema", env.Metadata["failure_reason"])
	assert.NotEmpty(t, env.Metadata["dlq_timestamp"])
}

func TestApplyOutcomeRetryableBelowBudgetGoesToRetryTopic(t *testing.T) {
	env := NewEnvelopeWithMaxAttempts(retryTestEvent{ID: "x"}, 3)
	dest := applyOutcome("orders", env, Retryable("downstream timeout"))

	assert.Equal(t, "orders.retry", dest)
	assert.Equal(t, uint32(1), env.AttemptCount)
	assert.Equal(t, "retryable_error", env.Metadata["retry_reason"])
	assert.Equal(t, "1", env.Metadata["retry_attempt"])
	assert.Equal(t, "orders", env.Metadata["original_topic"])
}

func TestApplyOutcomeRetryableAtBudgetGoesToDLQ(t *testing.T) {
	env := NewEnvelopeWithMaxAttempts(retryTestEvent{ID: "x"}, 1)
	dest := applyOutcome("orders", env, Retryable("downstream timeout"))

	assert.Equal(t, "orders.dlq", dest)
	assert.Equal(t, uint32(1), env.AttemptCount)
	assert.Equal(t, "max_retries_exceeded", env.Metadata["dlq_reason"])
	assert.Equal(t, "1", env.Metadata["final_attempt_count"])
}

func TestApplyOutcomeUnknownKindTreatedAsRetryable(t *testing.T) {
	env := NewEnvelopeWithMaxAttempts(retryTestEvent{ID: "x"}, 3)
	dest := applyOutcome("orders", env, Outcome{Kind: ResultKind(99), Reason: "mystery"})

	assert.Equal(t, "orders.retry", dest)
	assert.Equal(t, uint32(1), env.AttemptCount)
	assert.Equal(t, "retryable_error", env.Metadata["retry_reason"])
}
