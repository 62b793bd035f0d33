package eventbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

type testEvent struct {
	ID string `json:"id"`
}

func (testEvent) Topic() string          { return "test.events" }
func (testEvent) Version() string        { return "1.0" }
func (testEvent) EventType() string      { return "TestEvent" }
func (e testEvent) PartitionKey() string { return e.ID }

func TestNewEnvelopeDefaults(t *testing.T) {
	env := eventbus.NewEnvelope(testEvent{ID: "abc"})
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "TestEvent", env.EventType)
	assert.Equal(t, "1.0", env.Version)
	assert.Equal(t, uint32(0), env.AttemptCount)
	assert.Equal(t, uint32(eventbus.DefaultMaxAttempts), env.MaxAttempts)
	assert.Equal(t, "abc", env.PartitionKey())
	assert.False(t, env.ShouldDeadLetter())
}

func TestEnvelopePartitionKeyFallsBackToEventID(t *testing.T) {
	env := eventbus.NewEnvelope(testEvent{ID: ""})
	assert.Equal(t, env.EventID, env.PartitionKey())
}

func TestEnvelopeShouldDeadLetter(t *testing.T) {
	env := eventbus.NewEnvelopeWithMaxAttempts(testEvent{ID: "x"}, 2)
	assert.False(t, env.ShouldDeadLetter())
	env.IncrementAttempt()
	assert.False(t, env.ShouldDeadLetter())
	env.IncrementAttempt()
	assert.True(t, env.ShouldDeadLetter())
}

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	original := eventbus.NewEnvelope(testEvent{ID: "abc"})
	original.AddMetadata("source", "webhook")

	b, err := original.MarshalJSON()
	require.NoError(t, err)

	var decoded eventbus.Envelope[testEvent]
	require.NoError(t, decoded.UnmarshalJSON(b))

	assert.Equal(t, original.EventID, decoded.EventID)
	assert.Equal(t, original.EventType, decoded.EventType)
	assert.Equal(t, original.Version, decoded.Version)
	assert.Equal(t, original.Data, decoded.Data)
	assert.Equal(t, original.Metadata, decoded.Metadata)
	assert.Equal(t, original.AttemptCount, decoded.AttemptCount)
	assert.Equal(t, original.MaxAttempts, decoded.MaxAttempts)
	assert.WithinDuration(t, original.Timestamp, decoded.Timestamp, time.Millisecond)
}

func TestEnvelopeUnmarshalMissingCountersDefault(t *testing.T) {
	raw := []byte(`{"event_id":"e1","event_type":"TestEvent","version":"1.0","data":{"id":"abc"}}`)

	var env eventbus.Envelope[testEvent]
	require.NoError(t, env.UnmarshalJSON(raw))

	assert.Equal(t, uint32(0), env.AttemptCount)
	assert.Equal(t, uint32(eventbus.DefaultMaxAttempts), env.MaxAttempts)
	assert.NotNil(t, env.Metadata)
	assert.Empty(t, env.Metadata)
}

func TestEnvelopeUnmarshalPreservesZeroCounters(t *testing.T) {
	raw := []byte(`{"event_id":"e1","event_type":"TestEvent","version":"1.0","data":{"id":"abc"},"attempt_count":0,"max_attempts":5}`)

	var env eventbus.Envelope[testEvent]
	require.NoError(t, env.UnmarshalJSON(raw))

	assert.Equal(t, uint32(0), env.AttemptCount)
	assert.Equal(t, uint32(5), env.MaxAttempts)
}

func TestEnvelopeUnmarshalRejectsMalformedPayload(t *testing.T) {
	var env eventbus.Envelope[testEvent]
	assert.Error(t, env.UnmarshalJSON([]byte(`not json`)))
}
