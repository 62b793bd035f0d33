package eventbus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/chris-alexander-pop/system-design-library/pkg/errors"
)

// DefaultMaxAttempts is the retry budget a freshly published envelope
// carries unless overridden with NewEnvelopeWithMaxAttempts.
const DefaultMaxAttempts = 3

// Envelope wraps a domain payload T with identity, timing, version,
// free-form metadata, and the retry counters the state machine in
// retrydlq.go operates on.
type Envelope[T Event] struct {
	EventID      string
	Timestamp    time.Time
	EventType    string
	Version      string
	Data         T
	Metadata     map[string]string
	AttemptCount uint32
	MaxAttempts  uint32
}

// NewEnvelope wraps data with a fresh id, the current UTC timestamp, and the
// default retry budget.
func NewEnvelope[T Event](data T) *Envelope[T] {
	return &Envelope[T]{
		EventID:      uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		EventType:    data.EventType(),
		Version:      data.Version(),
		Data:         data,
		Metadata:     make(map[string]string),
		AttemptCount: 0,
		MaxAttempts:  DefaultMaxAttempts,
	}
}

// NewEnvelopeWithMaxAttempts is NewEnvelope with an explicit retry budget.
func NewEnvelopeWithMaxAttempts[T Event](data T, maxAttempts uint32) *Envelope[T] {
	e := NewEnvelope(data)
	e.MaxAttempts = maxAttempts
	return e
}

// IncrementAttempt bumps the attempt counter. It never decreases and is the
// only mutation the retry router performs besides metadata inserts.
func (e *Envelope[T]) IncrementAttempt() {
	e.AttemptCount++
}

// ShouldDeadLetter reports whether the envelope has exhausted its retry
// budget.
func (e *Envelope[T]) ShouldDeadLetter() bool {
	return e.AttemptCount >= e.MaxAttempts
}

// AddMetadata inserts or overwrites a metadata key; last write wins.
func (e *Envelope[T]) AddMetadata(key, value string) {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
}

// PartitionKey delegates to the payload, falling back to the envelope's own
// id when the payload declares none.
func (e *Envelope[T]) PartitionKey() string {
	if key := e.Data.PartitionKey(); key != "" {
		return key
	}
	return e.EventID
}

// envelopeWire is the JSON shape of Envelope. Data is kept as a raw message
// so unmarshal can be deferred until the caller knows T; AttemptCount and
// MaxAttempts are pointers purely to detect absence on read, per the wire
// contract's "missing counters default to 0 / 3".
type envelopeWire struct {
	EventID      string            `json:"event_id"`
	Timestamp    time.Time         `json:"timestamp"`
	EventType    string            `json:"event_type"`
	Version      string            `json:"version"`
	Data         json.RawMessage   `json:"data"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	AttemptCount *uint32           `json:"attempt_count,omitempty"`
	MaxAttempts  *uint32           `json:"max_attempts,omitempty"`
}

// MarshalJSON implements the envelope wire format from the external
// interfaces contract: optional fields are never emitted as explicit null,
// and metadata/counters always round-trip even when zero-valued.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	dataBytes, err := json.Marshal(e.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal envelope payload")
	}
	attempt := e.AttemptCount
	max := e.MaxAttempts
	wire := envelopeWire{
		EventID:      e.EventID,
		Timestamp:    e.Timestamp,
		EventType:    e.EventType,
		Version:      e.Version,
		Data:         dataBytes,
		Metadata:     e.Metadata,
		AttemptCount: &attempt,
		MaxAttempts:  &max,
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements the envelope wire format's read-side leniency:
// unknown keys are ignored (the default json.Unmarshal behavior already
// does this), missing metadata defaults to empty, and missing counters
// default to 0 / DefaultMaxAttempts.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var wire envelopeWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return errors.Wrap(err, "failed to unmarshal envelope")
	}

	var data T
	if len(wire.Data) > 0 {
		if err := json.Unmarshal(wire.Data, &data); err != nil {
			return errors.Wrap(err, "failed to unmarshal envelope payload")
		}
	}

	e.EventID = wire.EventID
	e.Timestamp = wire.Timestamp
	e.EventType = wire.EventType
	e.Version = wire.Version
	e.Data = data

	if wire.Metadata == nil {
		e.Metadata = make(map[string]string)
	} else {
		e.Metadata = wire.Metadata
	}

	if wire.AttemptCount == nil {
		e.AttemptCount = 0
	} else {
		e.AttemptCount = *wire.AttemptCount
	}

	if wire.MaxAttempts == nil {
		e.MaxAttempts = DefaultMaxAttempts
	} else {
		e.MaxAttempts = *wire.MaxAttempts
	}

	return nil
}
