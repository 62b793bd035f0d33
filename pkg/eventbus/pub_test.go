package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus/adapters/memory"
)

func newTestBus(t *testing.T) *eventbus.EventBus {
	t.Helper()
	broker := memory.New(memory.Config{BufferSize: 10})
	t.Cleanup(func() { broker.Shutdown(context.Background()) })
	return eventbus.New(broker, eventbus.Config{OperationTimeout: time.Second})
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *eventbus.Envelope[testEvent], 1)
	go eventbus.Subscribe(ctx, bus, eventbus.DefaultSubscriptionConfig("workers"), func(ctx context.Context, env *eventbus.Envelope[testEvent]) eventbus.Outcome {
		received <- env
		return eventbus.Success()
	})

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, eventbus.Publish(ctx, bus, testEvent{ID: "abc"}))

	select {
	case env := <-received:
		assert.Equal(t, "abc", env.Data.ID)
		assert.Equal(t, uint32(0), env.AttemptCount)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestSubscribeHandlerPanicIsTreatedAsRetryable(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 2)
	go eventbus.Subscribe(ctx, bus, eventbus.DefaultSubscriptionConfig("workers"), func(ctx context.Context, env *eventbus.Envelope[testEvent]) eventbus.Outcome {
		calls <- struct{}{}
		panic("boom")
	})

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, eventbus.Publish(ctx, bus, testEvent{ID: "abc"}))

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestPublishBatchReturnsFirstError(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	err := eventbus.PublishBatch(ctx, bus, []testEvent{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	assert.NoError(t, err)

	require.NoError(t, bus.Shutdown(ctx))
	assert.Error(t, eventbus.PublishBatch(ctx, bus, []testEvent{{ID: "d"}}))
}

func TestHealthCheckReflectsBrokerState(t *testing.T) {
	bus := newTestBus(t)
	assert.NoError(t, bus.HealthCheck(context.Background()))
	require.NoError(t, bus.Shutdown(context.Background()))
	assert.Error(t, bus.HealthCheck(context.Background()))
}
