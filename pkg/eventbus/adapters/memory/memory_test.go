package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus/adapters/memory"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	broker := memory.New(memory.Config{BufferSize: 10})
	defer broker.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *eventbus.Message, 1)
	consumer, err := broker.Consumer()
	require.NoError(t, err)

	go func() {
		consumer.Subscribe(ctx, "orders", eventbus.DefaultSubscriptionConfig("workers"), func(ctx context.Context, msg *eventbus.Message) eventbus.Outcome {
			received <- msg
			return eventbus.Success()
		})
	}()

	time.Sleep(10 * time.Millisecond) // let the subscriber register before publishing

	producer, err := broker.Producer("orders")
	require.NoError(t, err)
	require.NoError(t, producer.Publish(ctx, &eventbus.Message{Payload: []byte("hello")}))

	select {
	case msg := <-received:
		assert.Equal(t, []byte("hello"), msg.Payload)
		assert.Equal(t, "orders", msg.Topic)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestBrokerHealthCheckAfterShutdown(t *testing.T) {
	broker := memory.New(memory.Config{})
	require.NoError(t, broker.HealthCheck(context.Background()))
	require.NoError(t, broker.Shutdown(context.Background()))
	assert.Error(t, broker.HealthCheck(context.Background()))
}

func TestBrokerBroadcastsToEverySubscriber(t *testing.T) {
	broker := memory.New(memory.Config{BufferSize: 10})
	defer broker.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var gotA, gotB bool
	doneA := make(chan struct{})
	doneB := make(chan struct{})

	consumerA, _ := broker.Consumer()
	consumerB, _ := broker.Consumer()

	go consumerA.Subscribe(ctx, "fanout", eventbus.DefaultSubscriptionConfig("a"), func(ctx context.Context, msg *eventbus.Message) eventbus.Outcome {
		gotA = true
		close(doneA)
		return eventbus.Success()
	})
	go consumerB.Subscribe(ctx, "fanout", eventbus.DefaultSubscriptionConfig("b"), func(ctx context.Context, msg *eventbus.Message) eventbus.Outcome {
		gotB = true
		close(doneB)
		return eventbus.Success()
	})

	time.Sleep(10 * time.Millisecond)

	producer, _ := broker.Producer("fanout")
	require.NoError(t, producer.Publish(ctx, &eventbus.Message{Payload: []byte("x")}))

	select {
	case <-doneA:
	case <-time.After(time.Second):
		t.Fatal("consumer a never received message")
	}
	select {
	case <-doneB:
	case <-time.After(time.Second):
		t.Fatal("consumer b never received message")
	}
	assert.True(t, gotA)
	assert.True(t, gotB)
}
