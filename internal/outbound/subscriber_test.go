package outbound_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/internal/outbound"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus/adapters/memory"
	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg"
)

func TestSubscriberPublishesMessageFailedOnPermanentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad token","code":190}}`))
	}))
	defer srv.Close()

	broker := memory.New(memory.Config{})
	bus := eventbus.New(broker, eventbus.Config{})
	client := outbound.NewClient(newTestConfig(srv.URL))
	sub := outbound.NewSubscriber(client, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sub.Run(ctx) }()

	failed := make(chan eventbus.Envelope[eventbus.MessageFailed], 1)
	go func() {
		_ = eventbus.Subscribe(ctx, bus, eventbus.DefaultSubscriptionConfig("test-failed"),
			func(_ context.Context, env *eventbus.Envelope[eventbus.MessageFailed]) eventbus.Outcome {
				failed <- *env
				return eventbus.Success()
			})
	}()
	time.Sleep(20 * time.Millisecond)

	msg, err := wamsg.NewText("+16505551234", "hi")
	require.NoError(t, err)
	require.NoError(t, eventbus.Publish(ctx, bus, eventbus.WhatsAppMessageSend{
		OriginalMessageID: "wamid.1",
		Message:           wamsg.Outbound{Message: msg},
		GeneratedAt:       time.Now(),
		Priority:          eventbus.PriorityNormal,
	}))

	select {
	case env := <-failed:
		require.Equal(t, eventbus.FailureTypeAuthentication, env.Data.FailureType)
		require.Equal(t, "+16505551234", env.Data.Phone)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for MessageFailed")
	}
}
