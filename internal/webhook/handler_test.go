package webhook_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/internal/webhook"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus/adapters/memory"
)

func TestHandlerVerifyChallenge(t *testing.T) {
	h := webhook.NewHandler(webhook.Config{VerifyToken: "secret"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=abc123", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "abc123", rec.Body.String())
}

func TestHandlerVerifyRejectsBadToken(t *testing.T) {
	h := webhook.NewHandler(webhook.Config{VerifyToken: "secret"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerDeliverPublishesMessageReceived(t *testing.T) {
	broker := memory.New(memory.Config{})
	bus := eventbus.New(broker, eventbus.Config{})
	h := webhook.NewHandler(webhook.Config{}, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	received := make(chan eventbus.Envelope[eventbus.MessageReceived], 1)
	go func() {
		_ = eventbus.Subscribe(ctx, bus, eventbus.DefaultSubscriptionConfig("test"),
			func(_ context.Context, env *eventbus.Envelope[eventbus.MessageReceived]) eventbus.Outcome {
				received <- *env
				return eventbus.Success()
			})
	}()
	time.Sleep(10 * time.Millisecond)

	body := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{` +
		`"messaging_product":"whatsapp","metadata":{"phone_number_id":"123"},` +
		`"messages":[{"id":"wamid.1","from":"+16505551234","timestamp":"1700000000","type":"text","text":{"body":"hi"}}]}}]}]}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case env := <-received:
		require.Equal(t, "hi", env.Data.Content.Text.Body)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestHandlerDeliverAcknowledgesMalformedBody(t *testing.T) {
	broker := memory.New(memory.Config{})
	bus := eventbus.New(broker, eventbus.Config{})
	h := webhook.NewHandler(webhook.Config{}, bus)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
