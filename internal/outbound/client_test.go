package outbound_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/internal/outbound"
	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg"
)

func newTestConfig(baseURL string) outbound.Config {
	return outbound.Config{
		AccessToken:                    "token",
		APIVersion:                     "v19.0",
		PhoneNumberID:                  "123",
		BaseURL:                        baseURL,
		RateLimitPerMinute:             800,
		Burst:                          50,
		RequestTimeout:                 2 * time.Second,
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerTimeout:          30 * time.Second,
	}
}

func TestClientSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]string{{"id": "wamid.out.1"}},
		})
	}))
	defer srv.Close()

	client := outbound.NewClient(newTestConfig(srv.URL))
	msg, err := wamsg.NewText("+16505551234", "hi")
	require.NoError(t, err)

	result := client.Send(context.Background(), wamsg.Outbound{Message: msg})
	require.NoError(t, result.Err())
	require.Equal(t, []string{"wamid.out.1"}, result.Result().MessageIDs)
}

func TestClientSendRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited", "code": 80007},
		})
	}))
	defer srv.Close()

	client := outbound.NewClient(newTestConfig(srv.URL))
	msg, err := wamsg.NewText("+16505551234", "hi")
	require.NoError(t, err)

	result := client.Send(context.Background(), wamsg.Outbound{Message: msg})
	require.Error(t, result.Err())
	require.True(t, result.Retryable())
}

func TestClientSendAuthFailureIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "bad token", "code": 190},
		})
	}))
	defer srv.Close()

	client := outbound.NewClient(newTestConfig(srv.URL))
	msg, err := wamsg.NewText("+16505551234", "hi")
	require.NoError(t, err)

	result := client.Send(context.Background(), wamsg.Outbound{Message: msg})
	require.Error(t, result.Err())
	require.False(t, result.Retryable())
}
