package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/servicemesh/circuitbreaker"
	"github.com/chris-alexander-pop/system-design-library/pkg/servicemesh/ratelimit"
	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg"
)

// Client sends already-built, already-validated outbound messages to the
// WhatsApp Cloud API, honoring a per-minute rate limit with burst and
// short-circuiting once the endpoint looks unhealthy.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter: ratelimit.NewTokenBucket(cfg.Burst, float64(cfg.RateLimitPerMinute)/60.0),
		breaker: circuitbreaker.New("whatsapp-send", circuitbreaker.Options{
			FailureThreshold: cfg.CircuitBreakerFailureThreshold,
			Timeout:          cfg.CircuitBreakerTimeout,
		}),
	}
}

// sendOutcome is the result of one Send attempt, always populated even on
// failure so the caller can classify the failure precisely.
type sendOutcome struct {
	result *SendResult
	class  classification
	err    error
}

// Result returns the parsed success body, or nil on failure.
func (o sendOutcome) Result() *SendResult { return o.result }

// Err returns the terminal error for this attempt, or nil on success.
func (o sendOutcome) Err() error { return o.err }

// Retryable reports whether the retryability table classifies this
// attempt's failure as worth retrying. Meaningless when Err is nil.
func (o sendOutcome) Retryable() bool { return o.class.retryable }

// Send delivers msg and returns a sendOutcome describing the attempt.
// A non-nil err on the returned sendOutcome is the terminal error to log;
// class is always populated, even when err is nil (class.retryable is
// false and failureType is empty on success).
func (c *Client) Send(ctx context.Context, msg wamsg.Outbound) sendOutcome {
	if err := c.limiter.Wait(ctx); err != nil {
		return sendOutcome{err: err, class: classifyTimeout()}
	}

	raw, err := c.breaker.ExecuteContext(ctx, func(ctx context.Context) (interface{}, error) {
		return c.doSend(ctx, msg)
	})
	if err != nil {
		if raw != nil {
			if outcome, ok := raw.(sendOutcome); ok {
				return outcome
			}
		}
		if ctx.Err() != nil {
			return sendOutcome{err: err, class: classifyTimeout()}
		}
		return sendOutcome{err: err, class: classification{retryable: true, failureType: eventbus.FailureTypeApiError}}
	}
	outcome, _ := raw.(sendOutcome)
	return outcome
}

func (c *Client) doSend(ctx context.Context, msg wamsg.Outbound) (sendOutcome, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return sendOutcome{err: err, class: classification{retryable: false, failureType: eventbus.FailureTypeValidation}}, err
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return sendOutcome{err: err, class: classifyTimeout()}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		outcome := sendOutcome{err: err, class: classifyTimeout()}
		return outcome, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome := sendOutcome{err: err, class: classifyTimeout()}
		return outcome, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var parsed sendResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			outcome := sendOutcome{err: err, class: classification{retryable: false, failureType: eventbus.FailureTypeUnknown}}
			return outcome, err
		}
		ids := make([]string, 0, len(parsed.Messages))
		for _, m := range parsed.Messages {
			ids = append(ids, m.ID)
		}
		return sendOutcome{result: &SendResult{MessageIDs: ids}}, nil
	}

	var envelope apiErrorEnvelope
	_ = json.Unmarshal(respBody, &envelope)
	apiErr := envelope.Error

	class := classifyHTTPStatus(resp.StatusCode, &apiErr, retryAfterFrom(resp.Header.Get("Retry-After")))
	outcome := sendOutcome{err: apiErr, class: class}
	return outcome, apiErr
}

func retryAfterFrom(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
