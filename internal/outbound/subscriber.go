package outbound

import (
	"context"
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/logger"
)

// Subscriber drains conversation.responses and delivers each message
// through a Client, publishing MessageFailed once an envelope has
// exhausted its retries or failed permanently.
type Subscriber struct {
	client *Client
	bus    *eventbus.EventBus
}

// NewSubscriber builds a Subscriber delivering through client and
// publishing failures back onto bus.
func NewSubscriber(client *Client, bus *eventbus.EventBus) *Subscriber {
	return &Subscriber{client: client, bus: bus}
}

// Run blocks, processing conversation.responses until ctx is canceled.
func (s *Subscriber) Run(ctx context.Context) error {
	return eventbus.Subscribe(ctx, s.bus, eventbus.DefaultSubscriptionConfig("outbound-sender"),
		s.handle)
}

func (s *Subscriber) handle(ctx context.Context, env *eventbus.Envelope[eventbus.WhatsAppMessageSend]) eventbus.Outcome {
	outcome := s.client.Send(ctx, env.Data.Message)
	if outcome.err == nil {
		return eventbus.Success()
	}

	logger.L().ErrorContext(ctx, "outbound send failed",
		"message_id", env.Data.OriginalMessageID,
		"recipient", env.Data.Message.Recipient(),
		"retryable", outcome.class.retryable,
		"failure_type", outcome.class.failureType,
		"error", outcome.err)

	if !outcome.class.retryable {
		s.publishFailure(ctx, env, outcome)
		return eventbus.Permanent(string(outcome.class.failureType))
	}

	// One more retry would push AttemptCount to MaxAttempts, so this is the
	// last chance before the envelope lands on the dead-letter topic.
	if env.AttemptCount+1 >= env.MaxAttempts {
		s.publishFailure(ctx, env, outcome)
	}

	if outcome.class.retryAfter > 0 {
		select {
		case <-time.After(outcome.class.retryAfter):
		case <-ctx.Done():
		}
	}
	return eventbus.Retryable(string(outcome.class.failureType))
}

func (s *Subscriber) publishFailure(ctx context.Context, env *eventbus.Envelope[eventbus.WhatsAppMessageSend], outcome sendOutcome) {
	failed := eventbus.MessageFailed{
		MessageID:    env.Data.OriginalMessageID,
		Phone:        env.Data.Message.Recipient(),
		FailureType:  outcome.class.failureType,
		ErrorDetails: outcome.err.Error(),
		AttemptCount: env.AttemptCount + 1,
		FailedAt:     time.Now().UTC(),
	}
	if err := eventbus.Publish(ctx, s.bus, failed); err != nil {
		logger.L().ErrorContext(ctx, "failed to publish message-failed event", "message_id", failed.MessageID, "error", err)
	}
}
