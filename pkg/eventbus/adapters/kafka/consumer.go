package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/logger"
)

// consumer lazily creates one sarama consumer group per Subscribe call,
// named by appending the subscription's group suffix to the broker's base
// consumer group.
type consumer struct {
	client       sarama.Client
	baseGroup    string
	drainTimeout time.Duration

	mu     sync.Mutex
	groups []sarama.ConsumerGroup
}

func (c *consumer) Subscribe(ctx context.Context, topic string, cfg eventbus.SubscriptionConfig, handler eventbus.RawHandler) error {
	groupID := c.baseGroup
	if cfg.ConsumerGroup != "" {
		groupID = c.baseGroup + "-" + cfg.ConsumerGroup
	}

	group, err := sarama.NewConsumerGroupFromClient(groupID, c.client)
	if err != nil {
		return eventbus.ErrSubscriptionFailed(err)
	}
	c.mu.Lock()
	c.groups = append(c.groups, group)
	c.mu.Unlock()

	go func() {
		for err := range group.Errors() {
			logger.L().Error("consumer group error", "topic", topic, "group", groupID, "error", err)
		}
	}()

	h := &groupHandler{topic: topic, handler: handler}

	for {
		if err := group.Consume(ctx, []string{topic}, h); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return eventbus.ErrConsumerError(err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *consumer) Close() error {
	drainCtx, cancel := context.WithTimeout(context.Background(), c.drainTimeout)
	defer cancel()

	c.mu.Lock()
	groups := c.groups
	c.groups = nil
	c.mu.Unlock()

	var firstErr error
	for _, group := range groups {
		if err := closeWithDeadline(drainCtx, group); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// closeWithDeadline closes group, giving up and returning the deadline's
// error if the in-flight session hasn't drained by the time ctx expires.
func closeWithDeadline(ctx context.Context, group sarama.ConsumerGroup) error {
	done := make(chan error, 1)
	go func() { done <- group.Close() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// groupHandler implements sarama.ConsumerGroupHandler. Every claimed
// message is handed to the bus-level handler and then marked regardless of
// outcome: retry and dead-letter routing happens by republishing to a
// different topic, never by leaving the original offset uncommitted.
type groupHandler struct {
	topic   string
	handler eventbus.RawHandler
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			headers := make(map[string]string, len(msg.Headers))
			for _, rh := range msg.Headers {
				headers[string(rh.Key)] = string(rh.Value)
			}

			m := &eventbus.Message{
				Topic:     msg.Topic,
				Key:       msg.Key,
				Payload:   msg.Value,
				Headers:   headers,
				Timestamp: msg.Timestamp,
				Metadata: eventbus.MessageMetadata{
					Partition: msg.Partition,
					Offset:    msg.Offset,
				},
			}

			h.handler(ctx, m)
			session.MarkMessage(msg, "")
			session.Commit()
		}
	}
}
