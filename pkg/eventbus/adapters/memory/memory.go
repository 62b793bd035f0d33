// Package memory provides an in-process eventbus.Broker for tests and local
// development, with no external dependencies.
package memory

import (
	"context"
	"sync"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

// Config configures the in-memory broker.
type Config struct {
	// BufferSize bounds how many unconsumed messages each subscriber queue
	// holds before Publish blocks.
	BufferSize int
}

// Broker is an in-process, channel-backed eventbus.Broker. Every Subscribe
// call gets its own queue so messages are broadcast, not load-balanced,
// across concurrent subscribers to the same topic.
type Broker struct {
	cfg Config

	mu     sync.Mutex
	topics map[string]*topic
	closed bool
}

type topic struct {
	nextOffset  int64
	subscribers []chan *eventbus.Message
}

// New returns a ready in-memory broker.
func New(cfg Config) *Broker {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 100
	}
	return &Broker{cfg: cfg, topics: make(map[string]*topic)}
}

func (b *Broker) topicFor(name string) *topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[name]
	if !ok {
		t = &topic{}
		b.topics[name] = t
	}
	return t
}

func (b *Broker) publish(msg *eventbus.Message) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return eventbus.ErrClosed(nil)
	}
	t := b.topics[msg.Topic]
	if t == nil {
		t = &topic{}
		b.topics[msg.Topic] = t
	}
	msg.Metadata.Offset = t.nextOffset
	t.nextOffset++
	subs := make([]chan *eventbus.Message, len(t.subscribers))
	copy(subs, t.subscribers)
	b.mu.Unlock()

	for _, ch := range subs {
		ch <- msg
	}
	return nil
}

func (b *Broker) Producer(topic string) (eventbus.Producer, error) {
	return &producer{broker: b, topic: topic}, nil
}

func (b *Broker) Consumer() (eventbus.Consumer, error) {
	return &consumer{broker: b}, nil
}

func (b *Broker) HealthCheck(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return eventbus.ErrClosed(nil)
	}
	return nil
}

func (b *Broker) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for _, t := range b.topics {
		for _, ch := range t.subscribers {
			close(ch)
		}
		t.subscribers = nil
	}
	return nil
}

type producer struct {
	broker *Broker
	topic  string
}

func (p *producer) Publish(ctx context.Context, msg *eventbus.Message) error {
	msg.Topic = p.topic
	return p.broker.publish(msg)
}

func (p *producer) PublishBatch(ctx context.Context, msgs []*eventbus.Message) error {
	for _, msg := range msgs {
		if err := p.Publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *producer) Close() error { return nil }

type consumer struct {
	broker *Broker
}

func (c *consumer) Subscribe(ctx context.Context, topicName string, cfg eventbus.SubscriptionConfig, handler eventbus.RawHandler) error {
	t := c.broker.topicFor(topicName)

	ch := make(chan *eventbus.Message, c.broker.cfg.BufferSize)
	c.broker.mu.Lock()
	t.subscribers = append(t.subscribers, ch)
	c.broker.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handler(ctx, msg)
		}
	}
}

func (c *consumer) Close() error { return nil }
