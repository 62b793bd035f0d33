package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

// healthCheck fetches cluster metadata under an inner deadline nested inside
// whatever outer deadline ctx already carries (the bus wraps every
// HealthCheck call in a 10s outer timeout).
func healthCheck(ctx context.Context, client sarama.Client, innerTimeout time.Duration) error {
	if innerTimeout <= 0 {
		innerTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, innerTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- client.RefreshMetadata()
	}()

	select {
	case err := <-done:
		if err != nil {
			return eventbus.ErrConnectionFailed(err)
		}
		if len(client.Brokers()) == 0 {
			return eventbus.ErrConnectionFailed(nil)
		}
		return nil
	case <-ctx.Done():
		return eventbus.ErrTimeout("health_check", ctx.Err())
	}
}
