package eventbus

import (
	"strconv"
	"time"
)

// applyOutcome drives the retry/dead-letter state machine described for the
// subscribe path: given the primary topic and the handler's outcome, it
// mutates env in place (attempt count, origin metadata) and returns the
// topic to republish to, or "" if none. The original offset is always
// committed by the caller regardless of the returned topic — that part of
// the contract lives in the consumer loop, not here.
func applyOutcome[T Event](primaryTopic string, env *Envelope[T], outcome Outcome) string {
	retryTopic := primaryTopic + ".retry"
	dlqTopic := primaryTopic + ".dlq"

	switch outcome.Kind {
	case ResultSuccess:
		return ""

	case ResultPermanentError:
		env.AddMetadata("dlq_reason", "permanent_error")
		env.AddMetadata("original_topic", primaryTopic)
		env.AddMetadata("final_attempt_count", strconv.FormatUint(uint64(env.AttemptCount), 10))
		env.AddMetadata("dlq_timestamp", time.Now().UTC().Format(time.RFC3339))
		if outcome.Reason != "" {
			env.AddMetadata("failure_reason", outcome.Reason)
		}
		return dlqTopic

	case ResultRetryableError:
		env.IncrementAttempt()
		if env.ShouldDeadLetter() {
			env.AddMetadata("dlq_reason", "max_retries_exceeded")
			env.AddMetadata("original_topic", primaryTopic)
			env.AddMetadata("final_attempt_count", strconv.FormatUint(uint64(env.AttemptCount), 10))
			env.AddMetadata("dlq_timestamp", time.Now().UTC().Format(time.RFC3339))
			return dlqTopic
		}
		env.AddMetadata("retry_reason", "retryable_error")
		env.AddMetadata("original_topic", primaryTopic)
		env.AddMetadata("retry_attempt", strconv.FormatUint(uint64(env.AttemptCount), 10))
		return retryTopic

	default:
		// Treat any unrecognized outcome kind as retryable, matching the
		// handler-panic rule: unknown failure modes never get a free pass
		// to Success.
		return applyOutcome(primaryTopic, env, Retryable(outcome.Reason))
	}
}

