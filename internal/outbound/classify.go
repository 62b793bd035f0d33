package outbound

import (
	"net/http"
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

// classification is the result of mapping a send attempt's outcome onto the
// retryability table: network timeouts, 5xx, and rate limiting retry with
// backoff (rate limiting honoring a server-suggested delay when present);
// authentication, invalid phone, and invalid content are permanent.
type classification struct {
	retryable   bool
	failureType eventbus.FailureType
	retryAfter  time.Duration
}

// Cloud API error subcodes covering invalid recipient / invalid parameter,
// distinct from a generic 4xx.
const (
	subcodeInvalidPhoneNumber = 131030
	subcodeInvalidParameter   = 131009
)

func classifyTimeout() classification {
	return classification{retryable: true, failureType: eventbus.FailureTypeTimeout}
}

func classifyHTTPStatus(status int, apiErr *ApiError, retryAfter time.Duration) classification {
	switch {
	case status == http.StatusTooManyRequests:
		return classification{retryable: true, failureType: eventbus.FailureTypeRateLimited, retryAfter: retryAfter}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return classification{retryable: false, failureType: eventbus.FailureTypeAuthentication}
	case status >= 500:
		return classification{retryable: true, failureType: eventbus.FailureTypeApiError}
	case apiErr != nil && apiErr.Subcode == subcodeInvalidPhoneNumber:
		return classification{retryable: false, failureType: eventbus.FailureTypeApiError}
	case apiErr != nil && apiErr.Subcode == subcodeInvalidParameter:
		return classification{retryable: false, failureType: eventbus.FailureTypeValidation}
	case status >= 400:
		return classification{retryable: false, failureType: eventbus.FailureTypeApiError}
	default:
		return classification{retryable: false, failureType: eventbus.FailureTypeUnknown}
	}
}
