package outbound

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

func TestClassifyHTTPStatusRateLimited(t *testing.T) {
	c := classifyHTTPStatus(http.StatusTooManyRequests, nil, 5*time.Second)
	assert.True(t, c.retryable)
	assert.Equal(t, eventbus.FailureTypeRateLimited, c.failureType)
	assert.Equal(t, 5*time.Second, c.retryAfter)
}

func TestClassifyHTTPStatusAuthIsPermanent(t *testing.T) {
	c := classifyHTTPStatus(http.StatusUnauthorized, nil, 0)
	assert.False(t, c.retryable)
	assert.Equal(t, eventbus.FailureTypeAuthentication, c.failureType)
}

func TestClassifyHTTPStatus5xxIsRetryable(t *testing.T) {
	c := classifyHTTPStatus(http.StatusBadGateway, nil, 0)
	assert.True(t, c.retryable)
}

func TestClassifyHTTPStatusInvalidPhoneIsPermanent(t *testing.T) {
	c := classifyHTTPStatus(http.StatusBadRequest, &ApiError{Subcode: subcodeInvalidPhoneNumber}, 0)
	assert.False(t, c.retryable)
}

func TestClassifyHTTPStatusInvalidParameterIsValidation(t *testing.T) {
	c := classifyHTTPStatus(http.StatusBadRequest, &ApiError{Subcode: subcodeInvalidParameter}, 0)
	assert.False(t, c.retryable)
	assert.Equal(t, eventbus.FailureTypeValidation, c.failureType)
}
