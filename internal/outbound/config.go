// Package outbound subscribes to the chat platform's outgoing-message topic
// and delivers each message to the WhatsApp Cloud API send endpoint through
// a rate-limited, circuit-broken client.
package outbound

import "time"

// Config configures the outbound sending collaborator.
type Config struct {
	// AccessToken authenticates against the Graph API.
	AccessToken string `env:"WHATSAPP_ACCESS_TOKEN" validate:"required"`

	// APIVersion is the Graph API version path segment, e.g. "v19.0".
	APIVersion string `env:"WHATSAPP_API_VERSION" env-default:"v19.0"`

	// PhoneNumberID is the sending number's Cloud API identifier.
	PhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID" validate:"required"`

	// BaseURL is the Graph API host, overridable for tests.
	BaseURL string `env:"WHATSAPP_BASE_URL" env-default:"https://graph.facebook.com"`

	// RateLimitPerMinute and Burst bound the client's token bucket.
	RateLimitPerMinute int `env:"WHATSAPP_RATE_LIMIT_PER_MIN" env-default:"800"`
	Burst              int `env:"WHATSAPP_RATE_LIMIT_BURST" env-default:"50"`

	// RequestTimeout bounds a single send call.
	RequestTimeout time.Duration `env:"WHATSAPP_REQUEST_TIMEOUT" env-default:"10s"`

	// MaxConcurrent is loaded from the environment, but Client does not read
	// it, so it places no bound on in-flight sends.
	MaxConcurrent int `env:"WHATSAPP_MAX_CONCURRENT" env-default:"20"`

	// CircuitBreakerFailureThreshold and CircuitBreakerTimeout configure the
	// send client's circuit breaker.
	CircuitBreakerFailureThreshold int           `env:"WHATSAPP_CB_FAILURE_THRESHOLD" env-default:"5"`
	CircuitBreakerTimeout          time.Duration `env:"WHATSAPP_CB_TIMEOUT" env-default:"30s"`
}
