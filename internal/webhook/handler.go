package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/logger"
)

// Config configures the intake handler.
type Config struct {
	// VerifyToken is compared against hub.verify_token on the GET
	// subscription-verification challenge.
	VerifyToken string `env:"WEBHOOK_VERIFY_TOKEN" env-default:""`
}

// Handler is a single net/http.Handler covering both the Cloud API's GET
// verification challenge and the POST delivery, with no router framework.
type Handler struct {
	cfg Config
	bus *eventbus.EventBus
}

// NewHandler builds a Handler publishing normalized events on bus.
func NewHandler(cfg Config, bus *eventbus.EventBus) *Handler {
	return &Handler{cfg: cfg, bus: bus}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.verify(w, r)
	case http.MethodPost:
		h.deliver(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != h.cfg.VerifyToken {
		logger.L().WarnContext(r.Context(), "webhook verification failed", "error", errVerificationFailed())
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(q.Get("hub.challenge")))
}

func (h *Handler) deliver(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		logger.L().ErrorContext(r.Context(), "failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.L().ErrorContext(r.Context(), "failed to decode webhook payload", "error", errInvalidPayload(err))
		// The Cloud API retries non-2xx deliveries; a malformed payload
		// will never parse differently on retry, so acknowledge it.
		w.WriteHeader(http.StatusOK)
		return
	}

	h.publish(r.Context(), payload)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) publish(ctx context.Context, payload Payload) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			phoneNumberID := ""
			if change.Value.Metadata != nil {
				phoneNumberID = change.Value.Metadata.PhoneNumberID
			}
			for _, msg := range change.Value.Messages {
				h.publishOne(ctx, msg, phoneNumberID)
			}
		}
	}
}

func (h *Handler) publishOne(ctx context.Context, msg Message, phoneNumberID string) {
	if interaction, ok := toInteractionReceived(msg); ok {
		if err := eventbus.Publish(ctx, h.bus, interaction); err != nil {
			logger.L().ErrorContext(ctx, "failed to publish interaction", "message_id", msg.ID, "error", err)
		}
		return
	}

	received, ok := toMessageReceived(msg, phoneNumberID)
	if !ok {
		logger.L().WarnContext(ctx, "dropping webhook message of unsupported or malformed type", "message_id", msg.ID, "type", msg.Type)
		return
	}
	if err := eventbus.Publish(ctx, h.bus, received); err != nil {
		logger.L().ErrorContext(ctx, "failed to publish message", "message_id", msg.ID, "error", err)
	}
}
