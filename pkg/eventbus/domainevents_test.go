package eventbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg"
)

// S1: a text MessageReceived partitions by sender phone.
func TestMessageReceivedPartitionsByFromPhone(t *testing.T) {
	env := eventbus.NewEnvelope(eventbus.MessageReceived{
		MessageID:   "wamid.123",
		FromPhone:   "+1234567890",
		MessageType: eventbus.MessageTypeText,
		Content:     eventbus.ReceivedContent{Text: &eventbus.ReceivedText{Body: "hi"}},
		ReceivedAt:  time.Now(),
	})

	assert.Equal(t, "+1234567890", env.PartitionKey())
	assert.Equal(t, eventbus.TopicConversationMessages, eventbus.MessageReceived{}.Topic())
	assert.Equal(t, uint32(0), env.AttemptCount)
	assert.Equal(t, uint32(3), env.MaxAttempts)
}

// Universal property 1 applied to WhatsAppMessageSend's embedded wamsg.Outbound:
// an envelope round-trip preserves the concrete outbound message variant.
func TestWhatsAppMessageSendEnvelopeRoundTrip(t *testing.T) {
	text, err := wamsg.NewText("+16505551234", "your order shipped")
	require.NoError(t, err)

	original := eventbus.NewEnvelope(eventbus.WhatsAppMessageSend{
		OriginalMessageID: "wamid.abc",
		Message:           wamsg.Outbound{Message: text},
		GeneratedAt:       time.Now(),
		Priority:          eventbus.PriorityNormal,
	})

	assert.Equal(t, "+16505551234", original.PartitionKey())

	b, err := original.MarshalJSON()
	require.NoError(t, err)

	var decoded eventbus.Envelope[eventbus.WhatsAppMessageSend]
	require.NoError(t, decoded.UnmarshalJSON(b))

	assert.Equal(t, "+16505551234", decoded.Data.Message.Recipient())
	decodedText, ok := decoded.Data.Message.Message.(*wamsg.TextMessage)
	require.True(t, ok)
	assert.Equal(t, "your order shipped", decodedText.Text.Body)
}
