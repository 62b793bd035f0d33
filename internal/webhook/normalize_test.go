package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

func TestToMessageReceivedText(t *testing.T) {
	msg := Message{
		ID:        "wamid.1",
		From:      "+16505551234",
		Timestamp: "1700000000",
		Type:      "text",
		Text:      &TextContent{Body: "hello"},
	}

	received, ok := toMessageReceived(msg, "1234567890")
	require.True(t, ok)
	assert.Equal(t, eventbus.MessageTypeText, received.MessageType)
	assert.Equal(t, "hello", received.Content.Text.Body)
	assert.Equal(t, "+16505551234", received.FromPhone)
	assert.Equal(t, "1234567890", received.Metadata["phone_number_id"])
}

func TestToMessageReceivedImageWithoutBodyIsDropped(t *testing.T) {
	msg := Message{ID: "wamid.2", From: "+16505551234", Timestamp: "1700000000", Type: "image"}
	_, ok := toMessageReceived(msg, "")
	assert.False(t, ok)
}

func TestToMessageReceivedUnknownTypeIsDropped(t *testing.T) {
	msg := Message{ID: "wamid.3", From: "+1", Timestamp: "1700000000", Type: "reaction"}
	_, ok := toMessageReceived(msg, "")
	assert.False(t, ok)
}

func TestToInteractionReceivedButtonReply(t *testing.T) {
	msg := Message{
		ID:   "wamid.4",
		From: "+16505551234",
		Type: "interactive",
		Interactive: &InteractiveContent{
			Type:        "button_reply",
			ButtonReply: &ButtonReplyContent{ID: "yes", Title: "Yes"},
		},
	}

	interaction, ok := toInteractionReceived(msg)
	require.True(t, ok)
	assert.Equal(t, eventbus.InteractionTypeButtonReply, interaction.InteractionType)
	assert.Equal(t, "yes", interaction.Selection.ButtonReply.ID)
}

func TestToInteractionReceivedListReply(t *testing.T) {
	msg := Message{
		ID:   "wamid.5",
		From: "+16505551234",
		Type: "interactive",
		Interactive: &InteractiveContent{
			Type:      "list_reply",
			ListReply: &ListReplyContent{ID: "r1", Title: "Row", Description: "desc"},
		},
	}

	interaction, ok := toInteractionReceived(msg)
	require.True(t, ok)
	assert.Equal(t, eventbus.InteractionTypeListReply, interaction.InteractionType)
	assert.Equal(t, "r1", interaction.Selection.ListReply.ID)
}

func TestToInteractionReceivedNonInteractiveIsRejected(t *testing.T) {
	_, ok := toInteractionReceived(Message{Type: "text"})
	assert.False(t, ok)
}
