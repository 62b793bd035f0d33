package eventbus

import (
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/wamsg"
)

// Topic names for the primary event streams. Retry and DLQ topics are
// always derived as "<primary>.retry" and "<primary>.dlq".
const (
	TopicConversationMessages     = "conversation.messages"
	TopicConversationInteractions = "conversation.interactions"
	TopicConversationFailed       = "conversation.messages.failed"
	TopicConversationResponses    = "conversation.responses"
)

// MessageType enumerates the inbound content shapes carried by a
// MessageReceived event.
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeDocument MessageType = "document"
	MessageTypeVideo    MessageType = "video"
	MessageTypeLocation MessageType = "location"
	MessageTypeContact  MessageType = "contact"
	MessageTypeSticker  MessageType = "sticker"
)

// ReceivedContent is the tagged-union payload of an inbound message,
// normalized from the chat-platform webhook by the collaborator that
// publishes MessageReceived. Only the field matching MessageType is
// populated; the rest are left zero.
type ReceivedContent struct {
	Text     *ReceivedText     `json:"text,omitempty"`
	Media    *ReceivedMedia    `json:"media,omitempty"`
	Location *ReceivedLocation `json:"location,omitempty"`
	Contact  *ReceivedContact  `json:"contact,omitempty"`
}

type ReceivedText struct {
	Body string `json:"body"`
}

// ReceivedMedia covers Image, Audio, Document, Video, and Sticker message
// types — they all normalize to the same id/mime/caption/filename shape.
type ReceivedMedia struct {
	MediaID  string `json:"media_id"`
	MimeType string `json:"mime_type"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type ReceivedLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type ReceivedContact struct {
	FormattedName string `json:"formatted_name"`
	PhoneNumber   string `json:"phone_number,omitempty"`
}

// MessageReceived is published when an inbound chat message is normalized
// off the webhook. Partitioned by sender so all of one user's messages are
// handled in order by a single consumer.
type MessageReceived struct {
	MessageID   string            `json:"message_id"`
	FromPhone   string            `json:"from_phone"`
	MessageType MessageType       `json:"message_type"`
	Content     ReceivedContent   `json:"content"`
	ReceivedAt  time.Time         `json:"received_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (MessageReceived) Topic() string     { return TopicConversationMessages }
func (MessageReceived) Version() string   { return "1.0" }
func (MessageReceived) EventType() string { return "MessageReceived" }
func (e MessageReceived) PartitionKey() string {
	return e.FromPhone
}

// InteractionType enumerates the two reply shapes an interactive message
// can produce.
type InteractionType string

const (
	InteractionTypeButtonReply InteractionType = "button_reply"
	InteractionTypeListReply   InteractionType = "list_reply"
)

// InteractionSelection is the tagged-union payload of what the user picked.
type InteractionSelection struct {
	ButtonReply *ButtonReplySelection `json:"button_reply,omitempty"`
	ListReply   *ListReplySelection   `json:"list_reply,omitempty"`
}

type ButtonReplySelection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ListReplySelection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// InteractionReceived is published when a user responds to an interactive
// message. Partitioned by sender for the same ordering reason as
// MessageReceived.
type InteractionReceived struct {
	OriginalMessageID string                `json:"original_message_id"`
	FromPhone         string                `json:"from_phone"`
	InteractionType   InteractionType       `json:"interaction_type"`
	Selection         InteractionSelection  `json:"selection"`
	ReceivedAt        time.Time             `json:"received_at"`
}

func (InteractionReceived) Topic() string     { return TopicConversationInteractions }
func (InteractionReceived) Version() string   { return "1.0" }
func (InteractionReceived) EventType() string { return "InteractionReceived" }
func (e InteractionReceived) PartitionKey() string {
	return e.FromPhone
}

// FailureType classifies why an outbound send failed, feeding
// MessageFailed for downstream alerting/reconciliation.
type FailureType string

const (
	FailureTypeValidation     FailureType = "validation"
	FailureTypeApiError       FailureType = "api_error"
	FailureTypeRateLimited    FailureType = "rate_limited"
	FailureTypeAuthentication FailureType = "authentication"
	FailureTypeTimeout        FailureType = "timeout"
	FailureTypeUnknown        FailureType = "unknown"
)

// MessageFailed is published when an outbound send to the chat platform
// could not be completed. Partitioned by recipient phone.
type MessageFailed struct {
	MessageID    string      `json:"message_id"`
	Phone        string      `json:"phone"`
	FailureType  FailureType `json:"failure_type"`
	ErrorDetails string      `json:"error_details"`
	AttemptCount uint32      `json:"attempt_count"`
	FailedAt     time.Time   `json:"failed_at"`
}

func (MessageFailed) Topic() string     { return TopicConversationFailed }
func (MessageFailed) Version() string   { return "1.0" }
func (MessageFailed) EventType() string { return "MessageFailed" }
func (e MessageFailed) PartitionKey() string {
	return e.Phone
}

// Priority orders how urgently a WhatsAppMessageSend should be drained from
// the responses topic by the outbound sending collaborator.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// WhatsAppMessageSend carries an already-built, already-validated outbound
// message for the sending collaborator to deliver. Partitioned by the
// embedded recipient phone so replies to one conversation stay ordered.
// Message is a wamsg.Outbound tagged union: its own MarshalJSON/UnmarshalJSON
// dispatch by the message's "type" discriminant, so the envelope's generic
// json.Unmarshal into Envelope[WhatsAppMessageSend] decodes the concrete
// variant without this package needing a registry of its own.
type WhatsAppMessageSend struct {
	OriginalMessageID string         `json:"original_message_id"`
	Message           wamsg.Outbound `json:"message"`
	GeneratedAt       time.Time      `json:"generated_at"`
	Priority          Priority       `json:"priority"`
}

func (WhatsAppMessageSend) Topic() string     { return TopicConversationResponses }
func (WhatsAppMessageSend) Version() string   { return "1.0" }
func (WhatsAppMessageSend) EventType() string { return "WhatsAppMessageSend" }
func (e WhatsAppMessageSend) PartitionKey() string {
	return e.Message.Recipient()
}
