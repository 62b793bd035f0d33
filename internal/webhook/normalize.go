package webhook

import (
	"strconv"
	"time"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
	"github.com/chris-alexander-pop/system-design-library/pkg/validator"
)

// phoneValidator rejects a from-phone that doesn't look like E.164 before it
// becomes a PartitionKey downstream.
var phoneValidator = validator.New()

// normalizedMessageTypes maps the wire type tag to the domain MessageType.
var normalizedMessageTypes = map[string]eventbus.MessageType{
	"text":     eventbus.MessageTypeText,
	"image":    eventbus.MessageTypeImage,
	"audio":    eventbus.MessageTypeAudio,
	"video":    eventbus.MessageTypeVideo,
	"document": eventbus.MessageTypeDocument,
	"sticker":  eventbus.MessageTypeSticker,
	"location": eventbus.MessageTypeLocation,
	"contact":  eventbus.MessageTypeContact,
}

// toMessageReceived normalizes msg into a MessageReceived event, or returns
// ok=false for a type this collaborator does not carry forward (reactions,
// referrals, delivery errors, or an interactive reply, which normalizes to
// InteractionReceived instead).
func toMessageReceived(msg Message, phoneNumberID string) (eventbus.MessageReceived, bool) {
	msgType, known := normalizedMessageTypes[msg.Type]
	if !known {
		return eventbus.MessageReceived{}, false
	}
	if phoneValidator.ValidateVar(msg.From, "phone_e164") != nil {
		return eventbus.MessageReceived{}, false
	}

	content := eventbus.ReceivedContent{}
	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return eventbus.MessageReceived{}, false
		}
		content.Text = &eventbus.ReceivedText{Body: msg.Text.Body}
	case "image":
		content.Media = mediaFrom(msg.Image)
	case "audio":
		content.Media = mediaFrom(msg.Audio)
	case "video":
		content.Media = mediaFrom(msg.Video)
	case "document":
		content.Media = mediaFrom(msg.Document)
	case "sticker":
		content.Media = mediaFrom(msg.Sticker)
	case "location":
		if msg.Location == nil {
			return eventbus.MessageReceived{}, false
		}
		content.Location = &eventbus.ReceivedLocation{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
			Name:      msg.Location.Name,
			Address:   msg.Location.Address,
		}
	case "contact":
		if len(msg.Contact) == 0 {
			return eventbus.MessageReceived{}, false
		}
		first := msg.Contact[0]
		rc := &eventbus.ReceivedContact{FormattedName: first.Name.FormattedName}
		if len(first.Phones) > 0 {
			rc.PhoneNumber = first.Phones[0].Phone
		}
		content.Contact = rc
	default:
		return eventbus.MessageReceived{}, false
	}
	if isMediaType(msg.Type) && content.Media == nil {
		return eventbus.MessageReceived{}, false
	}

	return eventbus.MessageReceived{
		MessageID:   msg.ID,
		FromPhone:   msg.From,
		MessageType: msgType,
		Content:     content,
		ReceivedAt:  receivedAt(msg.Timestamp),
		Metadata:    map[string]string{"phone_number_id": phoneNumberID},
	}, true
}

func isMediaType(t string) bool {
	switch t {
	case "image", "audio", "video", "document", "sticker":
		return true
	default:
		return false
	}
}

func mediaFrom(m *MediaContent) *eventbus.ReceivedMedia {
	if m == nil {
		return nil
	}
	return &eventbus.ReceivedMedia{
		MediaID:  m.ID,
		MimeType: m.MimeType,
		Caption:  m.Caption,
		Filename: m.Filename,
	}
}

// toInteractionReceived normalizes an interactive reply. ok is false when
// msg is not an interactive message or carries neither reply shape.
func toInteractionReceived(msg Message) (eventbus.InteractionReceived, bool) {
	if msg.Type != "interactive" || msg.Interactive == nil {
		return eventbus.InteractionReceived{}, false
	}
	if phoneValidator.ValidateVar(msg.From, "phone_e164") != nil {
		return eventbus.InteractionReceived{}, false
	}

	var selection eventbus.InteractionSelection
	var kind eventbus.InteractionType
	switch {
	case msg.Interactive.ButtonReply != nil:
		kind = eventbus.InteractionTypeButtonReply
		selection.ButtonReply = &eventbus.ButtonReplySelection{
			ID:    msg.Interactive.ButtonReply.ID,
			Title: msg.Interactive.ButtonReply.Title,
		}
	case msg.Interactive.ListReply != nil:
		kind = eventbus.InteractionTypeListReply
		selection.ListReply = &eventbus.ListReplySelection{
			ID:          msg.Interactive.ListReply.ID,
			Title:       msg.Interactive.ListReply.Title,
			Description: msg.Interactive.ListReply.Description,
		}
	default:
		return eventbus.InteractionReceived{}, false
	}

	return eventbus.InteractionReceived{
		OriginalMessageID: msg.ID,
		FromPhone:         msg.From,
		InteractionType:   kind,
		Selection:         selection,
		ReceivedAt:        receivedAt(msg.Timestamp),
	}, true
}

// receivedAt parses the Cloud API's unix-seconds-as-string timestamp,
// falling back to now on a malformed value rather than dropping the event.
func receivedAt(raw string) time.Time {
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Unix(secs, 0).UTC()
}
