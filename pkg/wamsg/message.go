// Package wamsg implements the outbound WhatsApp Cloud API message schema:
// a closed family of message variants (text, audio, image, document, video,
// location, contact, interactive) with builders that enforce every
// cross-field invariant and serialize to the byte-exact JSON shape the
// platform's send endpoint expects.
package wamsg

import (
	"encoding/json"

	"github.com/chris-alexander-pop/system-design-library/pkg/errors"
)

// Message is implemented by every concrete outbound variant.
type Message interface {
	Recipient() string
	MessageType() string
}

// MediaReference carries exactly one of a previously uploaded media id or a
// hosted https url; setting an id clears any previously set url and
// vice versa is a no-op, per the media-source precedence rule.
type MediaReference struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"link,omitempty"`
}

func (m *MediaReference) setID(id string) {
	m.ID = id
	m.URL = ""
}

func (m *MediaReference) setURLIfUnset(url string) {
	if m.ID != "" {
		return
	}
	m.URL = url
}

// NewMediaReference builds a MediaReference from an uploaded media id and/or
// a hosted url, applying the precedence rule: a non-empty id always wins,
// the url is only kept when no id is given.
func NewMediaReference(id, url string) MediaReference {
	var m MediaReference
	if id != "" {
		m.setID(id)
		return m
	}
	m.setURLIfUnset(url)
	return m
}

// Outbound is a tagged-union wrapper around exactly one Message variant,
// used as the payload carried by a WhatsAppMessageSend event so the
// envelope layer can decode it by discriminant without importing every
// concrete variant type into pkg/eventbus.
type Outbound struct {
	Message Message
}

func (o Outbound) Recipient() string {
	if o.Message == nil {
		return ""
	}
	return o.Message.Recipient()
}

func (o Outbound) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Message)
}

func (o *Outbound) UnmarshalJSON(b []byte) error {
	var discriminant struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &discriminant); err != nil {
		return errors.Wrap(err, "failed to read outbound message discriminant")
	}

	var msg Message
	switch discriminant.Type {
	case "text":
		msg = &TextMessage{}
	case "audio":
		msg = &AudioMessage{}
	case "image":
		msg = &ImageMessage{}
	case "document":
		msg = &DocumentMessage{}
	case "video":
		msg = &VideoMessage{}
	case "location":
		msg = &LocationMessage{}
	case "contacts":
		msg = &ContactMessage{}
	case "interactive":
		msg = &InteractiveMessage{}
	default:
		return errors.InvalidArgument("unknown outbound message type: "+discriminant.Type, nil)
	}

	if err := json.Unmarshal(b, msg); err != nil {
		return errors.Wrap(err, "failed to decode outbound message")
	}
	o.Message = msg
	return nil
}
