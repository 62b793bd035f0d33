package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"

// AudioMessage references an audio attachment by uploaded media id or url.
type AudioMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	RecipientType    string    `json:"recipient_type"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Audio            mediaBody `json:"audio"`
}

func (m *AudioMessage) Recipient() string   { return m.To }
func (m *AudioMessage) MessageType() string { return "audio" }

// NewAudioFromMediaID builds an audio message referencing uploaded media.
func NewAudioFromMediaID(to, mediaID string) (*AudioMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.MediaID(mediaID); err != nil {
		return nil, err
	}
	return &AudioMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "audio",
		Audio:            mediaBody{ID: mediaID},
	}, nil
}

// NewAudioFromURL builds an audio message referencing a hosted file.
func NewAudioFromURL(to, url string) (*AudioMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.URL(url); err != nil {
		return nil, err
	}
	return &AudioMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "audio",
		Audio:            mediaBody{Link: url},
	}, nil
}

// WithMediaID switches the message to reference uploaded media, clearing any
// previously set url (media id always wins).
func (m *AudioMessage) WithMediaID(mediaID string) error {
	if err := validate.MediaID(mediaID); err != nil {
		return err
	}
	m.Audio.setID(mediaID)
	return nil
}

// WithURL sets the url only if no media id is already set; otherwise it is
// a no-op, per the media-source precedence rule.
func (m *AudioMessage) WithURL(url string) error {
	if err := validate.URL(url); err != nil {
		return err
	}
	m.Audio.setURLIfUnset(url)
	return nil
}
