package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"

// VideoMessage references a video attachment by uploaded media id or url,
// with an optional caption.
type VideoMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	RecipientType    string    `json:"recipient_type"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Video            mediaBody `json:"video"`
}

func (m *VideoMessage) Recipient() string   { return m.To }
func (m *VideoMessage) MessageType() string { return "video" }

// NewVideoFromMediaID builds a video message referencing uploaded media.
func NewVideoFromMediaID(to, mediaID string) (*VideoMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.MediaID(mediaID); err != nil {
		return nil, err
	}
	return &VideoMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "video",
		Video:            mediaBody{ID: mediaID},
	}, nil
}

// NewVideoFromURL builds a video message referencing a hosted file.
func NewVideoFromURL(to, url string) (*VideoMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.URL(url); err != nil {
		return nil, err
	}
	return &VideoMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "video",
		Video:            mediaBody{Link: url},
	}, nil
}

// WithMediaID switches the message to reference uploaded media, clearing any
// previously set url.
func (m *VideoMessage) WithMediaID(mediaID string) error {
	if err := validate.MediaID(mediaID); err != nil {
		return err
	}
	m.Video.setID(mediaID)
	return nil
}

// WithURL sets the url only if no media id is already set.
func (m *VideoMessage) WithURL(url string) error {
	if err := validate.URL(url); err != nil {
		return err
	}
	m.Video.setURLIfUnset(url)
	return nil
}

// WithCaption attaches an optional caption to the video.
func (m *VideoMessage) WithCaption(caption string) error {
	if err := validateCaption(caption); err != nil {
		return err
	}
	m.Video.Caption = caption
	return nil
}
