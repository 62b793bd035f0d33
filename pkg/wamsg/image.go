package wamsg

import "github.com/chris-alexander-pop/system-design-library/pkg/wamsg/validate"

// ImageMessage references an image attachment by uploaded media id or url,
// with an optional caption.
type ImageMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	RecipientType    string    `json:"recipient_type"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Image            mediaBody `json:"image"`
}

func (m *ImageMessage) Recipient() string   { return m.To }
func (m *ImageMessage) MessageType() string { return "image" }

// NewImageFromMediaID builds an image message referencing uploaded media.
func NewImageFromMediaID(to, mediaID string) (*ImageMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.MediaID(mediaID); err != nil {
		return nil, err
	}
	return &ImageMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "image",
		Image:            mediaBody{ID: mediaID},
	}, nil
}

// NewImageFromURL builds an image message referencing a hosted file.
func NewImageFromURL(to, url string) (*ImageMessage, error) {
	if err := validate.Phone(to); err != nil {
		return nil, err
	}
	if err := validate.URL(url); err != nil {
		return nil, err
	}
	return &ImageMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "image",
		Image:            mediaBody{Link: url},
	}, nil
}

// WithMediaID switches the message to reference uploaded media, clearing any
// previously set url.
func (m *ImageMessage) WithMediaID(mediaID string) error {
	if err := validate.MediaID(mediaID); err != nil {
		return err
	}
	m.Image.setID(mediaID)
	return nil
}

// WithURL sets the url only if no media id is already set.
func (m *ImageMessage) WithURL(url string) error {
	if err := validate.URL(url); err != nil {
		return err
	}
	m.Image.setURLIfUnset(url)
	return nil
}

// WithCaption attaches an optional caption to the image.
func (m *ImageMessage) WithCaption(caption string) error {
	if err := validateCaption(caption); err != nil {
		return err
	}
	m.Image.Caption = caption
	return nil
}
